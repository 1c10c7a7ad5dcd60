package types

import (
	sq "github.com/Masterminds/squirrel"
)

type Job struct {
	ID        int64  `json:"id" db:"id"`
	Teamspace string `json:"teamspace" db:"teamspace"`
	Name      string `json:"name" db:"name"`
	Color     string `json:"color" db:"color"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type ListJobOptions struct {
	Teamspace string
	Names     []string
}

func (opts ListJobOptions) Apply(query *sq.SelectBuilder) {
	if opts.Teamspace != "" {
		*query = query.Where(sq.Eq{"teamspace": opts.Teamspace})
	}
	if len(opts.Names) > 0 {
		*query = query.Where(sq.Eq{"name": opts.Names})
	}
}
