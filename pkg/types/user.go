package types

import (
	sq "github.com/Masterminds/squirrel"
)

type User struct {
	ID        string `json:"id" db:"id"`
	Appid     string `json:"appid" db:"appid"`
	Name      string `json:"name" db:"name"`
	Email     string `json:"email" db:"email"` // lower-cased, unique per appid
	Avatar    string `json:"avatar" db:"avatar"`
	Salt      string `json:"-" db:"salt"`
	Password  string `json:"-" db:"password"`
	Source    string `json:"-" db:"source"`
	UpdatedAt int64  `json:"updated_at" db:"updated_at"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

type ListUserOptions struct {
	Appid    string
	IDs      []string
	Email    string
	Keywords string
}

func (opts ListUserOptions) Apply(query *sq.SelectBuilder) {
	if opts.Appid != "" {
		*query = query.Where(sq.Eq{"appid": opts.Appid})
	}
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
	if opts.Email != "" {
		*query = query.Where(sq.Eq{"email": opts.Email})
	}
	if opts.Keywords != "" {
		*query = query.Where(sq.Or{sq.Like{"name": "%" + opts.Keywords + "%"}, sq.Eq{"email": opts.Keywords}})
	}
}
