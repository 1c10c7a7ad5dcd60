package types

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type Teamspace struct {
	Name      string `json:"name" db:"name"` // teamspace identity
	Owner     string `json:"owner" db:"owner"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// TEAMSPACE_ADMIN is the teamspace level permission granted to members
// invited with team_admin.
const TEAMSPACE_ADMIN = "teamspace_admin"

type TeamspaceMember struct {
	ID          int64          `json:"id" db:"id"`
	Teamspace   string         `json:"teamspace" db:"teamspace"`
	UserID      string         `json:"user_id" db:"user_id"`
	Job         string         `json:"job" db:"job"`
	Permissions pq.StringArray `json:"permissions" db:"permissions"` // teamspace level permissions, e.g. teamspace_admin
	CreatedAt   int64          `json:"created_at" db:"created_at"`
}

type ListTeamspaceMemberOptions struct {
	Teamspace string
	UserID    string
	Job       string
	Keywords  string
}

func (opts ListTeamspaceMemberOptions) Apply(query *sq.SelectBuilder) {
	if opts.Teamspace != "" {
		*query = query.Where(sq.Eq{"teamspace": opts.Teamspace})
	}
	if opts.UserID != "" {
		*query = query.Where(sq.Eq{"user_id": opts.UserID})
	}
	if opts.Job != "" {
		*query = query.Where(sq.Eq{"job": opts.Job})
	}
	if opts.Keywords != "" {
		*query = query.InnerJoin(fmt.Sprintf("%s as u ON u.id = %s.user_id", TABLE_USER.Name(), TABLE_TEAMSPACE_MEMBER.Name())).
			Where(sq.Or{sq.Like{"u.name": "%" + opts.Keywords + "%"}, sq.Eq{"u.email": opts.Keywords}})
	}
}
