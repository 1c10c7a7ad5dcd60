package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type Project struct {
	ID          int64                 `json:"id" db:"id"`
	Teamspace   string                `json:"teamspace" db:"teamspace"`
	Name        string                `json:"name" db:"name"`
	Models      pq.StringArray        `json:"models" db:"models"` // ids of the models owned by the project
	Permissions ProjectPermissionList `json:"permissions" db:"permissions"`
	CreatedAt   int64                 `json:"created_at" db:"created_at"`
}

// HasModel reports whether the given model id belongs to the project.
func (p Project) HasModel(id string) bool {
	for _, v := range p.Models {
		if v == id {
			return true
		}
	}
	return false
}

// ProjectPermission is one user level grant on a project, e.g.
// {user: "bob", permissions: ["project_admin"]}.
type ProjectPermission struct {
	User        string   `json:"user"`
	Permissions []string `json:"permissions"`
}

const PROJECT_ADMIN = "project_admin"

type ProjectPermissionList []ProjectPermission

func (a ProjectPermissionList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ProjectPermissionList) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return a.scanBytes(src)
	case string:
		return a.scanBytes([]byte(src))
	case nil:
		*a = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to ProjectPermissionList", src)
}

func (a *ProjectPermissionList) scanBytes(src []byte) error {
	if len(src) == 0 {
		*a = ProjectPermissionList{}
		return nil
	}
	return json.Unmarshal(src, a)
}

type ListProjectOptions struct {
	Teamspace string
	Names     []string
}

func (opts ListProjectOptions) Apply(query *sq.SelectBuilder) {
	if opts.Teamspace != "" {
		*query = query.Where(sq.Eq{"teamspace": opts.Teamspace})
	}
	if len(opts.Names) > 0 {
		*query = query.Where(sq.Eq{"name": opts.Names})
	}
}
