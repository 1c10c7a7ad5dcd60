package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

type ModelSetting struct {
	ID          string              `json:"id" db:"id"`
	Teamspace   string              `json:"teamspace" db:"teamspace"`
	Name        string              `json:"name" db:"name"`
	Federate    bool                `json:"federate" db:"federate"`
	SubModels   pq.StringArray      `json:"sub_models" db:"sub_models"` // model ids referenced by a federation
	Permissions ModelPermissionList `json:"permissions" db:"permissions"`
	UpdatedAt   int64               `json:"updated_at" db:"updated_at"`
	CreatedAt   int64               `json:"created_at" db:"created_at"`
}

// ModelPermission is one user level grant on a model,
// e.g. {user: "bob", permission: "viewer"}.
type ModelPermission struct {
	User       string `json:"user"`
	Permission string `json:"permission"`
}

func (p ModelPermission) GetUser() string { return p.User }
func (p ModelPermission) GetRole() string { return p.Permission }

type ModelPermissionList []ModelPermission

func (a ModelPermissionList) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *ModelPermissionList) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return a.scanBytes(src)
	case string:
		return a.scanBytes([]byte(src))
	case nil:
		*a = nil
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to ModelPermissionList", src)
}

func (a *ModelPermissionList) scanBytes(src []byte) error {
	if len(src) == 0 {
		*a = ModelPermissionList{}
		return nil
	}
	return json.Unmarshal(src, a)
}

type ListModelSettingOptions struct {
	Teamspace string
	IDs       []string
}

func (opts ListModelSettingOptions) Apply(query *sq.SelectBuilder) {
	if opts.Teamspace != "" {
		*query = query.Where(sq.Eq{"teamspace": opts.Teamspace})
	}
	if len(opts.IDs) > 0 {
		*query = query.Where(sq.Eq{"id": opts.IDs})
	}
}
