package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Invitation holds one pending teamspace grant for a not yet registered
// email. An email may hold several rows, one per teamspace; inviting the
// same email to the same teamspace again replaces the previous row.
type Invitation struct {
	ID           int64                `json:"id" db:"id"`
	InviteeEmail string               `json:"invitee_email" db:"invitee_email"` // lower-cased
	Teamspace    string               `json:"teamspace" db:"teamspace"`
	Job          string               `json:"job" db:"job"`
	Permissions  TeamspacePermissions `json:"permissions" db:"permissions"`
	CreatedAt    int64                `json:"created_at" db:"created_at"`
	UpdatedAt    int64                `json:"updated_at" db:"updated_at"`
}

// Model permission roles, graduated access to a single model.
const (
	ModelRoleAdmin        = "admin"
	ModelRoleCollaborator = "collaborator"
	ModelRoleCommenter    = "commenter"
	ModelRoleViewer       = "viewer"
)

func IsValidModelRole(role string) bool {
	switch role {
	case ModelRoleAdmin, ModelRoleCollaborator, ModelRoleCommenter, ModelRoleViewer:
		return true
	}
	return false
}

// TeamspacePermissions is a tagged union. TeamAdmin wins over everything,
// a ProjectGrant is either project admin or a list of model grants.
type TeamspacePermissions struct {
	TeamAdmin bool           `json:"team_admin,omitempty"`
	Projects  []ProjectGrant `json:"projects,omitempty"`
}

type ProjectGrant struct {
	Project      string       `json:"project"`
	ProjectAdmin bool         `json:"project_admin,omitempty"`
	Models       []ModelGrant `json:"models,omitempty"`
}

type ModelGrant struct {
	Model string `json:"model"`
	Role  string `json:"role"`
}

// ProjectNames returns the distinct project names referenced by the grant.
func (p TeamspacePermissions) ProjectNames() []string {
	var (
		names []string
		seen  = make(map[string]struct{})
	)
	for _, v := range p.Projects {
		if _, ok := seen[v.Project]; ok {
			continue
		}
		seen[v.Project] = struct{}{}
		names = append(names, v.Project)
	}
	return names
}

// Normalize collapses the union to its effective variant: team_admin
// discards all project detail, project_admin discards model grants and
// model grants are stripped down to {model, role} pairs.
func (p TeamspacePermissions) Normalize() TeamspacePermissions {
	if p.TeamAdmin {
		return TeamspacePermissions{TeamAdmin: true}
	}

	projects := make([]ProjectGrant, 0, len(p.Projects))
	for _, pr := range p.Projects {
		if pr.ProjectAdmin {
			projects = append(projects, ProjectGrant{Project: pr.Project, ProjectAdmin: true})
			continue
		}
		models := make([]ModelGrant, 0, len(pr.Models))
		for _, m := range pr.Models {
			models = append(models, ModelGrant{Model: m.Model, Role: m.Role})
		}
		projects = append(projects, ProjectGrant{Project: pr.Project, Models: models})
	}
	return TeamspacePermissions{Projects: projects}
}

func (p TeamspacePermissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *TeamspacePermissions) Scan(src interface{}) error {
	switch src := src.(type) {
	case []byte:
		return p.scanBytes(src)
	case string:
		return p.scanBytes([]byte(src))
	case nil:
		*p = TeamspacePermissions{}
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to TeamspacePermissions", src)
}

func (p *TeamspacePermissions) scanBytes(src []byte) error {
	if len(src) == 0 {
		*p = TeamspacePermissions{}
		return nil
	}
	return json.Unmarshal(src, p)
}

type ListInvitationOptions struct {
	InviteeEmail string
	Teamspace    string
}

func (opts ListInvitationOptions) Apply(query *sq.SelectBuilder) {
	if opts.InviteeEmail != "" {
		*query = query.Where(sq.Eq{"invitee_email": opts.InviteeEmail})
	}
	if opts.Teamspace != "" {
		*query = query.Where(sq.Eq{"teamspace": opts.Teamspace})
	}
}
