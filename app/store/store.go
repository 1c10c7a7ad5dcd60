package store

import (
	"context"

	"github.com/repo3d/repo3d/pkg/sqlstore"
	"github.com/repo3d/repo3d/pkg/types"
)

// Store is the aggregate storage surface logic code works against.
// sqlstore.Provider implements it; tests may supply doubles.
type Store interface {
	Transaction(ctx context.Context, next func(ctx context.Context) error) error
	UserStore() UserStore
	AccessTokenStore() AccessTokenStore
	TeamspaceStore() TeamspaceStore
	TeamspaceMemberStore() TeamspaceMemberStore
	JobStore() JobStore
	ProjectStore() ProjectStore
	ModelSettingStore() ModelSettingStore
	InvitationStore() InvitationStore
}

type UserStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.User) error
	GetUser(ctx context.Context, appid, id string) (*types.User, error)
	GetByEmail(ctx context.Context, appid, email string) (*types.User, error)
	UpdateUserProfile(ctx context.Context, appid, id, userName, email, avatar string) error
	UpdateUserPassword(ctx context.Context, appid, id, salt, password string) error
	Delete(ctx context.Context, appid, id string) error
	ListUsers(ctx context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error)
	Total(ctx context.Context, opts types.ListUserOptions) (int64, error)
}

type AccessTokenStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, appid, token string) (*types.AccessToken, error)
	Delete(ctx context.Context, appid, userID string, id int64) error
	ListAccessTokens(ctx context.Context, appid, userID string, page, pageSize uint64) ([]types.AccessToken, error)
	ClearUserTokens(ctx context.Context, appid, userID string) error
}

type TeamspaceStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Teamspace) error
	Get(ctx context.Context, name string) (*types.Teamspace, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context, names []string, page, pageSize uint64) ([]types.Teamspace, error)
}

type TeamspaceMemberStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.TeamspaceMember) error
	Get(ctx context.Context, teamspace, userID string) (*types.TeamspaceMember, error)
	UpdateJob(ctx context.Context, teamspace, userID, job string) error
	Delete(ctx context.Context, teamspace, userID string) error
	List(ctx context.Context, opts types.ListTeamspaceMemberOptions, page, pageSize uint64) ([]types.TeamspaceMember, error)
	Total(ctx context.Context, opts types.ListTeamspaceMemberOptions) (int64, error)
}

type JobStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Job) error
	FindByJob(ctx context.Context, teamspace, name string) (*types.Job, error)
	Delete(ctx context.Context, teamspace, name string) error
	List(ctx context.Context, opts types.ListJobOptions, page, pageSize uint64) ([]types.Job, error)
}

type ProjectStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.Project) error
	FindByName(ctx context.Context, teamspace, name string) (*types.Project, error)
	FindByNames(ctx context.Context, teamspace string, names []string) ([]types.Project, error)
	UpdatePermissions(ctx context.Context, teamspace, name string, permissions types.ProjectPermissionList) error
	Delete(ctx context.Context, teamspace, name string) error
	List(ctx context.Context, opts types.ListProjectOptions, page, pageSize uint64) ([]types.Project, error)
}

type ModelSettingStore interface {
	sqlstore.SqlCommons
	Create(ctx context.Context, data types.ModelSetting) error
	Get(ctx context.Context, teamspace, id string) (*types.ModelSetting, error)
	Find(ctx context.Context, opts types.ListModelSettingOptions) ([]types.ModelSetting, error)
	ChangePermissions(ctx context.Context, teamspace, id string, permissions types.ModelPermissionList) error
	Delete(ctx context.Context, teamspace, id string) error
}

type InvitationStore interface {
	sqlstore.SqlCommons
	Upsert(ctx context.Context, data types.Invitation) error
	Get(ctx context.Context, email, teamspace string) (*types.Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]types.Invitation, error)
	ListByTeamspace(ctx context.Context, teamspace string) ([]types.Invitation, error)
	UpdateJob(ctx context.Context, email, teamspace, job string) error
	UpdatePermissions(ctx context.Context, email, teamspace string, permissions types.TeamspacePermissions) error
	Delete(ctx context.Context, email, teamspace string) error
	DeleteAllByEmail(ctx context.Context, email string) error
}
