package v1

import (
	"context"
	"database/sql"
	"time"

	"github.com/repo3d/repo3d/app/store"
	"github.com/repo3d/repo3d/pkg/security"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

func init() {
	utils.SetupIDWorker(1)
}

// stubStore is an in-memory store.Store for logic tests, keyed the same way
// the sql tables are.
type stubStore struct {
	users       map[string]types.User            // appid+"/"+email
	jobs        map[string]types.Job             // teamspace+"/"+name
	projects    map[string]types.Project        // teamspace+"/"+name
	models      map[string]types.ModelSetting   // teamspace+"/"+id
	members     map[string]types.TeamspaceMember // teamspace+"/"+userID
	teamspaces  map[string]types.Teamspace       // name
	invitations map[string]types.Invitation      // email+"/"+teamspace
}

func newStubStore() *stubStore {
	return &stubStore{
		users:       make(map[string]types.User),
		jobs:        make(map[string]types.Job),
		projects:    make(map[string]types.Project),
		models:      make(map[string]types.ModelSetting),
		members:     make(map[string]types.TeamspaceMember),
		teamspaces:  make(map[string]types.Teamspace),
		invitations: make(map[string]types.Invitation),
	}
}

func (s *stubStore) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	return next(ctx)
}

func (s *stubStore) UserStore() store.UserStore                     { return &stubUserStore{s: s} }
func (s *stubStore) AccessTokenStore() store.AccessTokenStore       { return &stubAccessTokenStore{} }
func (s *stubStore) TeamspaceStore() store.TeamspaceStore           { return &stubTeamspaceStore{s: s} }
func (s *stubStore) TeamspaceMemberStore() store.TeamspaceMemberStore {
	return &stubTeamspaceMemberStore{s: s}
}
func (s *stubStore) JobStore() store.JobStore                   { return &stubJobStore{s: s} }
func (s *stubStore) ProjectStore() store.ProjectStore           { return &stubProjectStore{s: s} }
func (s *stubStore) ModelSettingStore() store.ModelSettingStore { return &stubModelSettingStore{s: s} }
func (s *stubStore) InvitationStore() store.InvitationStore     { return &stubInvitationStore{s: s} }

type stubCommons struct{}

func (stubCommons) GetTable(...interface{}) string { return "" }

type stubUserStore struct {
	s *stubStore
	stubCommons
}

func (st *stubUserStore) Create(_ context.Context, data types.User) error {
	st.s.users[data.Appid+"/"+data.Email] = data
	return nil
}

func (st *stubUserStore) GetUser(_ context.Context, appid, id string) (*types.User, error) {
	for _, u := range st.s.users {
		if u.Appid == appid && u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (st *stubUserStore) GetByEmail(_ context.Context, appid, email string) (*types.User, error) {
	u, ok := st.s.users[appid+"/"+email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (st *stubUserStore) UpdateUserProfile(_ context.Context, appid, id, userName, email, avatar string) error {
	return nil
}

func (st *stubUserStore) UpdateUserPassword(_ context.Context, appid, id, salt, password string) error {
	return nil
}

func (st *stubUserStore) Delete(_ context.Context, appid, id string) error { return nil }

func (st *stubUserStore) ListUsers(_ context.Context, opts types.ListUserOptions, page, pageSize uint64) ([]types.User, error) {
	var out []types.User
	for _, u := range st.s.users {
		if opts.Appid != "" && u.Appid != opts.Appid {
			continue
		}
		if len(opts.IDs) > 0 {
			match := false
			for _, id := range opts.IDs {
				if u.ID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, u)
	}
	return out, nil
}

func (st *stubUserStore) Total(_ context.Context, opts types.ListUserOptions) (int64, error) {
	return int64(len(st.s.users)), nil
}

type stubAccessTokenStore struct {
	stubCommons
	tokens []types.AccessToken
}

func (st *stubAccessTokenStore) Create(_ context.Context, data types.AccessToken) error {
	st.tokens = append(st.tokens, data)
	return nil
}

func (st *stubAccessTokenStore) GetAccessToken(_ context.Context, appid, token string) (*types.AccessToken, error) {
	for _, v := range st.tokens {
		if v.Appid == appid && v.Token == token {
			v := v
			return &v, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (st *stubAccessTokenStore) Delete(_ context.Context, appid, userID string, id int64) error {
	return nil
}

func (st *stubAccessTokenStore) ListAccessTokens(_ context.Context, appid, userID string, page, pageSize uint64) ([]types.AccessToken, error) {
	return st.tokens, nil
}

func (st *stubAccessTokenStore) ClearUserTokens(_ context.Context, appid, userID string) error {
	return nil
}

type stubTeamspaceStore struct {
	s *stubStore
	stubCommons
}

func (st *stubTeamspaceStore) Create(_ context.Context, data types.Teamspace) error {
	st.s.teamspaces[data.Name] = data
	return nil
}

func (st *stubTeamspaceStore) Get(_ context.Context, name string) (*types.Teamspace, error) {
	v, ok := st.s.teamspaces[name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubTeamspaceStore) Delete(_ context.Context, name string) error {
	delete(st.s.teamspaces, name)
	return nil
}

func (st *stubTeamspaceStore) List(_ context.Context, names []string, page, pageSize uint64) ([]types.Teamspace, error) {
	var out []types.Teamspace
	for _, v := range st.s.teamspaces {
		out = append(out, v)
	}
	return out, nil
}

type stubTeamspaceMemberStore struct {
	s *stubStore
	stubCommons
}

func (st *stubTeamspaceMemberStore) Create(_ context.Context, data types.TeamspaceMember) error {
	st.s.members[data.Teamspace+"/"+data.UserID] = data
	return nil
}

func (st *stubTeamspaceMemberStore) Get(_ context.Context, teamspace, userID string) (*types.TeamspaceMember, error) {
	v, ok := st.s.members[teamspace+"/"+userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubTeamspaceMemberStore) UpdateJob(_ context.Context, teamspace, userID, job string) error {
	v, ok := st.s.members[teamspace+"/"+userID]
	if !ok {
		return sql.ErrNoRows
	}
	v.Job = job
	st.s.members[teamspace+"/"+userID] = v
	return nil
}

func (st *stubTeamspaceMemberStore) Delete(_ context.Context, teamspace, userID string) error {
	delete(st.s.members, teamspace+"/"+userID)
	return nil
}

func (st *stubTeamspaceMemberStore) List(_ context.Context, opts types.ListTeamspaceMemberOptions, page, pageSize uint64) ([]types.TeamspaceMember, error) {
	var out []types.TeamspaceMember
	for _, v := range st.s.members {
		if opts.Teamspace != "" && v.Teamspace != opts.Teamspace {
			continue
		}
		if opts.UserID != "" && v.UserID != opts.UserID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (st *stubTeamspaceMemberStore) Total(_ context.Context, opts types.ListTeamspaceMemberOptions) (int64, error) {
	return int64(len(st.s.members)), nil
}

type stubJobStore struct {
	s *stubStore
	stubCommons
}

func (st *stubJobStore) Create(_ context.Context, data types.Job) error {
	st.s.jobs[data.Teamspace+"/"+data.Name] = data
	return nil
}

func (st *stubJobStore) FindByJob(_ context.Context, teamspace, name string) (*types.Job, error) {
	v, ok := st.s.jobs[teamspace+"/"+name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubJobStore) Delete(_ context.Context, teamspace, name string) error {
	delete(st.s.jobs, teamspace+"/"+name)
	return nil
}

func (st *stubJobStore) List(_ context.Context, opts types.ListJobOptions, page, pageSize uint64) ([]types.Job, error) {
	var out []types.Job
	for _, v := range st.s.jobs {
		if opts.Teamspace != "" && v.Teamspace != opts.Teamspace {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type stubProjectStore struct {
	s *stubStore
	stubCommons
}

func (st *stubProjectStore) Create(_ context.Context, data types.Project) error {
	st.s.projects[data.Teamspace+"/"+data.Name] = data
	return nil
}

func (st *stubProjectStore) FindByName(_ context.Context, teamspace, name string) (*types.Project, error) {
	v, ok := st.s.projects[teamspace+"/"+name]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubProjectStore) FindByNames(_ context.Context, teamspace string, names []string) ([]types.Project, error) {
	var out []types.Project
	for _, name := range names {
		if v, ok := st.s.projects[teamspace+"/"+name]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (st *stubProjectStore) UpdatePermissions(_ context.Context, teamspace, name string, permissions types.ProjectPermissionList) error {
	v, ok := st.s.projects[teamspace+"/"+name]
	if !ok {
		return sql.ErrNoRows
	}
	v.Permissions = permissions
	st.s.projects[teamspace+"/"+name] = v
	return nil
}

func (st *stubProjectStore) Delete(_ context.Context, teamspace, name string) error {
	delete(st.s.projects, teamspace+"/"+name)
	return nil
}

func (st *stubProjectStore) List(_ context.Context, opts types.ListProjectOptions, page, pageSize uint64) ([]types.Project, error) {
	var out []types.Project
	for _, v := range st.s.projects {
		if opts.Teamspace != "" && v.Teamspace != opts.Teamspace {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type stubModelSettingStore struct {
	s *stubStore
	stubCommons
}

func (st *stubModelSettingStore) Create(_ context.Context, data types.ModelSetting) error {
	st.s.models[data.Teamspace+"/"+data.ID] = data
	return nil
}

func (st *stubModelSettingStore) Get(_ context.Context, teamspace, id string) (*types.ModelSetting, error) {
	v, ok := st.s.models[teamspace+"/"+id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubModelSettingStore) Find(_ context.Context, opts types.ListModelSettingOptions) ([]types.ModelSetting, error) {
	var out []types.ModelSetting
	for _, v := range st.s.models {
		if opts.Teamspace != "" && v.Teamspace != opts.Teamspace {
			continue
		}
		if len(opts.IDs) > 0 {
			match := false
			for _, id := range opts.IDs {
				if v.ID == id {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (st *stubModelSettingStore) ChangePermissions(_ context.Context, teamspace, id string, permissions types.ModelPermissionList) error {
	v, ok := st.s.models[teamspace+"/"+id]
	if !ok {
		return sql.ErrNoRows
	}
	v.Permissions = permissions
	v.UpdatedAt = time.Now().Unix()
	st.s.models[teamspace+"/"+id] = v
	return nil
}

func (st *stubModelSettingStore) Delete(_ context.Context, teamspace, id string) error {
	delete(st.s.models, teamspace+"/"+id)
	return nil
}

type stubInvitationStore struct {
	s *stubStore
	stubCommons
}

func (st *stubInvitationStore) Upsert(_ context.Context, data types.Invitation) error {
	st.s.invitations[data.InviteeEmail+"/"+data.Teamspace] = data
	return nil
}

func (st *stubInvitationStore) Get(_ context.Context, email, teamspace string) (*types.Invitation, error) {
	v, ok := st.s.invitations[email+"/"+teamspace]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (st *stubInvitationStore) ListByEmail(_ context.Context, email string) ([]types.Invitation, error) {
	var out []types.Invitation
	for _, v := range st.s.invitations {
		if v.InviteeEmail == email {
			out = append(out, v)
		}
	}
	return out, nil
}

func (st *stubInvitationStore) ListByTeamspace(_ context.Context, teamspace string) ([]types.Invitation, error) {
	var out []types.Invitation
	for _, v := range st.s.invitations {
		if v.Teamspace == teamspace {
			out = append(out, v)
		}
	}
	return out, nil
}

func (st *stubInvitationStore) UpdateJob(_ context.Context, email, teamspace, job string) error {
	v, ok := st.s.invitations[email+"/"+teamspace]
	if !ok {
		return sql.ErrNoRows
	}
	v.Job = job
	st.s.invitations[email+"/"+teamspace] = v
	return nil
}

func (st *stubInvitationStore) UpdatePermissions(_ context.Context, email, teamspace string, permissions types.TeamspacePermissions) error {
	v, ok := st.s.invitations[email+"/"+teamspace]
	if !ok {
		return sql.ErrNoRows
	}
	v.Permissions = permissions
	st.s.invitations[email+"/"+teamspace] = v
	return nil
}

func (st *stubInvitationStore) Delete(_ context.Context, email, teamspace string) error {
	delete(st.s.invitations, email+"/"+teamspace)
	return nil
}

func (st *stubInvitationStore) DeleteAllByEmail(_ context.Context, email string) error {
	for k, v := range st.s.invitations {
		if v.InviteeEmail == email {
			delete(st.s.invitations, k)
		}
	}
	return nil
}

// testUserInfo satisfies UserInfo without a gin context behind it.
type testUserInfo struct {
	claims security.TokenClaims
}

func (u testUserInfo) GetUserInfo() security.TokenClaims {
	return u.claims
}

func newTestInvitationLogic(s *stubStore) *InvitationLogic {
	return &InvitationLogic{
		ctx:   context.Background(),
		store: s,
		UserInfo: testUserInfo{claims: security.TokenClaims{
			Appid: types.DEFAULT_APPID,
			User:  "tester",
		}},
	}
}
