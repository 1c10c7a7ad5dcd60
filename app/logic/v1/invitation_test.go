package v1

import (
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/types"
)

func seedTeamspaceFixture(s *stubStore) {
	s.teamspaces["acme"] = types.Teamspace{Name: "acme", Owner: "owner-1"}
	s.jobs["acme/architect"] = types.Job{Teamspace: "acme", Name: "architect"}
	s.projects["acme/bridge"] = types.Project{
		Teamspace: "acme",
		Name:      "bridge",
		Models:    pq.StringArray{"model-a", "model-b"},
	}
	s.projects["acme/tunnel"] = types.Project{
		Teamspace: "acme",
		Name:      "tunnel",
		Models:    pq.StringArray{"model-c"},
	}
	s.models["acme/model-a"] = types.ModelSetting{ID: "model-a", Teamspace: "acme"}
	s.models["acme/model-b"] = types.ModelSetting{ID: "model-b", Teamspace: "acme"}
	s.models["acme/model-c"] = types.ModelSetting{ID: "model-c", Teamspace: "acme"}
}

func assertErrKey(t *testing.T, err error, key string) {
	t.Helper()
	require.Error(t, err)
	cerr, ok := err.(*errors.CustomizedError)
	require.True(t, ok, "expected *errors.CustomizedError, got %T", err)
	assert.Equal(t, key, cerr.Message())
}

func TestCreateInvitationValidation(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		job         string
		permissions types.TeamspacePermissions
		seed        func(s *stubStore)
		wantErr     string
	}{
		{
			name:    "registered email rejected",
			email:   "Taken@Example.com",
			job:     "architect",
			wantErr: i18n.ERROR_EMAIL_INVALID,
			seed: func(s *stubStore) {
				s.users[types.DEFAULT_APPID+"/taken@example.com"] = types.User{
					ID: "u1", Appid: types.DEFAULT_APPID, Email: "taken@example.com",
				}
			},
		},
		{
			name:    "unknown job rejected",
			email:   "new@example.com",
			job:     "plumber",
			wantErr: i18n.ERROR_JOB_NOT_FOUND,
		},
		{
			name:  "unknown project rejected",
			email: "new@example.com",
			job:   "architect",
			permissions: types.TeamspacePermissions{
				Projects: []types.ProjectGrant{{Project: "skyscraper", ProjectAdmin: true}},
			},
			wantErr: i18n.ERROR_INVALID_PROJECT_NAME,
		},
		{
			name:  "unknown project rejected even for team admin",
			email: "new@example.com",
			job:   "architect",
			permissions: types.TeamspacePermissions{
				TeamAdmin: true,
				Projects:  []types.ProjectGrant{{Project: "skyscraper", ProjectAdmin: true}},
			},
			wantErr: i18n.ERROR_INVALID_PROJECT_NAME,
		},
		{
			name:  "unknown role rejected",
			email: "new@example.com",
			job:   "architect",
			permissions: types.TeamspacePermissions{
				Projects: []types.ProjectGrant{{
					Project: "bridge",
					Models:  []types.ModelGrant{{Model: "model-a", Role: "superuser"}},
				}},
			},
			wantErr: i18n.ERROR_INVALID_MODEL_PERMISSION_ROLE,
		},
		{
			name:  "model outside project rejected",
			email: "new@example.com",
			job:   "architect",
			permissions: types.TeamspacePermissions{
				Projects: []types.ProjectGrant{{
					Project: "bridge",
					Models:  []types.ModelGrant{{Model: "model-c", Role: types.ModelRoleViewer}},
				}},
			},
			wantErr: i18n.ERROR_INVALID_MODEL_ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStubStore()
			seedTeamspaceFixture(s)
			if tt.seed != nil {
				tt.seed(s)
			}

			logic := newTestInvitationLogic(s)
			_, err := logic.CreateInvitation(tt.email, "acme", tt.job, tt.permissions)
			assertErrKey(t, err, tt.wantErr)
			assert.Empty(t, s.invitations)
		})
	}
}

func TestCreateInvitation(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	logic := newTestInvitationLogic(s)

	view, err := logic.CreateInvitation("New.User@Example.com", "acme", "architect", types.TeamspacePermissions{
		Projects: []types.ProjectGrant{
			{Project: "bridge", Models: []types.ModelGrant{{Model: "model-a", Role: types.ModelRoleCollaborator}}},
			{Project: "tunnel", ProjectAdmin: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "new.user@example.com", view.Email)
	assert.Equal(t, "architect", view.Job)

	stored, ok := s.invitations["new.user@example.com/acme"]
	require.True(t, ok)
	assert.Equal(t, "architect", stored.Job)
	require.Len(t, stored.Permissions.Projects, 2)
	assert.Equal(t, "bridge", stored.Permissions.Projects[0].Project)
	assert.Equal(t, types.ModelRoleCollaborator, stored.Permissions.Projects[0].Models[0].Role)
	assert.True(t, stored.Permissions.Projects[1].ProjectAdmin)
}

func TestCreateInvitationTeamAdminCollapses(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	logic := newTestInvitationLogic(s)

	view, err := logic.CreateInvitation("new@example.com", "acme", "architect", types.TeamspacePermissions{
		TeamAdmin: true,
		Projects: []types.ProjectGrant{
			{Project: "bridge", Models: []types.ModelGrant{{Model: "model-a", Role: types.ModelRoleViewer}}},
		},
	})
	require.NoError(t, err)

	assert.True(t, view.Permissions.TeamAdmin)
	assert.Empty(t, view.Permissions.Projects)

	stored := s.invitations["new@example.com/acme"]
	assert.True(t, stored.Permissions.TeamAdmin)
	assert.Empty(t, stored.Permissions.Projects)
}

func TestCreateInvitationReplacesPending(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	logic := newTestInvitationLogic(s)

	_, err := logic.CreateInvitation("new@example.com", "acme", "architect", types.TeamspacePermissions{
		Projects: []types.ProjectGrant{{Project: "bridge", ProjectAdmin: true}},
	})
	require.NoError(t, err)

	_, err = logic.CreateInvitation("new@example.com", "acme", "architect", types.TeamspacePermissions{TeamAdmin: true})
	require.NoError(t, err)

	require.Len(t, s.invitations, 1)
	assert.True(t, s.invitations["new@example.com/acme"].Permissions.TeamAdmin)
}

func TestRemoveTeamspaceFromInvitation(t *testing.T) {
	s := newStubStore()
	s.invitations["new@example.com/acme"] = types.Invitation{InviteeEmail: "new@example.com", Teamspace: "acme"}
	s.invitations["new@example.com/globex"] = types.Invitation{InviteeEmail: "new@example.com", Teamspace: "globex"}
	logic := newTestInvitationLogic(s)

	// missing entry is a no-op
	require.NoError(t, logic.RemoveTeamspaceFromInvitation("new@example.com", "initech"))
	assert.Len(t, s.invitations, 2)

	require.NoError(t, logic.RemoveTeamspaceFromInvitation("new@example.com", "acme"))
	assert.Len(t, s.invitations, 1)
	_, remains := s.invitations["new@example.com/globex"]
	assert.True(t, remains)
}

func TestSetJob(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.invitations["new@example.com/acme"] = types.Invitation{
		InviteeEmail: "new@example.com", Teamspace: "acme", Job: "architect",
	}
	s.jobs["acme/engineer"] = types.Job{Teamspace: "acme", Name: "engineer"}
	logic := newTestInvitationLogic(s)

	err := logic.SetJob("missing@example.com", "acme", "engineer")
	assertErrKey(t, err, i18n.ERROR_USER_NOT_FOUND)

	err = logic.SetJob("new@example.com", "acme", "plumber")
	assertErrKey(t, err, i18n.ERROR_JOB_NOT_FOUND)

	require.NoError(t, logic.SetJob("new@example.com", "acme", "engineer"))
	assert.Equal(t, "engineer", s.invitations["new@example.com/acme"].Job)
}

func TestSetTeamspacePermission(t *testing.T) {
	s := newStubStore()
	s.invitations["new@example.com/acme"] = types.Invitation{InviteeEmail: "new@example.com", Teamspace: "acme"}
	s.invitations["new@example.com/globex"] = types.Invitation{InviteeEmail: "new@example.com", Teamspace: "globex"}
	logic := newTestInvitationLogic(s)

	_, err := logic.SetTeamspacePermission("missing@example.com", "acme", types.TeamspacePermissions{})
	assertErrKey(t, err, i18n.ERROR_USER_NOT_FOUND)

	view, err := logic.SetTeamspacePermission("new@example.com", "acme", types.TeamspacePermissions{TeamAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", view.User)
	assert.True(t, view.Permissions.TeamAdmin)

	// only the addressed teamspace entry changes
	assert.True(t, s.invitations["new@example.com/acme"].Permissions.TeamAdmin)
	assert.False(t, s.invitations["new@example.com/globex"].Permissions.TeamAdmin)
}

func TestUnpackTeamAdmin(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.invitations["new@example.com/acme"] = types.Invitation{
		InviteeEmail: "new@example.com",
		Teamspace:    "acme",
		Job:          "architect",
		Permissions:  types.TeamspacePermissions{TeamAdmin: true},
	}
	logic := newTestInvitationLogic(s)

	user := types.User{ID: "u-new", Appid: types.DEFAULT_APPID, Email: "new@example.com"}
	require.NoError(t, logic.Unpack(&user))

	member, ok := s.members["acme/u-new"]
	require.True(t, ok)
	assert.Equal(t, "architect", member.Job)
	assert.Equal(t, []string{types.TEAMSPACE_ADMIN}, []string(member.Permissions))

	// team admin grants nothing at project or model level
	assert.Empty(t, s.projects["acme/bridge"].Permissions)
	assert.Empty(t, s.models["acme/model-a"].Permissions)

	assert.Empty(t, s.invitations, "invitations consumed after unpack")
}

func TestUnpackProjectAndModelGrants(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.invitations["new@example.com/acme"] = types.Invitation{
		InviteeEmail: "new@example.com",
		Teamspace:    "acme",
		Job:          "architect",
		Permissions: types.TeamspacePermissions{
			Projects: []types.ProjectGrant{
				{Project: "tunnel", ProjectAdmin: true},
				{Project: "bridge", Models: []types.ModelGrant{
					{Model: "model-a", Role: types.ModelRoleCollaborator},
					{Model: "model-b", Role: types.ModelRoleViewer},
				}},
			},
		},
	}
	logic := newTestInvitationLogic(s)

	user := types.User{ID: "u-new", Appid: types.DEFAULT_APPID, Email: "new@example.com"}
	require.NoError(t, logic.Unpack(&user))

	member, ok := s.members["acme/u-new"]
	require.True(t, ok)
	assert.Empty(t, []string(member.Permissions))

	tunnel := s.projects["acme/tunnel"]
	require.Len(t, tunnel.Permissions, 1)
	assert.Equal(t, "u-new", tunnel.Permissions[0].User)
	assert.Equal(t, []string{types.PROJECT_ADMIN}, tunnel.Permissions[0].Permissions)

	modelA := s.models["acme/model-a"]
	require.Len(t, modelA.Permissions, 1)
	assert.Equal(t, types.ModelRoleCollaborator, modelA.Permissions[0].Permission)

	modelB := s.models["acme/model-b"]
	require.Len(t, modelB.Permissions, 1)
	assert.Equal(t, types.ModelRoleViewer, modelB.Permissions[0].Permission)

	assert.Empty(t, s.invitations)
}

func TestUnpackGrantsDedupeByUser(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)

	// pre-existing grants for the same user must be replaced, not duplicated
	tunnel := s.projects["acme/tunnel"]
	tunnel.Permissions = types.ProjectPermissionList{
		{User: "u-new", Permissions: []string{types.PROJECT_ADMIN}},
		{User: "u-other", Permissions: []string{types.PROJECT_ADMIN}},
	}
	s.projects["acme/tunnel"] = tunnel

	modelA := s.models["acme/model-a"]
	modelA.Permissions = types.ModelPermissionList{{User: "u-new", Permission: types.ModelRoleViewer}}
	s.models["acme/model-a"] = modelA

	s.invitations["new@example.com/acme"] = types.Invitation{
		InviteeEmail: "new@example.com",
		Teamspace:    "acme",
		Permissions: types.TeamspacePermissions{
			Projects: []types.ProjectGrant{
				{Project: "tunnel", ProjectAdmin: true},
				{Project: "bridge", Models: []types.ModelGrant{{Model: "model-a", Role: types.ModelRoleAdmin}}},
			},
		},
	}
	logic := newTestInvitationLogic(s)

	user := types.User{ID: "u-new", Appid: types.DEFAULT_APPID, Email: "new@example.com"}
	require.NoError(t, logic.Unpack(&user))

	tunnel = s.projects["acme/tunnel"]
	require.Len(t, tunnel.Permissions, 2)

	modelA = s.models["acme/model-a"]
	require.Len(t, modelA.Permissions, 1)
	assert.Equal(t, types.ModelRoleAdmin, modelA.Permissions[0].Permission)
}

func TestUnpackMultipleTeamspaces(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.teamspaces["globex"] = types.Teamspace{Name: "globex", Owner: "owner-2"}
	s.invitations["new@example.com/acme"] = types.Invitation{
		InviteeEmail: "new@example.com",
		Teamspace:    "acme",
		Permissions:  types.TeamspacePermissions{TeamAdmin: true},
	}
	s.invitations["new@example.com/globex"] = types.Invitation{
		InviteeEmail: "new@example.com",
		Teamspace:    "globex",
		Permissions:  types.TeamspacePermissions{},
	}
	logic := newTestInvitationLogic(s)

	user := types.User{ID: "u-new", Appid: types.DEFAULT_APPID, Email: "new@example.com"}
	require.NoError(t, logic.Unpack(&user))

	_, inAcme := s.members["acme/u-new"]
	_, inGlobex := s.members["globex/u-new"]
	assert.True(t, inAcme)
	assert.True(t, inGlobex)
	assert.Empty(t, s.invitations)
}

func TestGetInvitationsByTeamspace(t *testing.T) {
	s := newStubStore()
	s.invitations["a@example.com/acme"] = types.Invitation{
		InviteeEmail: "a@example.com", Teamspace: "acme", Job: "architect",
	}
	s.invitations["b@example.com/globex"] = types.Invitation{
		InviteeEmail: "b@example.com", Teamspace: "globex", Job: "engineer",
	}
	logic := newTestInvitationLogic(s)

	views, err := logic.GetInvitationsByTeamspace("acme")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "a@example.com", views[0].Email)
	assert.Equal(t, "architect", views[0].Job)
}

func TestIsInvitation(t *testing.T) {
	assert.True(t, IsInvitation("someone@example.com"))
	assert.False(t, IsInvitation("u-12345"))
	assert.False(t, IsInvitation(""))
}
