package v1

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/security"
	"github.com/repo3d/repo3d/pkg/types"
)

func newTestTeamspaceLogic(s *stubStore, userID string) *TeamspaceLogic {
	return &TeamspaceLogic{
		ctx:   context.Background(),
		store: s,
		UserInfo: testUserInfo{claims: security.TokenClaims{
			Appid: types.DEFAULT_APPID,
			User:  userID,
		}},
	}
}

func TestCreateTeamspace(t *testing.T) {
	s := newStubStore()
	logic := newTestTeamspaceLogic(s, "owner-1")

	ts, err := logic.CreateTeamspace("acme")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", ts.Owner)

	member, ok := s.members["acme/owner-1"]
	require.True(t, ok, "owner joins as first member")
	assert.True(t, lo.Contains([]string(member.Permissions), types.TEAMSPACE_ADMIN))

	_, err = logic.CreateTeamspace("acme")
	assertErrKey(t, err, i18n.ERROR_EXIST)
}

func TestTeamspaceAdminGate(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.members["acme/u-admin"] = types.TeamspaceMember{
		Teamspace: "acme", UserID: "u-admin", Permissions: []string{types.TEAMSPACE_ADMIN},
	}
	s.members["acme/u-plain"] = types.TeamspaceMember{
		Teamspace: "acme", UserID: "u-plain",
	}

	_, err := newTestTeamspaceLogic(s, "owner-1").Members("acme")
	assert.NoError(t, err, "owner passes")

	_, err = newTestTeamspaceLogic(s, "u-admin").Members("acme")
	assert.NoError(t, err, "teamspace admin passes")

	_, err = newTestTeamspaceLogic(s, "u-plain").Members("acme")
	assertErrKey(t, err, i18n.ERROR_PERMISSION_DENIED)

	_, err = newTestTeamspaceLogic(s, "owner-1").Members("unknown")
	assertErrKey(t, err, i18n.ERROR_NOT_FOUND)
}

func TestMembersMergesPendingInvitations(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.users[types.DEFAULT_APPID+"/bob@example.com"] = types.User{
		ID: "u-bob", Appid: types.DEFAULT_APPID, Name: "Bob", Email: "bob@example.com",
	}
	s.members["acme/u-bob"] = types.TeamspaceMember{
		Teamspace: "acme", UserID: "u-bob", Job: "architect",
	}
	s.invitations["carol@example.com/acme"] = types.Invitation{
		InviteeEmail: "carol@example.com",
		Teamspace:    "acme",
		Job:          "architect",
		Permissions:  types.TeamspacePermissions{TeamAdmin: true},
	}

	views, err := newTestTeamspaceLogic(s, "owner-1").Members("acme")
	require.NoError(t, err)
	require.Len(t, views, 2)

	registered, ok := lo.Find(views, func(v MemberView) bool { return v.User == "u-bob" })
	require.True(t, ok)
	assert.Equal(t, "Bob", registered.Name)
	assert.False(t, registered.IsInvitation)

	invited, ok := lo.Find(views, func(v MemberView) bool { return v.User == "carol@example.com" })
	require.True(t, ok)
	assert.True(t, invited.IsInvitation)
	require.NotNil(t, invited.Pending)
	assert.True(t, invited.Pending.Permissions.TeamAdmin)
	assert.Contains(t, invited.Permissions, types.TEAMSPACE_ADMIN)
}

func TestRemoveMember(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.members["acme/u-bob"] = types.TeamspaceMember{Teamspace: "acme", UserID: "u-bob"}
	s.invitations["carol@example.com/acme"] = types.Invitation{
		InviteeEmail: "carol@example.com", Teamspace: "acme",
	}
	logic := newTestTeamspaceLogic(s, "owner-1")

	// email identity withdraws the pending invitation
	require.NoError(t, logic.RemoveMember("acme", "carol@example.com"))
	assert.Empty(t, s.invitations)

	require.NoError(t, logic.RemoveMember("acme", "u-bob"))
	_, exists := s.members["acme/u-bob"]
	assert.False(t, exists)

	err := logic.RemoveMember("acme", "owner-1")
	assertErrKey(t, err, i18n.ERROR_FORBIDDEN)
}

func TestSetMemberJob(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	s.members["acme/u-bob"] = types.TeamspaceMember{Teamspace: "acme", UserID: "u-bob"}
	logic := newTestTeamspaceLogic(s, "owner-1")

	err := logic.SetMemberJob("acme", "u-bob", "plumber")
	assertErrKey(t, err, i18n.ERROR_JOB_NOT_FOUND)

	err = logic.SetMemberJob("acme", "u-ghost", "architect")
	assertErrKey(t, err, i18n.ERROR_USER_NOT_FOUND)

	require.NoError(t, logic.SetMemberJob("acme", "u-bob", "architect"))
	assert.Equal(t, "architect", s.members["acme/u-bob"].Job)
}

func TestCreateJob(t *testing.T) {
	s := newStubStore()
	seedTeamspaceFixture(s)
	logic := newTestTeamspaceLogic(s, "owner-1")

	job, err := logic.CreateJob("acme", "engineer", "#ff0000")
	require.NoError(t, err)
	assert.Equal(t, "engineer", job.Name)

	_, err = logic.CreateJob("acme", "engineer", "#ff0000")
	assertErrKey(t, err, i18n.ERROR_EXIST)
}
