package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/samber/lo"

	"github.com/repo3d/repo3d/app/core"
	"github.com/repo3d/repo3d/app/store"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

type TeamspaceLogic struct {
	UserInfo
	ctx   context.Context
	core  *core.Core
	store store.Store
}

func NewTeamspaceLogic(ctx context.Context, core *core.Core) *TeamspaceLogic {
	return &TeamspaceLogic{
		ctx:      ctx,
		core:     core,
		store:    core.Store(),
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// invitations shares the teamspace logic's store and identity with the
// invitation resolver.
func (l *TeamspaceLogic) invitations() *InvitationLogic {
	return &InvitationLogic{
		ctx:      l.ctx,
		core:     l.core,
		store:    l.store,
		UserInfo: l.UserInfo,
	}
}

// CreateTeamspace registers the teamspace with the caller as owner and
// first admin member.
func (l *TeamspaceLogic) CreateTeamspace(name string) (*types.Teamspace, error) {
	claims := l.GetUserInfo()

	exist, err := l.store.TeamspaceStore().Get(l.ctx, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TeamspaceLogic.CreateTeamspace.TeamspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return nil, errors.New("TeamspaceLogic.CreateTeamspace.exist", i18n.ERROR_EXIST, nil).Code(http.StatusBadRequest)
	}

	teamspace := types.Teamspace{
		Name:      name,
		Owner:     claims.User,
		CreatedAt: time.Now().Unix(),
	}

	err = l.store.Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.store.TeamspaceStore().Create(ctx, teamspace); err != nil {
			return err
		}
		return l.store.TeamspaceMemberStore().Create(ctx, types.TeamspaceMember{
			Teamspace:   name,
			UserID:      claims.User,
			Permissions: []string{types.TEAMSPACE_ADMIN},
			CreatedAt:   time.Now().Unix(),
		})
	})
	if err != nil {
		return nil, errors.New("TeamspaceLogic.CreateTeamspace.Transaction", i18n.ERROR_INTERNAL, err)
	}

	return &teamspace, nil
}

// checkTeamspaceAdmin gates the management surface: the owner or any
// member holding teamspace_admin passes.
func (l *TeamspaceLogic) checkTeamspaceAdmin(teamspace string) error {
	claims := l.GetUserInfo()

	ts, err := l.store.TeamspaceStore().Get(l.ctx, teamspace)
	if err == sql.ErrNoRows {
		return errors.New("TeamspaceLogic.checkTeamspaceAdmin.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("TeamspaceLogic.checkTeamspaceAdmin.TeamspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if ts.Owner == claims.User {
		return nil
	}

	member, err := l.store.TeamspaceMemberStore().Get(l.ctx, teamspace, claims.User)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("TeamspaceLogic.checkTeamspaceAdmin.TeamspaceMemberStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if member == nil || !lo.Contains(member.Permissions, types.TEAMSPACE_ADMIN) {
		return errors.New("TeamspaceLogic.checkTeamspaceAdmin.denied", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}
	return nil
}

// MemberView is one row of the member listing. Pending invitees appear
// alongside registered members, flagged and keyed by email.
type MemberView struct {
	User         string          `json:"user"`
	Name         string          `json:"name,omitempty"`
	Job          string          `json:"job"`
	Permissions  []string        `json:"permissions"`
	IsInvitation bool            `json:"is_invitation,omitempty"`
	Pending      *InvitationView `json:"pending,omitempty"`
}

// Members lists registered members followed by pending invitations.
func (l *TeamspaceLogic) Members(teamspace string) ([]MemberView, error) {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return nil, err
	}

	members, err := l.store.TeamspaceMemberStore().List(l.ctx, types.ListTeamspaceMemberOptions{
		Teamspace: teamspace,
	}, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil {
		return nil, errors.New("TeamspaceLogic.Members.TeamspaceMemberStore.List", i18n.ERROR_INTERNAL, err)
	}

	var users []types.User
	if len(members) > 0 {
		users, err = l.store.UserStore().ListUsers(l.ctx, types.ListUserOptions{
			Appid: l.GetUserInfo().Appid,
			IDs: lo.Map(members, func(m types.TeamspaceMember, _ int) string {
				return m.UserID
			}),
		}, types.NO_PAGINATION, types.NO_PAGINATION)
		if err != nil {
			return nil, errors.New("TeamspaceLogic.Members.UserStore.ListUsers", i18n.ERROR_INTERNAL, err)
		}
	}
	nameByID := lo.SliceToMap(users, func(u types.User) (string, string) {
		return u.ID, u.Name
	})

	views := lo.Map(members, func(m types.TeamspaceMember, _ int) MemberView {
		return MemberView{
			User:        m.UserID,
			Name:        nameByID[m.UserID],
			Job:         m.Job,
			Permissions: m.Permissions,
		}
	})

	pending, err := l.invitations().GetInvitationsByTeamspace(teamspace)
	if err != nil {
		return nil, err
	}
	for _, v := range pending {
		v := v
		perms := []string{}
		if v.Permissions.TeamAdmin {
			perms = append(perms, types.TEAMSPACE_ADMIN)
		}
		views = append(views, MemberView{
			User:         v.Email,
			Job:          v.Job,
			Permissions:  perms,
			IsInvitation: true,
			Pending:      &v,
		})
	}
	return views, nil
}

// RemoveMember removes a registered member or, for an email identity,
// withdraws the pending invitation.
func (l *TeamspaceLogic) RemoveMember(teamspace, user string) error {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return err
	}

	if IsInvitation(user) {
		return l.invitations().RemoveTeamspaceFromInvitation(user, teamspace)
	}

	ts, err := l.store.TeamspaceStore().Get(l.ctx, teamspace)
	if err != nil {
		return errors.New("TeamspaceLogic.RemoveMember.TeamspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if ts.Owner == user {
		return errors.New("TeamspaceLogic.RemoveMember.owner", i18n.ERROR_FORBIDDEN, nil).Code(http.StatusForbidden)
	}

	if err = l.store.TeamspaceMemberStore().Delete(l.ctx, teamspace, user); err != nil {
		return errors.New("TeamspaceLogic.RemoveMember.TeamspaceMemberStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// SetMemberJob reassigns the job of a member or of a pending invitee.
func (l *TeamspaceLogic) SetMemberJob(teamspace, user, job string) error {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return err
	}

	if IsInvitation(user) {
		return l.invitations().SetJob(user, teamspace, job)
	}

	teamspaceJob, err := l.store.JobStore().FindByJob(l.ctx, teamspace, job)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("TeamspaceLogic.SetMemberJob.JobStore.FindByJob", i18n.ERROR_INTERNAL, err)
	}
	if teamspaceJob == nil {
		return errors.New("TeamspaceLogic.SetMemberJob.JobNotFound", i18n.ERROR_JOB_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	member, err := l.store.TeamspaceMemberStore().Get(l.ctx, teamspace, user)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("TeamspaceLogic.SetMemberJob.TeamspaceMemberStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if member == nil {
		return errors.New("TeamspaceLogic.SetMemberJob.nil", i18n.ERROR_USER_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	if err = l.store.TeamspaceMemberStore().UpdateJob(l.ctx, teamspace, user, job); err != nil {
		return errors.New("TeamspaceLogic.SetMemberJob.TeamspaceMemberStore.UpdateJob", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// ListJobs lists the jobs defined on the teamspace.
func (l *TeamspaceLogic) ListJobs(teamspace string) ([]types.Job, error) {
	jobs, err := l.store.JobStore().List(l.ctx, types.ListJobOptions{
		Teamspace: teamspace,
	}, types.NO_PAGINATION, types.NO_PAGINATION)
	if err != nil {
		return nil, errors.New("TeamspaceLogic.ListJobs.JobStore.List", i18n.ERROR_INTERNAL, err)
	}
	return jobs, nil
}

// CreateJob defines a new job on the teamspace.
func (l *TeamspaceLogic) CreateJob(teamspace, name, color string) (*types.Job, error) {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return nil, err
	}

	exist, err := l.store.JobStore().FindByJob(l.ctx, teamspace, name)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("TeamspaceLogic.CreateJob.JobStore.FindByJob", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return nil, errors.New("TeamspaceLogic.CreateJob.exist", i18n.ERROR_EXIST, nil).Code(http.StatusBadRequest)
	}

	job := types.Job{
		ID:        utils.GenUniqID(),
		Teamspace: teamspace,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now().Unix(),
	}
	if err = l.store.JobStore().Create(l.ctx, job); err != nil {
		return nil, errors.New("TeamspaceLogic.CreateJob.JobStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return &job, nil
}

// InviteMember validates and records an invitation for the teamspace.
func (l *TeamspaceLogic) InviteMember(teamspace, email, job string, permissions types.TeamspacePermissions) (*InvitationView, error) {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return nil, err
	}
	return l.invitations().CreateInvitation(email, teamspace, job, permissions)
}

// SetInviteePermissions replaces the pending permissions of an invitee.
func (l *TeamspaceLogic) SetInviteePermissions(teamspace, email string, permissions types.TeamspacePermissions) (*TeamspacePermissionView, error) {
	if err := l.checkTeamspaceAdmin(teamspace); err != nil {
		return nil, err
	}
	return l.invitations().SetTeamspacePermission(email, teamspace, permissions)
}
