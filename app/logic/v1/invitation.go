package v1

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/repo3d/repo3d/app/core"
	"github.com/repo3d/repo3d/app/store"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/security"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

// InvitationLogic validates, persists and unpacks pending teamspace
// invitations keyed by the invitee's email.
type InvitationLogic struct {
	UserInfo
	ctx   context.Context
	core  *core.Core
	store store.Store
}

func NewInvitationLogic(ctx context.Context, core *core.Core) *InvitationLogic {
	l := &InvitationLogic{
		ctx:      ctx,
		core:     core,
		store:    core.Store(),
		UserInfo: SetupUserInfo(ctx, core),
	}

	return l
}

// InvitationView is the teamspace scoped view returned to callers, the
// teamspace itself is implied by the request.
type InvitationView struct {
	Email       string                     `json:"email"`
	Job         string                     `json:"job"`
	Permissions types.TeamspacePermissions `json:"permissions"`
}

// CreateInvitation records a pending invitation after verifying every
// precondition. Re-inviting the same email to the same teamspace replaces
// the previous pending entry.
func (l *InvitationLogic) CreateInvitation(email, teamspace, job string, permissions types.TeamspacePermissions) (*InvitationView, error) {
	email = utils.LowerEmail(email)
	appid := l.GetUserInfo().Appid

	projectNames := permissions.ProjectNames()

	var (
		emailUser    *types.User
		teamspaceJob *types.Job
		projects     []types.Project
	)

	eg, ctx := errgroup.WithContext(l.ctx)
	eg.Go(func() error {
		var err error
		emailUser, err = l.store.UserStore().GetByEmail(ctx, appid, email)
		if err != nil && err != sql.ErrNoRows {
			return errors.New("InvitationLogic.CreateInvitation.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		teamspaceJob, err = l.store.JobStore().FindByJob(ctx, teamspace, job)
		if err != nil && err != sql.ErrNoRows {
			return errors.New("InvitationLogic.CreateInvitation.JobStore.FindByJob", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	eg.Go(func() error {
		if len(projectNames) == 0 {
			return nil
		}
		var err error
		projects, err = l.store.ProjectStore().FindByNames(ctx, teamspace, projectNames)
		if err != nil {
			return errors.New("InvitationLogic.CreateInvitation.ProjectStore.FindByNames", i18n.ERROR_INTERNAL, err)
		}
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if emailUser != nil {
		return nil, errors.New("InvitationLogic.CreateInvitation.EmailRegistered", i18n.ERROR_EMAIL_INVALID, nil).Code(http.StatusBadRequest)
	}

	if teamspaceJob == nil {
		return nil, errors.New("InvitationLogic.CreateInvitation.JobNotFound", i18n.ERROR_JOB_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	// every requested name must resolve, a single unknown project fails the
	// whole request instead of silently shrinking the grant
	if len(projects) != len(projectNames) {
		return nil, errors.New("InvitationLogic.CreateInvitation.UnknownProject", i18n.ERROR_INVALID_PROJECT_NAME, nil).Code(http.StatusBadRequest)
	}

	if !validateModelRoles(permissions.Projects) {
		return nil, errors.New("InvitationLogic.CreateInvitation.InvalidRole", i18n.ERROR_INVALID_MODEL_PERMISSION_ROLE, nil).Code(http.StatusBadRequest)
	}

	if !validateModelIDs(permissions.Projects, projects) {
		return nil, errors.New("InvitationLogic.CreateInvitation.UnknownModel", i18n.ERROR_INVALID_MODEL_ID, nil).Code(http.StatusBadRequest)
	}

	normalized := permissions.Normalize()

	now := time.Now().Unix()
	err := l.store.InvitationStore().Upsert(l.ctx, types.Invitation{
		InviteeEmail: email,
		Teamspace:    teamspace,
		Job:          job,
		Permissions:  normalized,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, errors.New("InvitationLogic.CreateInvitation.InvitationStore.Upsert", i18n.ERROR_INTERNAL, err)
	}

	// TODO: dispatch the invitation email through the notification hook

	return &InvitationView{
		Email:       email,
		Job:         job,
		Permissions: normalized,
	}, nil
}

// every requested role must be one of the four known roles, project admin
// entries carry no model list and pass vacuously
func validateModelRoles(grants []types.ProjectGrant) bool {
	for _, pr := range grants {
		for _, m := range pr.Models {
			if !types.IsValidModelRole(m.Role) {
				return false
			}
		}
	}
	return true
}

// every referenced model id must belong to its project's known model set
func validateModelIDs(grants []types.ProjectGrant, projects []types.Project) bool {
	byName := lo.SliceToMap(projects, func(p types.Project) (string, types.Project) {
		return p.Name, p
	})

	for _, pr := range grants {
		project, ok := byName[pr.Project]
		if !ok {
			return false
		}
		for _, m := range pr.Models {
			if !project.HasModel(m.Model) {
				return false
			}
		}
	}
	return true
}

// RemoveTeamspaceFromInvitation drops the pending entry for one teamspace.
// A missing invitation is a no-op, not an error.
func (l *InvitationLogic) RemoveTeamspaceFromInvitation(email, teamspace string) error {
	email = utils.LowerEmail(email)

	_, err := l.store.InvitationStore().Get(l.ctx, email, teamspace)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.New("InvitationLogic.RemoveTeamspaceFromInvitation.InvitationStore.Get", i18n.ERROR_INTERNAL, err)
	}

	if err = l.store.InvitationStore().Delete(l.ctx, email, teamspace); err != nil {
		return errors.New("InvitationLogic.RemoveTeamspaceFromInvitation.InvitationStore.Delete", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// SetJob changes the job on a pending invitation.
func (l *InvitationLogic) SetJob(email, teamspace, job string) error {
	email = utils.LowerEmail(email)

	if err := l.teamspaceInvitationCheck(email, teamspace); err != nil {
		return err
	}

	teamspaceJob, err := l.store.JobStore().FindByJob(l.ctx, teamspace, job)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("InvitationLogic.SetJob.JobStore.FindByJob", i18n.ERROR_INTERNAL, err)
	}
	if teamspaceJob == nil {
		return errors.New("InvitationLogic.SetJob.JobNotFound", i18n.ERROR_JOB_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	if err = l.store.InvitationStore().UpdateJob(l.ctx, email, teamspace, job); err != nil {
		return errors.New("InvitationLogic.SetJob.InvitationStore.UpdateJob", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// TeamspacePermissionView mirrors the original set-permission response.
type TeamspacePermissionView struct {
	User        string                     `json:"user"`
	Permissions types.TeamspacePermissions `json:"permissions"`
}

// SetTeamspacePermission replaces the pending permissions for one
// teamspace entry, scoped to the invitee's own record.
func (l *InvitationLogic) SetTeamspacePermission(email, teamspace string, permissions types.TeamspacePermissions) (*TeamspacePermissionView, error) {
	email = utils.LowerEmail(email)

	if err := l.teamspaceInvitationCheck(email, teamspace); err != nil {
		return nil, err
	}

	normalized := permissions.Normalize()
	if err := l.store.InvitationStore().UpdatePermissions(l.ctx, email, teamspace, normalized); err != nil {
		return nil, errors.New("InvitationLogic.SetTeamspacePermission.InvitationStore.UpdatePermissions", i18n.ERROR_INTERNAL, err)
	}

	return &TeamspacePermissionView{User: email, Permissions: normalized}, nil
}

func (l *InvitationLogic) teamspaceInvitationCheck(email, teamspace string) error {
	_, err := l.store.InvitationStore().Get(l.ctx, email, teamspace)
	if err == sql.ErrNoRows {
		return errors.New("InvitationLogic.teamspaceInvitationCheck.nil", i18n.ERROR_USER_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("InvitationLogic.teamspaceInvitationCheck.InvitationStore.Get", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// Unpack materializes every pending invitation for a freshly registered
// user: team membership with job, then project admin or per model grants,
// finally the invitation rows are consumed. Writes are sequential with no
// cross teamspace transaction, a failure mid-way leaves earlier grants in
// place and the remaining rows pending, safe to retry since every append
// dedupes by user.
func (l *InvitationLogic) Unpack(invitedUser *types.User) error {
	email := utils.LowerEmail(invitedUser.Email)

	invitations, err := l.store.InvitationStore().ListByEmail(l.ctx, email)
	if err != nil {
		return errors.New("InvitationLogic.Unpack.InvitationStore.ListByEmail", i18n.ERROR_INTERNAL, err)
	}
	if len(invitations) == 0 {
		return nil
	}

	for _, invitation := range invitations {
		if err = l.unpackEntry(invitedUser, invitation); err != nil {
			return err
		}
	}

	if err = l.store.InvitationStore().DeleteAllByEmail(l.ctx, email); err != nil {
		return errors.New("InvitationLogic.Unpack.InvitationStore.DeleteAllByEmail", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *InvitationLogic) unpackEntry(invitedUser *types.User, invitation types.Invitation) error {
	permissions := invitation.Permissions

	var teamPerms []string
	if permissions.TeamAdmin {
		teamPerms = []string{types.TEAMSPACE_ADMIN}
	}

	member, err := l.store.TeamspaceMemberStore().Get(l.ctx, invitation.Teamspace, invitedUser.ID)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("InvitationLogic.unpackEntry.TeamspaceMemberStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if member == nil {
		err = l.store.TeamspaceMemberStore().Create(l.ctx, types.TeamspaceMember{
			Teamspace:   invitation.Teamspace,
			UserID:      invitedUser.ID,
			Job:         invitation.Job,
			Permissions: teamPerms,
			CreatedAt:   time.Now().Unix(),
		})
		if err != nil {
			return errors.New("InvitationLogic.unpackEntry.TeamspaceMemberStore.Create", i18n.ERROR_INTERNAL, err)
		}
	}

	if permissions.TeamAdmin {
		return nil
	}

	for _, grant := range permissions.Projects {
		if grant.ProjectAdmin {
			if err = l.grantProjectAdmin(invitedUser.ID, invitation.Teamspace, grant.Project); err != nil {
				return err
			}
			continue
		}
		if err = l.grantModelRoles(invitedUser.ID, invitation.Teamspace, grant.Models); err != nil {
			return err
		}
	}
	return nil
}

func (l *InvitationLogic) grantProjectAdmin(userID, teamspace, projectName string) error {
	project, err := l.store.ProjectStore().FindByName(l.ctx, teamspace, projectName)
	if err != nil {
		return errors.New("InvitationLogic.grantProjectAdmin.ProjectStore.FindByName", i18n.ERROR_INTERNAL, err)
	}

	// dedupe by user so a retried unpack cannot double-grant
	perms := lo.Filter(project.Permissions, func(p types.ProjectPermission, _ int) bool {
		return p.User != userID
	})
	perms = append(perms, types.ProjectPermission{
		User:        userID,
		Permissions: []string{types.PROJECT_ADMIN},
	})

	if err = l.store.ProjectStore().UpdatePermissions(l.ctx, teamspace, projectName, perms); err != nil {
		return errors.New("InvitationLogic.grantProjectAdmin.ProjectStore.UpdatePermissions", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *InvitationLogic) grantModelRoles(userID, teamspace string, grants []types.ModelGrant) error {
	if len(grants) == 0 {
		return nil
	}

	modelIDs := lo.Map(grants, func(m types.ModelGrant, _ int) string {
		return m.Model
	})

	settings, err := l.store.ModelSettingStore().Find(l.ctx, types.ListModelSettingOptions{
		Teamspace: teamspace,
		IDs:       modelIDs,
	})
	if err != nil {
		return errors.New("InvitationLogic.grantModelRoles.ModelSettingStore.Find", i18n.ERROR_INTERNAL, err)
	}

	roleByModel := lo.SliceToMap(grants, func(m types.ModelGrant) (string, string) {
		return m.Model, m.Role
	})

	for _, setting := range settings {
		role, ok := roleByModel[setting.ID]
		if !ok {
			continue
		}

		// dedupe by user so a retried unpack cannot duplicate entries
		perms := lo.Filter(setting.Permissions, func(p types.ModelPermission, _ int) bool {
			return p.User != userID
		})
		perms = append(perms, types.ModelPermission{User: userID, Permission: role})

		if err = l.store.ModelSettingStore().ChangePermissions(l.ctx, teamspace, setting.ID, perms); err != nil {
			return errors.New("InvitationLogic.grantModelRoles.ModelSettingStore.ChangePermissions", i18n.ERROR_INTERNAL, err)
		}
	}
	return nil
}

// invitationLinkTTL bounds how long an emailed invitation link stays valid.
const invitationLinkTTL = time.Hour * 24 * 7

// SignInvitationLink issues the signed token embedded in the invitation
// email. Returns empty when no signing key is configured.
func (l *InvitationLogic) SignInvitationLink(email, teamspace string) (string, error) {
	cfg := l.core.Cfg().Security
	if cfg.PrivateKey == "" {
		return "", nil
	}

	claims := security.NewTokenClaims(l.GetUserInfo().Appid, types.DEFAULT_APPID, utils.LowerEmail(email), time.Now().Add(invitationLinkTTL).Unix())
	claims.Fields = map[string]string{"teamspace": teamspace}

	token, err := security.GenerateJWT(claims, []byte(cfg.PrivateKey))
	if err != nil {
		return "", errors.New("InvitationLogic.SignInvitationLink.GenerateJWT", i18n.ERROR_INTERNAL, err)
	}
	return token, nil
}

// VerifyInvitationLink resolves a signed invitation link back to the
// pending entry it references.
func (l *InvitationLogic) VerifyInvitationLink(token string) (*InvitationView, error) {
	claims, err := security.VerifyToken(token, []byte(l.core.Cfg().Security.PublicKey))
	if err != nil {
		return nil, errors.New("InvitationLogic.VerifyInvitationLink.VerifyToken", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized)
	}

	teamspace := claims.Field("teamspace")
	invitation, err := l.store.InvitationStore().Get(l.ctx, claims.User, teamspace)
	if err == sql.ErrNoRows {
		return nil, errors.New("InvitationLogic.VerifyInvitationLink.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return nil, errors.New("InvitationLogic.VerifyInvitationLink.InvitationStore.Get", i18n.ERROR_INTERNAL, err)
	}

	return &InvitationView{
		Email:       invitation.InviteeEmail,
		Job:         invitation.Job,
		Permissions: invitation.Permissions,
	}, nil
}

// GetInvitationsByTeamspace lists every pending invitation referencing the
// teamspace, reshaped to the teamspace scoped view.
func (l *InvitationLogic) GetInvitationsByTeamspace(teamspace string) ([]InvitationView, error) {
	invitations, err := l.store.InvitationStore().ListByTeamspace(l.ctx, teamspace)
	if err != nil {
		return nil, errors.New("InvitationLogic.GetInvitationsByTeamspace.InvitationStore.ListByTeamspace", i18n.ERROR_INTERNAL, err)
	}

	return lo.Map(invitations, func(v types.Invitation, _ int) InvitationView {
		return InvitationView{
			Email:       v.InviteeEmail,
			Job:         v.Job,
			Permissions: v.Permissions,
		}
	}), nil
}

// IsInvitation classifies a user identity as a pending invitee, which is
// keyed by email rather than a registered user name.
func IsInvitation(user string) bool {
	return utils.IsEmail(user)
}
