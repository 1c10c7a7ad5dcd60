package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/repo3d/repo3d/pkg/register"
	"github.com/repo3d/repo3d/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.InvitationStore = NewInvitationStore(provider)
	})
}

type InvitationStore struct {
	CommonFields
}

func NewInvitationStore(provider SqlProviderAchieve) *InvitationStore {
	repo := &InvitationStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_INVITATION)
	repo.SetAllColumns("id", "invitee_email", "teamspace", "job", "permissions", "created_at", "updated_at")
	return repo
}

// Upsert keeps at most one invitation per (invitee_email, teamspace) pair,
// re-inviting replaces the pending job and permissions.
func (s *InvitationStore) Upsert(ctx context.Context, data types.Invitation) error {
	query := sq.Insert(s.GetTable()).
		Columns("invitee_email", "teamspace", "job", "permissions", "created_at", "updated_at").
		Values(data.InviteeEmail, data.Teamspace, data.Job, data.Permissions, data.CreatedAt, data.UpdatedAt).
		Suffix("ON CONFLICT (invitee_email, teamspace) DO UPDATE SET job = EXCLUDED.job, permissions = EXCLUDED.permissions, updated_at = EXCLUDED.updated_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *InvitationStore) Get(ctx context.Context, email, teamspace string) (*types.Invitation, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"invitee_email": email, "teamspace": teamspace})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Invitation
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *InvitationStore) ListByEmail(ctx context.Context, email string) ([]types.Invitation, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"invitee_email": email}).OrderBy("id ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Invitation
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *InvitationStore) ListByTeamspace(ctx context.Context, teamspace string) ([]types.Invitation, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace}).OrderBy("id ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Invitation
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *InvitationStore) UpdateJob(ctx context.Context, email, teamspace, job string) error {
	query := sq.Update(s.GetTable()).
		Set("job", job).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"invitee_email": email, "teamspace": teamspace})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *InvitationStore) UpdatePermissions(ctx context.Context, email, teamspace string, permissions types.TeamspacePermissions) error {
	query := sq.Update(s.GetTable()).
		Set("permissions", permissions).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"invitee_email": email, "teamspace": teamspace})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *InvitationStore) Delete(ctx context.Context, email, teamspace string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"invitee_email": email, "teamspace": teamspace})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// DeleteAllByEmail clears every pending invitation once the invitee signs up.
func (s *InvitationStore) DeleteAllByEmail(ctx context.Context, email string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"invitee_email": email})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
