package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/repo3d/repo3d/pkg/register"
	"github.com/repo3d/repo3d/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.TeamspaceMemberStore = NewTeamspaceMemberStore(provider)
	})
}

type TeamspaceMemberStore struct {
	CommonFields
}

func NewTeamspaceMemberStore(provider SqlProviderAchieve) *TeamspaceMemberStore {
	repo := &TeamspaceMemberStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_TEAMSPACE_MEMBER)
	repo.SetAllColumns("id", "teamspace", "user_id", "job", "permissions", "created_at")
	return repo
}

func (s *TeamspaceMemberStore) Create(ctx context.Context, data types.TeamspaceMember) error {
	query := sq.Insert(s.GetTable()).
		Columns("teamspace", "user_id", "job", "permissions", "created_at").
		Values(data.Teamspace, data.UserID, data.Job, data.Permissions, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TeamspaceMemberStore) Get(ctx context.Context, teamspace, userID string) (*types.TeamspaceMember, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.TeamspaceMember
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *TeamspaceMemberStore) UpdateJob(ctx context.Context, teamspace, userID, job string) error {
	query := sq.Update(s.GetTable()).
		Set("job", job).
		Where(sq.Eq{"teamspace": teamspace, "user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TeamspaceMemberStore) Delete(ctx context.Context, teamspace, userID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// List prefixes columns with the member table name, the keyword filter joins
// the user table and both carry id/created_at columns.
func (s *TeamspaceMemberStore) List(ctx context.Context, opts types.ListTeamspaceMemberOptions, page, pageSize uint64) ([]types.TeamspaceMember, error) {
	query := sq.Select(s.GetAllColumnsWithPrefix(s.GetTable())...).From(s.GetTable())
	if page != 0 || pageSize != 0 {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.TeamspaceMember
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *TeamspaceMemberStore) Total(ctx context.Context, opts types.ListTeamspaceMemberOptions) (int64, error) {
	query := sq.Select("COUNT(*)").From(s.GetTable())

	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	var res int64
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return 0, err
	}
	return res, nil
}
