package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/repo3d/repo3d/pkg/register"
	"github.com/repo3d/repo3d/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.TeamspaceStore = NewTeamspaceStore(provider)
	})
}

type TeamspaceStore struct {
	CommonFields
}

func NewTeamspaceStore(provider SqlProviderAchieve) *TeamspaceStore {
	repo := &TeamspaceStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_TEAMSPACE)
	repo.SetAllColumns("name", "owner", "created_at")
	return repo
}

func (s *TeamspaceStore) Create(ctx context.Context, data types.Teamspace) error {
	query := sq.Insert(s.GetTable()).
		Columns("name", "owner", "created_at").
		Values(data.Name, data.Owner, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TeamspaceStore) Get(ctx context.Context, name string) (*types.Teamspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Teamspace
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *TeamspaceStore) Delete(ctx context.Context, name string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TeamspaceStore) List(ctx context.Context, names []string, page, pageSize uint64) ([]types.Teamspace, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("created_at DESC")
	if len(names) > 0 {
		query = query.Where(sq.Eq{"name": names})
	}
	if page != 0 || pageSize != 0 {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Teamspace
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
