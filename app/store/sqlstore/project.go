package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/repo3d/repo3d/pkg/register"
	"github.com/repo3d/repo3d/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ProjectStore = NewProjectStore(provider)
	})
}

type ProjectStore struct {
	CommonFields
}

func NewProjectStore(provider SqlProviderAchieve) *ProjectStore {
	repo := &ProjectStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_PROJECT)
	repo.SetAllColumns("id", "teamspace", "name", "models", "permissions", "created_at")
	return repo
}

func (s *ProjectStore) Create(ctx context.Context, data types.Project) error {
	query := sq.Insert(s.GetTable()).
		Columns("teamspace", "name", "models", "permissions", "created_at").
		Values(data.Teamspace, data.Name, data.Models, data.Permissions, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ProjectStore) FindByName(ctx context.Context, teamspace, name string) (*types.Project, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Project
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// FindByNames returns the matched projects only, callers compare counts to
// detect unknown names.
func (s *ProjectStore) FindByNames(ctx context.Context, teamspace string, names []string) ([]types.Project, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "name": names})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Project
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *ProjectStore) UpdatePermissions(ctx context.Context, teamspace, name string, permissions types.ProjectPermissionList) error {
	query := sq.Update(s.GetTable()).
		Set("permissions", permissions).
		Where(sq.Eq{"teamspace": teamspace, "name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ProjectStore) Delete(ctx context.Context, teamspace, name string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ProjectStore) List(ctx context.Context, opts types.ListProjectOptions, page, pageSize uint64) ([]types.Project, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("id ASC")
	if page != 0 || pageSize != 0 {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Project
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
