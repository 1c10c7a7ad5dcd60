package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/repo3d/repo3d/pkg/register"
	"github.com/repo3d/repo3d/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.JobStore = NewJobStore(provider)
	})
}

type JobStore struct {
	CommonFields
}

func NewJobStore(provider SqlProviderAchieve) *JobStore {
	repo := &JobStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_JOB)
	repo.SetAllColumns("id", "teamspace", "name", "color", "created_at")
	return repo
}

func (s *JobStore) Create(ctx context.Context, data types.Job) error {
	query := sq.Insert(s.GetTable()).
		Columns("teamspace", "name", "color", "created_at").
		Values(data.Teamspace, data.Name, data.Color, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// FindByJob looks a job up by its teamspace scoped name.
func (s *JobStore) FindByJob(ctx context.Context, teamspace, name string) (*types.Job, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.Job
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *JobStore) Delete(ctx context.Context, teamspace, name string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "name": name})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *JobStore) List(ctx context.Context, opts types.ListJobOptions, page, pageSize uint64) ([]types.Job, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).OrderBy("id ASC")
	if page != 0 || pageSize != 0 {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.Job
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}
