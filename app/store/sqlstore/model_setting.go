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
		provider.stores.ModelSettingStore = NewModelSettingStore(provider)
	})
}

type ModelSettingStore struct {
	CommonFields
}

func NewModelSettingStore(provider SqlProviderAchieve) *ModelSettingStore {
	repo := &ModelSettingStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_MODEL_SETTING)
	repo.SetAllColumns("id", "teamspace", "name", "federate", "sub_models", "permissions", "updated_at", "created_at")
	return repo
}

func (s *ModelSettingStore) Create(ctx context.Context, data types.ModelSetting) error {
	query := sq.Insert(s.GetTable()).
		Columns("id", "teamspace", "name", "federate", "sub_models", "permissions", "updated_at", "created_at").
		Values(data.ID, data.Teamspace, data.Name, data.Federate, data.SubModels, data.Permissions, data.UpdatedAt, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ModelSettingStore) Get(ctx context.Context, teamspace, id string) (*types.ModelSetting, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.ModelSetting
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *ModelSettingStore) Find(ctx context.Context, opts types.ListModelSettingOptions) ([]types.ModelSetting, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())

	opts.Apply(&query)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.ModelSetting
	if err = s.GetReplica(ctx).Select(&res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// ChangePermissions replaces the model level permission holders wholesale.
func (s *ModelSettingStore) ChangePermissions(ctx context.Context, teamspace, id string, permissions types.ModelPermissionList) error {
	query := sq.Update(s.GetTable()).
		Set("permissions", permissions).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"teamspace": teamspace, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ModelSettingStore) Delete(ctx context.Context, teamspace, id string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"teamspace": teamspace, "id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}
