package v1

import (
	"context"
	"database/sql"
	"net/http"
	"sync"

	"github.com/samber/lo"

	"github.com/repo3d/repo3d/app/core"
	"github.com/repo3d/repo3d/app/core/srv"
	"github.com/repo3d/repo3d/app/store"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/modeltree"
	"github.com/repo3d/repo3d/pkg/types"
)

// asyncNodeThreshold is the tree size above which processing moves to the
// shared worker, small trees are cheaper inline than through the channel
// round trip.
const asyncNodeThreshold = 2000

var (
	treeProcessor     *modeltree.Processor
	treeProcessorOnce sync.Once
)

func sharedTreeProcessor() *modeltree.Processor {
	treeProcessorOnce.Do(func() {
		treeProcessor = modeltree.NewProcessor()
	})
	return treeProcessor
}

type TreeLogic struct {
	UserInfo
	ctx   context.Context
	core  *core.Core
	store store.Store
	rbac  *srv.RBACSrv
}

func NewTreeLogic(ctx context.Context, core *core.Core) *TreeLogic {
	return &TreeLogic{
		ctx:      ctx,
		core:     core,
		store:    core.Store(),
		rbac:     core.Srv().RBAC(),
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// checkModelAccess verifies the caller may view the model the tree belongs
// to. The teamspace owner always passes, everyone else needs a model role
// that grants view.
func (l *TreeLogic) checkModelAccess(root *modeltree.Node) error {
	claims := l.GetUserInfo()

	modelID := root.Model
	if modelID == "" {
		modelID = root.Project
	}

	ts, err := l.store.TeamspaceStore().Get(l.ctx, root.Teamspace)
	if err == sql.ErrNoRows {
		return errors.New("TreeLogic.checkModelAccess.TeamspaceStore.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("TreeLogic.checkModelAccess.TeamspaceStore.Get", i18n.ERROR_INTERNAL, err)
	}

	setting, err := l.store.ModelSettingStore().Get(l.ctx, root.Teamspace, modelID)
	if err == sql.ErrNoRows {
		return errors.New("TreeLogic.checkModelAccess.ModelSettingStore.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("TreeLogic.checkModelAccess.ModelSettingStore.Get", i18n.ERROR_INTERNAL, err)
	}

	grant, ok := lo.Find(setting.Permissions, func(p types.ModelPermission) bool {
		return p.User == claims.User
	})
	if !ok {
		grant = types.ModelPermission{User: claims.User}
	}
	if cerr := l.rbac.Check(grant, ts.Owner, srv.PermissionView); cerr != nil {
		return cerr
	}
	return nil
}

// Process flattens a model tree into the row list and auxiliary maps.
// Small trees run inline; larger ones go through the shared worker behind
// a distributed permit so one instance cannot be saturated by tree jobs.
func (l *TreeLogic) Process(input modeltree.ProcessInput) (*modeltree.ProcessResult, error) {
	if err := l.checkModelAccess(input.MainTree); err != nil {
		return nil, err
	}

	nodeCount := input.NodeCount()

	if nodeCount <= asyncNodeThreshold {
		timer := l.core.Metrics().TreeProcessTimer("sync")
		result := modeltree.Process(input)
		timer.ObserveDuration()
		l.core.Metrics().TreeNodesAdd("sync", nodeCount)
		return &result, nil
	}

	semaphore := l.core.Semaphores().TreeProcess()
	if !semaphore.TryAcquire() {
		return nil, errors.New("TreeLogic.Process.TryAcquire", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests)
	}
	defer semaphore.Release()

	timer := l.core.Metrics().TreeProcessTimer("async")
	result, err := sharedTreeProcessor().ProcessAsync(l.ctx, input)
	timer.ObserveDuration()
	if err != nil {
		return nil, errors.New("TreeLogic.Process.ProcessAsync", i18n.ERROR_INTERNAL, err)
	}
	l.core.Metrics().TreeNodesAdd("async", nodeCount)

	return &result, nil
}
