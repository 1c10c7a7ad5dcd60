package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/repo3d/repo3d/app/core"
	"github.com/repo3d/repo3d/pkg/auth"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/types"
)

type AuthLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAuthLogic(ctx context.Context, core *core.Core) *AuthLogic {
	return &AuthLogic{
		ctx:  ctx,
		core: core,
	}
}

// GetAccessTokenDetail resolves a token against the database, the slow
// path behind the cache, and refills the cache on a hit.
func (l *AuthLogic) GetAccessTokenDetail(appid, token string) (*types.AccessToken, error) {
	accessToken, err := l.core.Store().AccessTokenStore().GetAccessToken(l.ctx, appid, token)
	if err == sql.ErrNoRows {
		return nil, errors.New("AuthLogic.GetAccessTokenDetail.nil", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}
	if err != nil {
		return nil, errors.New("AuthLogic.GetAccessTokenDetail.AccessTokenStore.GetAccessToken", i18n.ERROR_INTERNAL, err)
	}

	if accessToken.ExpiresAt <= time.Now().Unix() {
		return nil, errors.New("AuthLogic.GetAccessTokenDetail.expired", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}

	meta := types.UserTokenMeta{
		Appid:     accessToken.Appid,
		UserID:    accessToken.UserID,
		ExpiresAt: accessToken.ExpiresAt,
	}
	if err = auth.CacheToken(l.ctx, token, meta, l.core.Cache()); err != nil {
		slog.Error("failed to refill token cache", slog.String("error", err.Error()))
	}

	return accessToken, nil
}
