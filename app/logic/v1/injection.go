package v1

import (
	"context"

	"github.com/samber/lo"

	"github.com/repo3d/repo3d/pkg/security"
	"github.com/repo3d/repo3d/pkg/types"
)

const (
	TOKEN_CONTEXT_KEY = "__repo3d.access_token"
	LANGUAGE_KEY      = "__repo3d.accept_language"
	APPID_KEY         = "__repo3d.appid"
)

func InjectAppid(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(APPID_KEY).(string)
	return val, ok
}

// InjectTokenClaim get user token claims from context
func InjectTokenClaim(ctx context.Context) (security.TokenClaims, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(security.TokenClaims)
	return val, ok
}

const TEAMSPACE_CONTEXT_KEY = "__repo3d.teamspace"

func InjectTeamspace(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(TEAMSPACE_CONTEXT_KEY).(string)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

func GetContentByClientLanguage[T any](c context.Context, enRes T, cnRes T) T {
	clientLang, _ := InjectLanguage(c)
	return lo.If(clientLang == types.LANGUAGE_EN_KEY, enRes).Else(cnRes)
}
