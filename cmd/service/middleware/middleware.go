package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/repo3d/repo3d/app/core"
	v1 "github.com/repo3d/repo3d/app/logic/v1"
	"github.com/repo3d/repo3d/app/response"
	"github.com/repo3d/repo3d/pkg/auth"
	"github.com/repo3d/repo3d/pkg/errors"
	"github.com/repo3d/repo3d/pkg/i18n"
	"github.com/repo3d/repo3d/pkg/security"
	"github.com/repo3d/repo3d/pkg/types"
	"github.com/repo3d/repo3d/pkg/utils"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

// AcceptLanguage resolves the client language, en or zh-CN.
func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := ctx.Request.Header.Get("Accept-Language")
		if lang == "" {
			ctx.Set(v1.LANGUAGE_KEY, types.LANGUAGE_EN_KEY)
			return
		}

		res := utils.ParseAcceptLanguage(lang)
		if len(res) == 0 {
			ctx.Set(v1.LANGUAGE_KEY, types.LANGUAGE_EN_KEY)
			return
		}

		ctx.Set(v1.LANGUAGE_KEY, lo.If(strings.Contains(res[0].Tag, "zh"), types.LANGUAGE_CN_KEY).Else(types.LANGUAGE_EN_KEY))
	}
}

const (
	AUTH_TOKEN_HEADER_KEY = "X-Authorization"
	APPID_HEADER          = "X-Appid"
)

func SetAppid(core *core.Core) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(v1.APPID_KEY, types.DEFAULT_APPID)
	}
}

func Authorization(core *core.Core) gin.HandlerFunc {
	tracePrefix := "middleware.Authorization"
	return func(ctx *gin.Context) {
		tokenValue := ctx.GetHeader(AUTH_TOKEN_HEADER_KEY)
		if tokenValue == "" {
			tokenValue = ctx.Query("token")
		}

		matched, err := ParseAuthToken(ctx, tokenValue, core)
		if err != nil {
			response.APIError(ctx, errors.Trace(tracePrefix, err))
			return
		}
		if !matched {
			response.APIError(ctx, errors.New(tracePrefix, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
		}
	}
}

// ParseAuthToken resolves the login token, cache first with a database
// fallback, and stashes the claims on the request.
func ParseAuthToken(c *gin.Context, tokenValue string, appCore *core.Core) (bool, error) {
	if tokenValue == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	tokenMeta, err := auth.ValidateTokenFromCache(ctx, tokenValue, appCore.Cache())
	if err != nil {
		appid, exist := v1.InjectAppid(c)
		if !exist {
			appid = types.DEFAULT_APPID
		}

		accessToken, dbErr := v1.NewAuthLogic(c, appCore).GetAccessTokenDetail(appid, tokenValue)
		if dbErr != nil {
			return false, errors.Trace("ParseAuthToken.GetAccessTokenDetail", dbErr)
		}

		claims, claimErr := accessToken.TokenClaims()
		if claimErr != nil {
			return false, errors.New("ParseAuthToken.TokenClaims", i18n.ERROR_UNAUTHORIZED, claimErr).Code(http.StatusUnauthorized)
		}

		c.Set(v1.TOKEN_CONTEXT_KEY, claims)
		c.Set("user", claims.User)
		return true, nil
	}

	c.Set(v1.TOKEN_CONTEXT_KEY, security.NewTokenClaims(tokenMeta.Appid, types.DEFAULT_APPID, tokenMeta.UserID, tokenMeta.ExpiresAt))
	c.Set("user", tokenMeta.UserID)

	appCore.Cache().Expire(ctx, auth.TokenCacheKey(tokenValue), time.Hour*24)

	return true, nil
}

// SetTeamspace lifts the :teamspace path param into the request context,
// membership and admin checks live in the logic layer.
func SetTeamspace() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		teamspace, _ := ctx.Params.Get("teamspace")
		if teamspace == "" {
			response.APIError(ctx, errors.New("middleware.SetTeamspace.nil", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
			return
		}
		ctx.Set(v1.TEAMSPACE_CONTEXT_KEY, teamspace)
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Authorization, X-Appid")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(genKeyFunc(c), opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}

// Observe records response time and error counts per route.
func Observe(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}
