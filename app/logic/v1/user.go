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
	"github.com/repo3d/repo3d/pkg/utils"
)

// UserLogic covers the unauthenticated account surface, register and login.
type UserLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	return &UserLogic{
		ctx:  ctx,
		core: core,
	}
}

const ACCESS_TOKEN_TTL = time.Hour * 24 * 7

// Register creates the account and immediately unpacks any pending
// invitations addressed to the email.
func (l *UserLogic) Register(appid, userName, email, password string) (*types.User, error) {
	if !utils.IsEmail(email) {
		return nil, errors.New("UserLogic.Register.IsEmail", i18n.ERROR_EMAIL_INVALID, nil).Code(http.StatusBadRequest)
	}
	email = utils.LowerEmail(email)

	exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, appid, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.Register.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return nil, errors.New("UserLogic.Register.exist", i18n.ERROR_EMAIL_ALREADY_REGISTED, nil).Code(http.StatusBadRequest)
	}

	salt := utils.RandomStr(10)
	user := types.User{
		ID:        utils.GenUniqIDStr(),
		Appid:     appid,
		Name:      userName,
		Email:     email,
		Salt:      salt,
		Password:  utils.GenUserPassword(salt, password),
		Source:    "register",
		UpdatedAt: time.Now().Unix(),
		CreatedAt: time.Now().Unix(),
	}

	if err = l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		return nil, errors.New("UserLogic.Register.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}

	// pending invitations are consumed now, a failure leaves them pending
	// and the unpack is retried out of band, registration still succeeds
	if err = NewInvitationLogic(l.ctx, l.core).Unpack(&user); err != nil {
		slog.Error("failed to unpack invitations for new user",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()))
	}

	return &user, nil
}

type LoginResult struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Login verifies the credentials and issues a fresh access token.
func (l *UserLogic) Login(appid, email, password string) (*LoginResult, error) {
	email = utils.LowerEmail(email)

	user, err := l.core.Store().UserStore().GetByEmail(l.ctx, appid, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.Login.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if user == nil || user.Password != utils.GenUserPassword(user.Salt, password) {
		return nil, errors.New("UserLogic.Login.password", i18n.ERROR_LOGIN_ACCOUNT_INCORRECT, nil).Code(http.StatusForbidden)
	}

	token := utils.MD5(user.ID + utils.GenRandomID())
	expiresAt := time.Now().Add(ACCESS_TOKEN_TTL).Unix()

	err = l.core.Store().AccessTokenStore().Create(l.ctx, types.AccessToken{
		Appid:     appid,
		UserID:    user.ID,
		Token:     token,
		Version:   types.DEFAULT_ACCESS_TOKEN_VERSION,
		Info:      "login",
		CreatedAt: time.Now().Unix(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, errors.New("UserLogic.Login.AccessTokenStore.Create", i18n.ERROR_INTERNAL, err)
	}

	meta := types.UserTokenMeta{
		Appid:     appid,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err = auth.CacheToken(l.ctx, token, meta, l.core.Cache()); err != nil {
		// the authorization middleware falls back to the database
		slog.Error("failed to cache access token", slog.String("error", err.Error()))
	}

	return &LoginResult{
		UserID:      user.ID,
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

// AuthedUserLogic covers the account surface behind authorization.
type AuthedUserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewAuthedUserLogic(ctx context.Context, core *core.Core) *AuthedUserLogic {
	return &AuthedUserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: SetupUserInfo(ctx, core),
	}
}

func (l *AuthedUserLogic) GetUserProfile() (*types.User, error) {
	claims := l.GetUserInfo()

	user, err := l.core.Store().UserStore().GetUser(l.ctx, claims.Appid, claims.User)
	if err == sql.ErrNoRows {
		return nil, errors.New("AuthedUserLogic.GetUserProfile.nil", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if err != nil {
		return nil, errors.New("AuthedUserLogic.GetUserProfile.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	return user, nil
}

func (l *AuthedUserLogic) UpdateUserProfile(userName, email, avatar string) error {
	claims := l.GetUserInfo()

	if email != "" {
		if !utils.IsEmail(email) {
			return errors.New("AuthedUserLogic.UpdateUserProfile.IsEmail", i18n.ERROR_EMAIL_INVALID, nil).Code(http.StatusBadRequest)
		}
		email = utils.LowerEmail(email)
	}

	err := l.core.Store().UserStore().UpdateUserProfile(l.ctx, claims.Appid, claims.User, userName, email, avatar)
	if err != nil {
		return errors.New("AuthedUserLogic.UpdateUserProfile.UserStore.UpdateUserProfile", i18n.ERROR_INTERNAL, err)
	}
	return nil
}
