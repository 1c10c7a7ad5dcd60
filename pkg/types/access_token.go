package types

import (
	"errors"

	"github.com/repo3d/repo3d/pkg/security"
)

const (
	DEFAULT_ACCESS_TOKEN_VERSION = "v1"
)

type AccessToken struct {
	ID        int64  `json:"id" db:"id"`
	Appid     string `json:"appid" db:"appid"`
	UserID    string `json:"user_id" db:"user_id"`
	Token     string `json:"token" db:"token"`
	Version   string `json:"version" db:"version"` // claim layout version
	Info      string `json:"info" db:"info"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
	ExpiresAt int64  `json:"expires_at" db:"expires_at"`
}

func (s *AccessToken) TokenClaims() (security.TokenClaims, error) {
	if s.Version != "" && s.Version != DEFAULT_ACCESS_TOKEN_VERSION {
		return security.TokenClaims{}, errors.New("unknown access token version")
	}
	claim := security.NewTokenClaims(s.Appid, "repo3d", s.UserID, s.ExpiresAt)
	return claim, nil
}
