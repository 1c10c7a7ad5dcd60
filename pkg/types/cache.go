package types

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetEx(ctx context.Context, key, value string, expiresAt time.Duration) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// UserTokenMeta is the cached identity behind a login token.
type UserTokenMeta struct {
	Appid     string `json:"appid"`
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"`
}
