package auth

import (
	"context"
	"strings"
	"time"

	"granjas-api/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter throttles failed login attempts per email using a Redis
// fixed window. Successful logins reset the counter.
type LoginLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

func NewLoginLimiter(rdb *redis.Client, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{rdb: rdb, limit: limit, window: window}
}

func loginKey(email string) string {
	return "login_attempts:" + strings.ToLower(strings.TrimSpace(email))
}

// Allow records an attempt for email and reports whether it may proceed.
// A Redis outage fails open: login availability wins over throttling.
func (l *LoginLimiter) Allow(ctx context.Context, email string) bool {
	if l == nil || l.rdb == nil {
		return true
	}
	ok, err := utils.AllowFixedWindow(ctx, l.rdb, loginKey(email), l.limit, l.window)
	if err != nil {
		return true
	}
	return ok
}

// Reset clears the attempt counter for email.
func (l *LoginLimiter) Reset(ctx context.Context, email string) {
	if l == nil || l.rdb == nil {
		return
	}
	_ = utils.ResetFixedWindow(ctx, l.rdb, loginKey(email))
}
