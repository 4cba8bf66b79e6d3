package utils

import (
	"context"
	"testing"
	"time"
)

func TestAllowFixedWindow_RejectsInvalidArgs(t *testing.T) {
	ctx := context.Background()

	if _, err := AllowFixedWindow(ctx, nil, "k", 5, time.Minute); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestFixedWindowScriptCompiles(t *testing.T) {
	if fixedWindowScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestRedisConfigDefaults(t *testing.T) {
	c := RedisConfig{Addr: "localhost:6379"}.withDefaults()
	if c.PoolSize != 20 {
		t.Fatalf("expected pool size default, got %d", c.PoolSize)
	}
	if c.DialTimeout != 3*time.Second {
		t.Fatalf("expected dial timeout default, got %v", c.DialTimeout)
	}
}
