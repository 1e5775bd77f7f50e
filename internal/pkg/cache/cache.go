package cache

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/premiumgate/premiumgate/internal/pkg/config"
)

// DB indexes on the shared redis server.
const (
	CacheDB   = 0
	SessionDB = 1
)

// NewClient connects to the configured redis server. It returns nil when no
// cache host is configured. A failed ping is logged, not fatal.
func NewClient(ctx context.Context, cfg config.CacheConfig, l *log.Logger) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       CacheDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := client.Ping(pingCtx).Result()
	if err != nil {
		l.Warn("could not connect to cache", "addr", cfg.Addr(), "err", err)
	} else {
		l.Info("connected to cache", "addr", cfg.Addr(), "reply", pong)
	}
	return client
}

// Ping checks the connection. A nil client is healthy.
func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}
