// ABOUTME: Builds the configured credential store
// ABOUTME: Chooses between file, redis and memory backends from config

package credstore

import (
	"context"
	"fmt"
	"time"

	"github.com/markalston/campus-admin/internal/config"
)

// Open returns a Store for cfg.CredentialStore and a close function for
// any connection it opened.
func Open(ctx context.Context, cfg *config.Config) (*Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.CredentialStore {
	case config.StoreMemory:
		return New(NewMemoryBackend()), noop, nil
	case config.StoreRedis:
		client := NewRedisClient(RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		backend := NewRedisBackend(client, cfg.Redis.Prefix)

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := backend.Health(pingCtx); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("cannot reach redis credential store at %s: %w", cfg.Redis.Addr, err)
		}
		return New(backend), client.Close, nil
	default:
		return New(NewFileBackend(cfg.ConfigDir)), noop, nil
	}
}
