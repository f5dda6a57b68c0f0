package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/onboarding/internal/config"
	"github.com/aretw0/onboarding/pkg/adapters/file"
	"github.com/aretw0/onboarding/pkg/adapters/memory"
	"github.com/aretw0/onboarding/pkg/adapters/redis"
	"github.com/aretw0/onboarding/pkg/persistence/middleware"
	"github.com/aretw0/onboarding/pkg/ports"
	"github.com/aretw0/onboarding/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// Backend names reported by Persistence.Kind.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Persistence bundles the store selected by the configuration with the
// session manager serializing access to it.
type Persistence struct {
	Kind     string
	Store    ports.StateStore
	Sessions *session.Manager

	closeFn func() error
}

// Close releases the backend connection, if any.
func (p *Persistence) Close() error {
	if p.closeFn == nil {
		return nil
	}
	return p.closeFn()
}

// OpenPersistence selects the session backend: Redis when an address is
// configured (with a distributed lock, so replicas serialize submissions),
// otherwise one JSON file per session under cfg.SessionsDir. States are
// encrypted at rest when an encryption key is configured.
func OpenPersistence(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Persistence, error) {
	var mws []middleware.Middleware
	if cfg.Encryption.Enabled() {
		active, fallback, err := cfg.Encryption.Keys()
		if err != nil {
			return nil, fmt.Errorf("invalid encryption config: %w", err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}

	if !cfg.Redis.Enabled() {
		store := middleware.Chain(file.New(cfg.SessionsDir), mws...)
		return &Persistence{
			Kind:     BackendFile,
			Store:    store,
			Sessions: session.NewManager(store, session.WithLogger(logger)),
		}, nil
	}

	client := backend.NewClient(&backend.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = redis.DefaultPrefix
	}
	store := middleware.Chain(redis.NewFromClient(client, redis.WithPrefix(prefix), redis.WithTTL(cfg.Redis.TTL.Std())), mws...)
	opts := []session.Option{
		session.WithLogger(logger),
		session.WithLocker(redis.NewLocker(client, prefix+"lock:")),
	}
	if ttl := cfg.Redis.LockTTL.Std(); ttl > 0 {
		opts = append(opts, session.WithLockTTL(ttl))
	}
	logger.Debug("using redis session store", "addr", cfg.Redis.Addr, "prefix", prefix)

	return &Persistence{
		Kind:     BackendRedis,
		Store:    store,
		Sessions: session.NewManager(store, opts...),
		closeFn:  client.Close,
	}, nil
}

// Ephemeral keeps sessions in memory for the lifetime of the process.
func Ephemeral(logger *slog.Logger) *Persistence {
	store := memory.NewStore()
	return &Persistence{
		Kind:     BackendMemory,
		Store:    store,
		Sessions: session.NewManager(store, session.WithLogger(logger)),
	}
}
