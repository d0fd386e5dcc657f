package cache

import (
	"go.uber.org/zap"

	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
	"github.com/babel-30/sugarplum-backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the checkout idempotency store: Redis when a
// host is configured and reachable, otherwise the in-memory store. Redis
// being down must not keep the shop from taking orders, so failure to
// connect degrades with a warning instead of erroring out.
func NewIdempotencyStore(cfg config.RedisConfig, logger *zap.Logger) shared.IdempotencyStore {
	if cfg.Host == "" {
		logger.Info("Redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return NewInMemoryIdempotencyStore()
	}

	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store
}
