package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/devops-automation/internal/config"
	"github.com/spec-kit/devops-automation/internal/domain"
)

const (
	batchLockKey    = "devops-automation:batch-lock"
	batchLockTTL    = 10 * time.Minute
	lastBatchKey    = "devops-automation:last-batch"
	lastBatchExpiry = 24 * time.Hour
)

// Redis wraps the optional go-redis client used for the cross-replica batch
// lock and the last-batch-result cache. All methods are nil-safe; an
// unconfigured Redis disables both features.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis connects to Redis when an address is configured.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if cfg.Addr == "" {
		logger.Info("REDIS_ADDR not provided; distributed batch lock disabled")
		return &Redis{logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, logger: logger}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Enabled reports whether Redis is configured.
func (r *Redis) Enabled() bool {
	return r != nil && r.Client != nil
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if !r.Enabled() {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// AcquireBatchLock takes the cross-replica single-flight lock. Returns false
// when another replica holds it.
func (r *Redis) AcquireBatchLock(ctx context.Context) (bool, error) {
	if !r.Enabled() {
		return true, nil
	}
	return r.Client.SetNX(ctx, batchLockKey, time.Now().Format(time.RFC3339), batchLockTTL).Result()
}

// ReleaseBatchLock releases the cross-replica lock.
func (r *Redis) ReleaseBatchLock(ctx context.Context) {
	if !r.Enabled() {
		return
	}
	if err := r.Client.Del(ctx, batchLockKey).Err(); err != nil {
		r.logger.Warn("failed to release batch lock", zap.Error(err))
	}
}

// CacheLastBatch stores the most recent batch result for ops inspection.
func (r *Redis) CacheLastBatch(ctx context.Context, result domain.BatchResult) {
	if !r.Enabled() {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := r.Client.Set(ctx, lastBatchKey, payload, lastBatchExpiry).Err(); err != nil {
		r.logger.Warn("failed to cache batch result", zap.Error(err))
	}
}
