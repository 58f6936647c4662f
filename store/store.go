package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"crypto-chatbot/api/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when the Redis connection URL is absent.
// Persistence is a hard requirement for the store endpoints, so callers
// treat this as fatal for store operations; chat and market data keep
// working without it.
var ErrNotConfigured = errors.New("missing REDIS_URL environment variable")

// KV is the minimal string-keyed contract the store needs from Redis.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

type redisKV struct {
	rdb *redis.Client
}

// NewRedisKV connects to the Redis instance named by REDIS_URL.
func NewRedisKV(redisURL string) (KV, error) {
	if redisURL == "" {
		redisURL = os.Getenv("REDIS_URL")
	}
	if redisURL == "" {
		return nil, ErrNotConfigured
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing REDIS_URL: %v", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Get().Error("failed to connect to Redis",
			zap.String("addr", opts.Addr),
			zap.Error(err))
		return nil, fmt.Errorf("error connecting to Redis: %v", err)
	}

	logger.Get().Info("successfully connected to Redis",
		zap.String("addr", opts.Addr))
	return &redisKV{rdb: rdb}, nil
}

func (r *redisKV) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisKV) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *redisKV) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *redisKV) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return r.rdb.Expire(ctx, key, ttl).Err()
}

// Store persists conversation lists and session histories on top of a KV.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}
