package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const requestIDKeyPrefix = "stock-service:request:"

// RedisRequestIDStore implements RequestIDStore using Redis so replays survive
// restarts and are shared between instances.
type RedisRequestIDStore struct {
	client *redis.Client
	logger *zap.Logger
}

// RedisOptions holds the connection settings for NewRedisRequestIDStore
type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedisRequestIDStore connects to Redis and verifies the connection with a ping
func NewRedisRequestIDStore(opts RedisOptions, logger *zap.Logger) (*RedisRequestIDStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
		// Connection pool settings
		PoolSize:     10,
		MinIdleConns: 2,
		// Timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		// Retry settings
		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis request ID store initialized",
		zap.String("host", opts.Host),
		zap.String("port", opts.Port),
		zap.Int("db", opts.DB),
	)

	return &RedisRequestIDStore{client: rdb, logger: logger}, nil
}

func (s *RedisRequestIDStore) Store(ctx context.Context, requestID string, response []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, requestIDKeyPrefix+requestID, response, ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}
	return nil
}

func (s *RedisRequestIDStore) Get(ctx context.Context, requestID string) ([]byte, error) {
	val, err := s.client.Get(ctx, requestIDKeyPrefix+requestID).Bytes()
	if err == redis.Nil {
		return nil, ErrRequestIDNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}
	return val, nil
}

func (s *RedisRequestIDStore) Exists(ctx context.Context, requestID string) (bool, error) {
	count, err := s.client.Exists(ctx, requestIDKeyPrefix+requestID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return count > 0, nil
}

// Close closes the Redis client
func (s *RedisRequestIDStore) Close() error {
	return s.client.Close()
}
