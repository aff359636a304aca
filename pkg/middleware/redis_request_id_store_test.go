package middleware

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getRedisStore(t *testing.T) *RedisRequestIDStore {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	store, err := NewRedisRequestIDStore(RedisOptions{Host: host, Port: "6379"}, zap.NewNop())
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return store
}

func TestRedisRequestIDStore_RoundTrip(t *testing.T) {
	store := getRedisStore(t)
	defer store.Close()

	ctx := context.Background()
	requestID := uuid.New().String()

	exists, err := store.Exists(ctx, requestID)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Get(ctx, requestID)
	assert.Equal(t, ErrRequestIDNotFound, err)

	require.NoError(t, store.Store(ctx, requestID, []byte(`{"id":"1"}`), time.Minute))

	exists, err = store.Exists(ctx, requestID)
	require.NoError(t, err)
	assert.True(t, exists)

	body, err := store.Get(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(body))
}
