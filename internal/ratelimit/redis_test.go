package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_Allow(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	s := NewRedisStore(client)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	key := "test:" + uuid.NewString()
	limit := Limit{Rate: 1, Burst: 3}

	for i := 0; i < 3; i++ {
		ok, err := s.Allow(ctx, key, limit)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := s.Allow(ctx, key, limit)
	require.NoError(t, err)
	assert.False(t, ok)

	// The next window starts a fresh count.
	now = now.Add(limit.Window())
	ok, err = s.Allow(ctx, key, limit)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	assert.Error(t, err)
}
