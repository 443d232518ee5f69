package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCounter_FailsOpen(t *testing.T) {
	counter := NewRedisCounter(unreachableRedis(t), "ebspulse:ratelimit:")
	counter.Config(10, time.Minute)

	now := time.Now().UTC().Truncate(time.Minute)
	require.NoError(t, counter.Increment("10.0.0.1", now))

	current, previous, err := counter.Get("10.0.0.1", now, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, current)
	assert.Zero(t, previous)
}

func TestRedisCounter_WindowKey(t *testing.T) {
	counter := NewRedisCounter(nil, "rl:")
	window := time.Unix(1700000040, 0)
	assert.Equal(t, "rl:10.0.0.1:1700000040", counter.windowKey("10.0.0.1", window))
}

func TestCounterValue(t *testing.T) {
	values := []any{"7", nil, "x"}
	assert.Equal(t, 7, counterValue(values, 0))
	assert.Equal(t, 0, counterValue(values, 1))
	assert.Equal(t, 0, counterValue(values, 2))
	assert.Equal(t, 0, counterValue(values, 5))
}

func TestRateLimitByIP_RedisUnavailableAllows(t *testing.T) {
	limiter := RateLimitByIP(1, time.Minute, NewRedisCounter(unreachableRedis(t), "rl:"))
	handler := limiter(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestRateLimitByIP_RedisSharedAcrossReplicas(t *testing.T) {
	store := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: store.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	replicaA := RateLimitByIP(2, time.Minute, NewRedisCounter(client, "rl:"))(ok)
	replicaB := RateLimitByIP(2, time.Minute, NewRedisCounter(client, "rl:"))(ok)

	call := func(h http.Handler) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
		req.RemoteAddr = "203.0.113.9:40000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, call(replicaA).Code)
	assert.Equal(t, http.StatusNoContent, call(replicaB).Code)

	rejected := call(replicaA)
	assert.Equal(t, http.StatusTooManyRequests, rejected.Code)
	assert.Contains(t, rejected.Body.String(), `"code":"RATE_LIMITED"`)

	keys, err := client.Keys(context.Background(), "rl:*").Result()
	require.NoError(t, err)
	require.NotEmpty(t, keys)
	total := 0
	for _, key := range keys {
		value, err := store.Get(key)
		require.NoError(t, err)
		total += counterValue([]any{value}, 0)
		assert.Positive(t, store.TTL(key))
	}
	assert.Equal(t, 2, total)
}

func TestRedisCounter_CountsWindows(t *testing.T) {
	store := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: store.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	counter := NewRedisCounter(client, "rl:")
	counter.Config(10, time.Minute)

	current := time.Unix(1700000040, 0)
	previous := current.Add(-time.Minute)
	require.NoError(t, counter.IncrementBy("10.0.0.1", previous, 4))
	require.NoError(t, counter.Increment("10.0.0.1", current))
	require.NoError(t, counter.Increment("10.0.0.1", current))

	curr, prev, err := counter.Get("10.0.0.1", current, previous)
	require.NoError(t, err)
	assert.Equal(t, 2, curr)
	assert.Equal(t, 4, prev)
}
