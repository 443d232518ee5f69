package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
	"github.com/ebspulse/ebspulse/core/infrastructure/transport/http/dto"
)

const redisCounterTimeout = 250 * time.Millisecond

// RateLimitByIP limits each client address to limit requests per window.
// With a nil counter the windows are kept in process memory.
// Rejections use the standard error envelope with status 429.
func RateLimitByIP(limit int, window time.Duration, counter httprate.LimitCounter) func(http.Handler) http.Handler {
	opts := []httprate.Option{
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			body, _ := json.Marshal(dto.ErrorResponse{
				Success: false,
				Error:   "rate limit exceeded",
				Code:    "RATE_LIMITED",
				Results: []any{},
			})
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write(body)
		}),
	}
	if counter != nil {
		opts = append(opts, httprate.WithLimitCounter(counter))
	}
	return httprate.Limit(limit, window, opts...)
}

// RedisCounter stores the sliding windows in Redis so every replica shares one budget.
// Redis failures are logged and the request is let through.
type RedisCounter struct {
	client       *redis.Client
	prefix       string
	windowLength time.Duration
}

// NewRedisCounter creates a counter storing keys under prefix
func NewRedisCounter(client *redis.Client, prefix string) *RedisCounter {
	return &RedisCounter{client: client, prefix: prefix, windowLength: time.Minute}
}

var _ httprate.LimitCounter = (*RedisCounter)(nil)

// Config receives the limit settings from httprate
func (c *RedisCounter) Config(_ int, windowLength time.Duration) {
	c.windowLength = windowLength
}

// Increment counts one request in the current window
func (c *RedisCounter) Increment(key string, currentWindow time.Time) error {
	return c.IncrementBy(key, currentWindow, 1)
}

// IncrementBy counts amount requests in the current window
func (c *RedisCounter) IncrementBy(key string, currentWindow time.Time, amount int) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisCounterTimeout)
	defer cancel()

	windowKey := c.windowKey(key, currentWindow)
	pipe := c.client.TxPipeline()
	pipe.IncrBy(ctx, windowKey, int64(amount))
	pipe.Expire(ctx, windowKey, 3*c.windowLength)
	if _, err := pipe.Exec(ctx); err != nil {
		logging.New("ratelimit").Warnf("Redis increment failed, allowing request: %v", err)
	}
	return nil
}

// Get returns the counts of the current and previous windows
func (c *RedisCounter) Get(key string, currentWindow, previousWindow time.Time) (int, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisCounterTimeout)
	defer cancel()

	values, err := c.client.MGet(ctx, c.windowKey(key, currentWindow), c.windowKey(key, previousWindow)).Result()
	if err != nil {
		logging.New("ratelimit").Warnf("Redis lookup failed, allowing request: %v", err)
		return 0, 0, nil
	}
	return counterValue(values, 0), counterValue(values, 1), nil
}

func (c *RedisCounter) windowKey(key string, window time.Time) string {
	return c.prefix + key + ":" + strconv.FormatInt(window.Unix(), 10)
}

func counterValue(values []any, i int) int {
	if i >= len(values) {
		return 0
	}
	s, ok := values[i].(string)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
