package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client but fails safe: connectivity errors behave like
// cache misses. A nil *Client is a valid, always-missing cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables caching and
// returns nil.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Enabled reports whether a backing Redis is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Ping checks connectivity; used only to log a warning at startup.
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and transport errors alike read as a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes keys, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	_ = c.client.Del(ctx, keys...).Err()
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

// GetJSON decodes a cached value into dst. It reports false on a miss or
// when the cached payload no longer decodes.
func GetJSON[T any](ctx context.Context, c *Client, key string, dst *T) bool {
	data, _ := c.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

// SetJSON encodes v and stores it with ttl. Encoding failures are ignored.
func SetJSON(ctx context.Context, c *Client, key string, v any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}
	if payload, err := json.Marshal(v); err == nil {
		_ = c.Set(ctx, key, payload, ttl)
	}
}
