package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache provides JSON caching on top of Client
// ⭐ SSOT: helpers de cache ficam aqui
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper; keys are namespaced as <prefix>:cache:<key>
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Enabled reports whether the underlying client is live
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil && c.client.Enabled()
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value; a missing key returns (false, nil)
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.fullKey(key), data, ttl).Err()
}

// TTLDaily covers screening and price entries; planilhão de uma data-base não muda no dia
const TTLDaily = 24 * time.Hour

// ScreeningKey is the cache key of the planilhão for a base date (YYYY-MM-DD)
func ScreeningKey(baseDate string) string {
	return fmt.Sprintf("planilhao:%s", baseDate)
}

// PriceKey is the cache key of a ticker's corrected prices over a range
func PriceKey(ticker, from, to string) string {
	return fmt.Sprintf("preco:%s:%s:%s", ticker, from, to)
}

// SessionKey is the key of a dashboard session
func SessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
