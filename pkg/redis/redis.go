package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saascom/storefront-gateway/config"
	"github.com/saascom/storefront-gateway/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// IdentityCache stores resolved identities keyed by a hash of the session
// token, so hot requests skip the upstream /meauth round trip. Tokens are
// never stored verbatim.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache creates an identity cache backed by the given client
func NewIdentityCache(client *redis.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl}
}

func identityKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "identity:" + hex.EncodeToString(sum[:])
}

// Get returns the cached identity payload for a token, or nil on a miss
func (c *IdentityCache) Get(ctx context.Context, token string) ([]byte, error) {
	payload, err := c.client.Get(ctx, identityKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read identity cache: %w", err)
	}
	return payload, nil
}

// Set stores an identity payload for a token with the cache TTL
func (c *IdentityCache) Set(ctx context.Context, token string, payload []byte) error {
	if err := c.client.Set(ctx, identityKey(token), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write identity cache: %w", err)
	}
	return nil
}

// Evict drops the cached identity for a token
func (c *IdentityCache) Evict(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, identityKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to evict identity cache: %w", err)
	}
	return nil
}
