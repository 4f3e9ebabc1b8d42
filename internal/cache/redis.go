package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vasitha1/lebailleur-app/internal/config"
)

// Queue names shared between the API and the workers.
const (
	ReminderQueue = "notifications:queue"
	PhotoQueue    = "photos:queue"
)

const rolesCacheTTL = 30 * time.Minute

type Client struct {
	Client *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// Get retrieves a value from Redis
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// Set sets a value in Redis with expiration
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.Client.Set(ctx, key, value, expiration).Err()
}

// Delete removes keys from Redis
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.Client.Del(ctx, keys...).Err()
}

func rolesKey(identifier string) string {
	return fmt.Sprintf("identity:roles:%s", identifier)
}

// GetAvailableRoles retrieves the cached role set for an identifier. The
// value is a comma-separated list; a redis.Nil error means a cache miss.
func (c *Client) GetAvailableRoles(ctx context.Context, identifier string) (string, error) {
	return c.Get(ctx, rolesKey(identifier))
}

// SetAvailableRoles caches the role set for an identifier
func (c *Client) SetAvailableRoles(ctx context.Context, identifier, roles string) error {
	return c.Set(ctx, rolesKey(identifier), roles, rolesCacheTTL)
}

// InvalidateAvailableRoles drops the cached role set. Called whenever a
// profile is created or deleted for the identifier.
func (c *Client) InvalidateAvailableRoles(ctx context.Context, identifier string) error {
	return c.Delete(ctx, rolesKey(identifier))
}

// Enqueue pushes a job payload onto a queue
func (c *Client) Enqueue(ctx context.Context, queue string, payload []byte) error {
	return c.Client.RPush(ctx, queue, payload).Err()
}

// Dequeue blocks until a job is available or the timeout elapses. Returns
// redis.Nil on timeout.
func (c *Client) Dequeue(ctx context.Context, queue string, timeout time.Duration) ([]byte, error) {
	res, err := c.Client.BLPop(ctx, timeout, queue).Result()
	if err != nil {
		return nil, err
	}
	// BLPOP returns [key, value]
	if len(res) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP reply length %d", len(res))
	}
	return []byte(res[1]), nil
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}
