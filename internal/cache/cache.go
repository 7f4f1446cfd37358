package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrEmptyAddress is returned when the Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

const connectTimeout = 5 * time.Second

// Config holds the Redis connection configuration.
type Config struct {
	Address  string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(cfg Config) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Cache is a TTL-scoped read-through facade over Redis. Values are stored as
// JSON. There is no invalidation path; staleness within the TTL window is an
// accepted trade-off.
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func New(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// Key builds a cache key from an operation name and every parameter that
// affects the result, in a fixed order. Two distinct requests must never
// collide on one key, so each part is escaped before joining; otherwise a
// free-form parameter containing the separator could replay the boundaries
// of another request.
func Key(op string, parts ...string) string {
	if len(parts) == 0 {
		return "complex:" + op
	}
	escaped := make([]string, len(parts))
	for i, part := range parts {
		escaped[i] = url.QueryEscape(part)
	}
	return "complex:" + op + ":" + strings.Join(escaped, ":")
}

// Remember serves dest from the cache when the key is present, bypassing
// storage entirely. On a miss it runs fetch (which must fill dest), then
// stores the encoded result for ttl. Redis failures degrade to a direct
// fetch; fetch errors propagate and are never cached.
func (c *Cache) Remember(ctx context.Context, key string, ttl time.Duration, dest interface{}, fetch func() error) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		if unmarshalErr := json.Unmarshal(data, dest); unmarshalErr == nil {
			return nil
		}
		c.logger.WithField("key", key).Warn("Discarding undecodable cache entry")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.WithError(err).WithField("key", key).Warn("Cache read failed")
	}

	if err := fetch(); err != nil {
		return err
	}

	data, err = json.Marshal(dest)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode cache entry")
		return nil
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Cache write failed")
	}
	return nil
}
