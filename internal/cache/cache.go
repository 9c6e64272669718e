package cache

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client caches authenticated user lookups and the public event listing.
// Both are hot read paths; everything cached here can be rebuilt from
// Postgres at any time.
type Client struct {
	client  *redis.Client
	authTTL time.Duration
	listTTL time.Duration
}

type Config struct {
	Addr     string
	Password string
	AuthTTL  time.Duration
	ListTTL  time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: rdb, authTTL: cfg.AuthTTL, listTTL: cfg.ListTTL}, nil
}

// AuthKey derives the cache key for a credential pair. The password is
// hashed before it is encoded so raw credentials never reach the cache.
func AuthKey(username, password string) string {
	sum := sha256.Sum256([]byte(password))
	pair := fmt.Sprintf("%s:%x", username, sum)
	return "auth:" + base64.StdEncoding.EncodeToString([]byte(pair))
}

// GetAuthUserID returns the cached user ID for a credential key, or 0 on a
// miss.
func (c *Client) GetAuthUserID(ctx context.Context, key string) (int64, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache lookup error: %w", err)
	}

	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in cache: %w", err)
	}
	return userID, nil
}

func (c *Client) SetAuthUserID(ctx context.Context, key string, userID int64) error {
	return c.client.Set(ctx, key, strconv.FormatInt(userID, 10), c.authTTL).Err()
}

// InvalidateAuth drops a cached credential entry, used when an account is
// deleted.
func (c *Client) InvalidateAuth(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

const eventListPrefix = "events:list:"

// GetEventList returns the cached serialized listing for a query key, or
// nil on a miss.
func (c *Client) GetEventList(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, eventListPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return val, nil
}

func (c *Client) SetEventList(ctx context.Context, key string, payload []byte) error {
	return c.client.Set(ctx, eventListPrefix+key, payload, c.listTTL).Err()
}

// InvalidateEventLists drops every cached listing. Called after any write
// that changes the catalog or seat availability.
func (c *Client) InvalidateEventLists(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, eventListPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (c *Client) Close() error {
	return c.client.Close()
}
