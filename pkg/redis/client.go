package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"registration-service/pkg/logger"
)

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string, log logger.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Info("connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Warn("waiting for Redis", logger.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// SaveSession stores the serialized signed-in view for an account with TTL.
// An existing session for the same account is replaced.
func (c *Client) SaveSession(ctx context.Context, accountID, payload string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "session:"+accountID, payload, ttl).Err()
}

// GetSession retrieves a session payload. The bool reports presence.
func (c *Client) GetSession(ctx context.Context, accountID string) (string, bool, error) {
	res, err := c.rdb.Get(ctx, "session:"+accountID).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res, true, nil
}

// DeleteSession removes an account's session.
func (c *Client) DeleteSession(ctx context.Context, accountID string) error {
	return c.rdb.Del(ctx, "session:"+accountID).Err()
}

// SaveVerificationToken stores a pending email-verification token with TTL.
func (c *Client) SaveVerificationToken(ctx context.Context, email, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "verify:"+email, token, ttl).Err()
}

// GetVerificationToken retrieves a pending token. The bool reports presence.
func (c *Client) GetVerificationToken(ctx context.Context, email string) (string, bool, error) {
	res, err := c.rdb.Get(ctx, "verify:"+email).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return res, true, nil
}

// DeleteVerificationToken removes a consumed or superseded token.
func (c *Client) DeleteVerificationToken(ctx context.Context, email string) error {
	return c.rdb.Del(ctx, "verify:"+email).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
