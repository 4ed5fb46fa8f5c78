package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Claimer grants a key to exactly one caller until ttl expires. It closes the
// window where two overlapping ticks both see "no record yet".
type Claimer interface {
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// NoopClaimer grants every claim. Duplicate suppression then rests on the
// reminder record alone.
type NoopClaimer struct{}

func (NoopClaimer) Claim(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}

// RedisClaimer claims keys with SET NX. The stored value identifies the
// claiming process.
type RedisClaimer struct {
	client *redis.Client
	prefix string
	owner  string
}

func NewRedisClaimer(client *redis.Client, prefix string) *RedisClaimer {
	return &RedisClaimer{client: client, prefix: prefix, owner: uuid.NewString()}
}

func (c *RedisClaimer) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := c.owner + ":" + uuid.NewString()
	ok, err := c.client.SetNX(ctx, c.prefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("Claim: failed to claim %s: %w", key, err)
	}
	return ok, nil
}
