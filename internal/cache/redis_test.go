package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/alingse/visionscribe/internal/core/classifier"
)

var _ classifier.ResponseCache = (*RedisCache)(nil)

func unreachable() *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestRedisCacheSurfacesConnectionErrors(t *testing.T) {
	c := unreachable()
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "k")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.Set(ctx, "k", "v", time.Minute))
	assert.Error(t, c.Ping(ctx))
}
