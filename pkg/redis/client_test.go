package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCmdable struct {
	incr    map[string]int64
	expires []string
	failing error
}

func newFake() *fakeCmdable { return &fakeCmdable{incr: map[string]int64{}} }

func (f *fakeCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", f.failing)
}

func (f *fakeCmdable) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.failing != nil {
		return redis.NewIntResult(0, f.failing)
	}
	f.incr[key]++
	return redis.NewIntResult(f.incr[key], nil)
}

func (f *fakeCmdable) Expire(_ context.Context, key string, _ time.Duration) *redis.BoolCmd {
	f.expires = append(f.expires, key)
	return redis.NewBoolResult(true, nil)
}

func TestFixedWindowAllow_CortaAlSuperarLimite(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	c := &Client{store: fake}

	for i := 1; i <= 2; i++ {
		allowed, count, err := c.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "intento %d debe permitirse", i)
		assert.Equal(t, int64(i), count)
	}
	allowed, _, err := c.FixedWindowAllow(ctx, "login:ip:10.0.0.1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "el tercer intento supera el límite")

	assert.Equal(t, []string{"obras:rate_limit:login:ip:10.0.0.1"}, fake.expires,
		"el TTL se fija solo en el primer incremento")
}

func TestFixedWindowAllow_ErrorDeRedis(t *testing.T) {
	fake := newFake()
	fake.failing = errors.New("connection refused")
	c := &Client{store: fake}

	_, _, err := c.FixedWindowAllow(context.Background(), "x", 1, time.Minute)
	assert.Error(t, err)
}

func TestClienteNil_NoEntraEnPanico(t *testing.T) {
	var c *Client
	assert.Error(t, c.Ping(context.Background()))
	assert.NoError(t, c.Close())
}
