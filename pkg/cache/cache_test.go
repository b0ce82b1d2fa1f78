package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClient_WritesAreNoops(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, svc.Delete(ctx, "k"))
	assert.NoError(t, svc.SetTopPicks(ctx, "", []int{1, 2, 3}))
	assert.NoError(t, svc.InvalidateTopPicks(ctx))
	assert.NoError(t, svc.RevokeToken(ctx, "jti", time.Hour))
}

func TestNilClient_ReadsMiss(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	var dest []int
	assert.ErrorIs(t, svc.Get(ctx, "k", &dest), ErrUnavailable)
	assert.ErrorIs(t, svc.GetTopPicks(ctx, "", &dest), ErrUnavailable)
	assert.ErrorIs(t, svc.Ping(ctx), ErrUnavailable)

	revoked, err := svc.IsTokenRevoked(ctx, "jti")
	assert.NoError(t, err)
	assert.False(t, revoked)
}

func TestTopPicksKey(t *testing.T) {
	c := &redisCache{}
	assert.Equal(t, "toppicks:default", c.topPicksKey(""))
	assert.Equal(t, "toppicks:7d:3", c.topPicksKey("7d:3"))
}
