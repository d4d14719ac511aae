package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisRevoker(NewRedis(mr.Addr(), ""))
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevokerSkipsExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisRevoker(NewRedis(mr.Addr(), ""))

	require.NoError(t, r.Revoke(context.Background(), "jti-2", -time.Second))
	assert.False(t, mr.Exists(keyPrefix+"jti-2"))
}

func TestRedisRevokerSurfacesOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisRevoker(NewRedis(mr.Addr(), ""))
	mr.Close()

	_, err := r.IsRevoked(context.Background(), "jti-3")
	assert.Error(t, err)
}
