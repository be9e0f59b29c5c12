package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }

	revoked, err := r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "a", time.Hour))
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Hour)
	revoked, err = r.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevokerIgnoresExpiredTokens(t *testing.T) {
	r := NewMemoryRevoker()
	require.NoError(t, r.Revoke(context.Background(), "gone", 0))
	assert.Empty(t, r.revoked)
}

func TestNewRedisRevokerRejectsBadURL(t *testing.T) {
	_, err := NewRedisRevoker("not a url")
	assert.Error(t, err)
}

func TestRedisRevokerRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)

	r, err := NewRedisRevoker("redis://" + srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	revoked, err := r.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "tok-1", time.Hour))
	revoked, err = r.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.True(t, srv.Exists(revokedKeyPrefix+"tok-1"))
	assert.Equal(t, time.Hour, srv.TTL(revokedKeyPrefix+"tok-1"))

	// other tokens are unaffected
	revoked, err = r.IsRevoked(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	srv.FastForward(time.Hour + time.Second)
	revoked, err = r.IsRevoked(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := NewRedisRevoker("redis://" + srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	require.NoError(t, r.Revoke(context.Background(), "old", -time.Minute))
	assert.Empty(t, srv.Keys())
}

func TestRedisRevokerReportsConnectionErrors(t *testing.T) {
	srv := miniredis.RunT(t)
	r, err := NewRedisRevoker("redis://" + srv.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })

	srv.SetError("ERR backend unavailable")
	_, err = r.IsRevoked(context.Background(), "tok")
	assert.Error(t, err)
}

func TestNewRedisRevokerFailsWhenUnreachable(t *testing.T) {
	srv, err := miniredis.Run()
	require.NoError(t, err)
	addr := srv.Addr()
	srv.Close()

	_, err = NewRedisRevoker("redis://" + addr)
	assert.Error(t, err)
}
