package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Del(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_Expiry(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_SetNX(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	stored, err := kv.SetNX(ctx, "k", "first", 0)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = kv.SetNX(ctx, "k", "second", 0)
	require.NoError(t, err)
	assert.False(t, stored)

	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "first", val)

	// an expired entry counts as absent
	require.NoError(t, kv.Set(ctx, "short", "old", time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	stored, err = kv.SetNX(ctx, "short", "new", 0)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestRevokeToken(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	revoked, err := IsTokenRevoked(ctx, kv, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, RevokeToken(ctx, kv, "jti-1", time.Hour))

	revoked, err = IsTokenRevoked(ctx, kv, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, RevokeToken(ctx, kv, "jti-2", -time.Second))
	revoked, err = IsTokenRevoked(ctx, kv, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
