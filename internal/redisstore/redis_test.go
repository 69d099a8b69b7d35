package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := Connect(ctx, mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	urlClient, err := Connect(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	require.NotNil(t, urlClient)
	defer urlClient.Close()
}

func TestConnect_NotConfigured(t *testing.T) {
	client, err := Connect(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := Connect(context.Background(), addr)
	assert.Error(t, err)
	assert.Nil(t, client)

	_, err = Connect(context.Background(), "redis://%%bad")
	assert.Error(t, err)
}

func TestTokenBlocklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	blocklist := NewTokenBlocklist(client)
	ctx := context.Background()

	revoked, err := blocklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blocklist.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = blocklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = blocklist.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, blocklist.Revoke(ctx, "", time.Minute))
	require.NoError(t, blocklist.Revoke(ctx, "jti-2", 0))
	revoked, err = blocklist.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
