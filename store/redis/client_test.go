package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/apiclient/log"
	"github.com/kochabx/apiclient/store"
)

func getTestAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

func TestConfigValidate(t *testing.T) {
	assert.ErrorIs(t, (&Config{}).Validate(), ErrEmptyAddrs)
	assert.ErrorIs(t, (&Config{Addrs: []string{"x:1"}, DialTimeout: -1}).Validate(), ErrInvalidTimeout)
	assert.NoError(t, Single("localhost:6379").Validate())

	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigMode(t *testing.T) {
	assert.Equal(t, "single", Single("a:1").mode())
	assert.Equal(t, "cluster", (&Config{Addrs: []string{"a:1", "b:1"}}).mode())
	assert.Equal(t, "sentinel", (&Config{Addrs: []string{"a:1"}, MasterName: "m"}).mode())
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()

	cfg := Single(getTestAddr())
	cfg.Prefix = "apiclient:test:"
	client, err := New(ctx, cfg, WithLogger(log.Nop()))
	if err != nil {
		t.Skipf("Skipping test (Redis not available): %v", err)
		return
	}
	defer client.Close()

	require.NoError(t, client.Set(ctx, "token", "abc123"))
	v, err := client.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)

	raw, err := client.UniversalClient().Get(ctx, "apiclient:test:token").Result()
	require.NoError(t, err)
	assert.Equal(t, "abc123", raw)

	require.NoError(t, client.Delete(ctx, "token"))
	_, err = client.Get(ctx, "token")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientWithTracing(t *testing.T) {
	ctx := context.Background()

	client, err := New(ctx, Single(getTestAddr()), WithLogger(log.Nop()), WithTracing())
	if err != nil {
		t.Skipf("Skipping test (Redis not available): %v", err)
		return
	}
	defer client.Close()

	assert.NoError(t, client.Ping(ctx))
}
