package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache_GenerateKey(t *testing.T) {
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "vitashop")

	assert.Equal(t, "vitashop:payment_status:tran_1", c.GenerateKey("payment_status", "tran_1"))
}

func TestNopCache_AlwaysMisses(t *testing.T) {
	var c Cache = NopCache{}
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))

	var dest map[string]string
	hit, err := c.GetJSON(ctx, "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "k"))
}

// Integration test, skipped when no local Redis is reachable.
func TestRedisCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, "localhost:6379", "", 15)
	if err != nil {
		t.Skipf("redis not available: %v", err)
	}
	defer client.Close()

	c := NewRedisCache(client, "vitashop_test")
	key := c.GenerateKey("payment_status", "tran_roundtrip")

	type outcome struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	require.NoError(t, c.SetJSON(ctx, key, outcome{ID: "tran_roundtrip", Status: "paid"}, time.Minute))

	var got outcome
	hit, err := c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "paid", got.Status)

	require.NoError(t, c.Delete(ctx, key))
	hit, err = c.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
