package publisher

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freegamewatch/internal/listing"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	const stream = "test_freegames"
	client.Del(ctx, stream)

	pub := NewRedisPublisher(ctx, "localhost:6379", 0, stream, 100)
	defer pub.Close()

	batch := []listing.Listing{
		{Title: "Test Game", Storefront: listing.StorefrontEpic, Platform: listing.PlatformPC},
	}
	require.NoError(t, pub.PublishListings(batch))

	entries, err := client.XRange(ctx, stream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "1", entries[0].Values["count"])

	var decoded []listing.Listing
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["listings"].(string)), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Test Game", decoded[0].Title)
}

func TestRedisPublisherEmptyBatch(t *testing.T) {
	pub := NewRedisPublisher(context.Background(), "localhost:6379", 0, "test_freegames_e", 100)
	defer pub.Close()

	// No round trip happens, so this passes with no server running.
	assert.NoError(t, pub.PublishListings(nil))
}
