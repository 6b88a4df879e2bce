package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcache(t *testing.T) {
	mc := NewMemcache("localhost:11211")

	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("epic_games_store_blocked", []byte("blocked"), 1*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("epic_games_store_blocked")
	assert.NoError(t, err)
	assert.Equal(t, "blocked", string(value))

	err = mc.Delete("epic_games_store_blocked")
	assert.NoError(t, err)

	_, err = mc.Get("epic_games_store_blocked")
	assert.Error(t, err)
}
