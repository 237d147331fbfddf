package cache

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	// Test if memcached is available
	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	// Set a value
	err = mc.Set("watch_fingerprint", []byte("abc123"), 1*time.Second)
	assert.NoError(t, err)

	// Get the value
	value, err := mc.Get("watch_fingerprint")
	assert.NoError(t, err)
	assert.Equal(t, "abc123", string(value))

	// Delete the value
	err = mc.Delete("watch_fingerprint")
	assert.NoError(t, err)

	// Try to get the deleted value
	_, err = mc.Get("watch_fingerprint")
	assert.Error(t, err)
}

func TestMemcacheRateLimitBlock(t *testing.T) {
	mc := NewMemcacheService("localhost:11211")

	_, err := mc.client.Get("test")
	if err != nil && err != memcache.ErrCacheMiss {
		t.Skip("Memcached is not available, skipping test")
	}

	assert.False(t, IsBlocked(mc, "rate_limit_lastbottle"))
	assert.NoError(t, Block(mc, "rate_limit_lastbottle", 2*time.Second))
	assert.True(t, IsBlocked(mc, "rate_limit_lastbottle"))
	assert.NoError(t, mc.Delete("rate_limit_lastbottle"))
}

func TestBlockHelpersNilSafe(t *testing.T) {
	assert.NoError(t, Block(nil, "key", time.Second))
	assert.False(t, IsBlocked(nil, "key"))

	mc := NewMemcacheService("localhost:11211")
	assert.NoError(t, Block(mc, "", time.Second))
	assert.False(t, IsBlocked(mc, ""))
}
