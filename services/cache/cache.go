package cache

import (
	"fmt"
	"time"
)

// CacheService is the shared-state store for cross-process coordination:
// rate-limit blocks and the last-seen page fingerprint live here.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// Block records a rate-limit block for the key lasting the given duration.
func Block(svc CacheService, key string, d time.Duration) error {
	if svc == nil || key == "" {
		return nil
	}
	return svc.Set(key, []byte(fmt.Sprintf("%d", int(d.Seconds()))), d)
}

// IsBlocked reports whether the key currently carries a rate-limit block.
func IsBlocked(svc CacheService, key string) bool {
	if svc == nil || key == "" {
		return false
	}
	_, err := svc.Get(key)
	return err == nil
}
