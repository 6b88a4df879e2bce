package cache

import "time"

// Service is a small expiring key/value cache. The extractors use it to
// remember which storefronts told us to back off, so a blocked source is
// not re-fetched until its block lapses.
type Service interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
