package cache

import "time"

// Store is the expiring key/value store behind anonymous sessions and the
// catalog read cache. A zero duration means the store's default expiration.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, duration time.Duration)

	// Touch returns the value for key and pushes its expiry back by
	// duration. Expired keys are reported as missing.
	Touch(key string, duration time.Duration) (interface{}, bool)

	Delete(key string)
	Flush()

	// Live counts unexpired items.
	Live() int

	// Sweep removes expired items now instead of waiting for the janitor.
	Sweep()

	// OnEvicted registers a callback run when an item is swept or deleted.
	OnEvicted(fn func(key string, value interface{}))
}
