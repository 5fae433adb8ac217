package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest creates a Store with the provided rueidis client.
func NewStoreForTest(c rueidis.Client, clientCacheTTL time.Duration) *Store {
	return &Store{client: c, cacheTTL: clientCacheTTL}
}
