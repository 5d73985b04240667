package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the cache default applies
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)

	// ItemCount reports the number of stored entries
	ItemCount() int
}

// Key prefixes end in a colon and carry a schema version of the cached value
const (
	PrefixDocument = "document:v1:"
)

// GenerateKey appends the parameters to prefix, colon separated.
// GenerateKey(PrefixDocument, "doc_01") is "document:v1:doc_01".
func GenerateKey(prefix string, params ...interface{}) string {
	parts := lo.Map(params, func(p interface{}, _ int) string {
		return fmt.Sprint(p)
	})
	return prefix + strings.Join(parts, ":")
}
