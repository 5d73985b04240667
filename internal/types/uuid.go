package types

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex doc_01J6ZQ4W5V9D3TQ0F2K8M1XH7R
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// GenerateRequestID returns a random v4 UUID. Request ids come from
// clients too, so they are not required to sort.
func GenerateRequestID() string {
	return uuid.NewString()
}

const (
	// UUID_PREFIX_DOCUMENT marks rendered invoice documents
	UUID_PREFIX_DOCUMENT = "doc"
	// UUID_PREFIX_BATCH marks one parse and aggregate run
	UUID_PREFIX_BATCH = "batch"
)
