package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_ANALYSIS_RUN = "run"
	UUID_PREFIX_REPORT       = "rep"
	UUID_PREFIX_REQUEST      = "req"
)

// GenerateUUID returns a lexicographically sortable unique identifier.
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a prefixed unique identifier, e.g.
// "run_01J9ZK...". An empty prefix yields a bare identifier.
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
