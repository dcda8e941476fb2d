package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	// ProfileHash fingerprints a serialized feature profile. Identical
	// profiles always map to identical hashes, which makes it usable both
	// as a cache key for deterministic classifier queries and as the
	// subject of reference-profile determinism checks.
	ProfileHash Hash
	// ModelFingerprint identifies the exact persisted model artifacts.
	ModelFingerprint Hash
)

// Constructors
func NewProfileHash(data []byte) ProfileHash           { return ProfileHash(NewHash(data)) }
func NewModelFingerprint(data []byte) ModelFingerprint { return ModelFingerprint(NewHash(data)) }

// String conversions
func (h ProfileHash) String() string      { return Hash(h).String() }
func (h ModelFingerprint) String() string { return Hash(h).String() }

// ComputeProfileHash derives a deterministic fingerprint from a flat
// name->serialized-value view of a profile. Keys are sorted so map
// iteration order never leaks into the hash.
func ComputeProfileHash(values map[string]interface{}) ProfileHash {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	for _, key := range keys {
		data.WriteString(key)
		data.WriteString("=")
		data.WriteString(fmt.Sprintf("%v", values[key]))
		data.WriteString(";")
	}

	return NewProfileHash([]byte(data.String()))
}
