package core

import (
	"crypto/sha256"
	"encoding/hex"
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

// ResultSetHash identifies an immutable input snapshot. Callers that want to
// memoize analysis output key it on this hash; the analytics core itself
// never caches.
type ResultSetHash Hash

// NewResultSetHash creates a result-set hash from canonical bytes
func NewResultSetHash(data []byte) ResultSetHash { return ResultSetHash(NewHash(data)) }

// String conversion
func (h ResultSetHash) String() string { return Hash(h).String() }

// ComputeResultSetHash builds a deterministic content hash from per-record
// canonical strings. Records are sorted so collection order does not change
// the hash.
func ComputeResultSetHash(records []string) ResultSetHash {
	sorted := make([]string, len(records))
	copy(sorted, records)
	sort.Strings(sorted)

	var data strings.Builder
	for _, r := range sorted {
		data.WriteString(r)
		data.WriteByte('\n')
	}
	return NewResultSetHash([]byte(data.String()))
}
