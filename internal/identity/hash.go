package identity

import (
	"strings"
)

// FNV-1a 64-bit constants. Pinned here rather than taken from hash/fnv:
// the displayed jitter offset for a user is derived from this hash, and
// it has to come out identical on every platform and runtime the system
// touches, including non-Go clients that reimplement it.
const (
	fnvOffsetBasis uint64 = 14695981039346656037
	fnvPrime       uint64 = 1099511628211
)

// Hash64 returns the FNV-1a hash of the UTF-8 bytes of id. Same identity
// always yields the same hash across runs and platforms.
func Hash64(id string) uint64 {
	h := fnvOffsetBasis
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= fnvPrime
	}
	return h
}

// Normalize canonicalizes an identity string for storage keys, set
// membership and hashing. Identities compared without normalizing first
// silently leak blocked users back onto the map, so every boundary
// normalizes before it compares.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
