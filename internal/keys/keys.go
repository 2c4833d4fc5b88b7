// Package keys centralizes the storage-key layout shared by the cache and
// its stores. The keyspaces "v:<ns>:" and "lru:<ns>" are owned by lrudict;
// foreign writes under them break the value/index coupling.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
)

// Value returns the storage key holding the value for a user key.
func Value(ns, key string) string { return "v:" + ns + ":" + key }

// ValuePrefix returns the prefix shared by all value keys in ns. Appending
// an index member to it yields that member's value key.
func ValuePrefix(ns string) string { return "v:" + ns + ":" }

// Index returns the storage key of the namespace-wide recency index.
func Index(ns string) string { return "lru:" + ns }

// Digest returns a short stable fingerprint of b: the first 16 hex chars of
// its SHA-256. Used to keep derived keys bounded regardless of input size.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}
