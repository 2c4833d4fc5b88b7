// Package store defines the backing-store abstraction used by lrudict.
//
// A Store keeps, per namespace, a set of byte values plus a recency index
// ordering the keys by last access. The two are coupled: every value key has
// a matching index member and vice versa. Implementations must keep that
// coupling intact under concurrent callers, which is why Put bundles the
// write, the recency update, and the over-bound eviction into one atomic
// operation instead of exposing the raw primitives.
//
// Implementations MUST be byte-for-byte transparent: Fetch must return
// exactly the same []byte previously passed to Put for that key. Recency
// scores are an implementation detail and are never exposed to callers.
package store

import (
	"context"
	"time"
)

// Store is the remote (or in-process) keyspace behind a cache dictionary.
// All methods must be safe for concurrent use across goroutines and, for
// remote implementations, across processes sharing one namespace.
type Store interface {
	// Fetch returns the value for key and, on a hit, marks key as the most
	// recently used member of ns. When slide > 0 the entry's expiry is
	// renewed to slide from now. A dangling recency marker (index member
	// whose value expired) is removed on the way. Returns (nil, false, nil)
	// on miss; a non-nil error means the store itself failed.
	Fetch(ctx context.Context, ns, key string, slide time.Duration) ([]byte, bool, error)

	// Put writes value under key with the given ttl (0 = no expiry), marks
	// key most recently used, and — atomically with the write — evicts the
	// least recently used members of ns until at most maxSize remain.
	// Returns the number of entries evicted.
	Put(ctx context.Context, ns, key string, value []byte, ttl time.Duration, maxSize int64) (int64, error)

	// Delete removes the value and its recency marker. Deleting an absent
	// key is not an error.
	Delete(ctx context.Context, ns, key string) error

	// Contains reports whether a live (unexpired) value exists for key.
	// It does not touch recency.
	Contains(ctx context.Context, ns, key string) (bool, error)

	// Len returns the recency-index cardinality for ns. Entries whose value
	// expired but has not been read since may still be counted, so this is
	// an upper bound on the number of live entries.
	Len(ctx context.Context, ns string) (int64, error)

	// Purge removes every entry in ns, values and index both.
	Purge(ctx context.Context, ns string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
