package lrudict

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/lrudict/codec"
	st "github.com/unkn0wn-root/lrudict/store"
)

// Cache is a dictionary bounded to MaxSize entries per namespace, with LRU
// eviction and optional expiry, backed by a shared store. V is the caller's
// value type; serialization is handled by a pluggable Codec[V].
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Get returns the value for key, refreshing its recency so it is not
	// the next eviction candidate. Absent or expired keys fail with
	// ErrKeyNotFound; a broken store fails with a StoreError so callers
	// can tell "not cached" from "cache broken".
	Get(ctx context.Context, key string) (V, error)

	// Lookup is Get without the sentinel: (zero, false, nil) on miss.
	Lookup(ctx context.Context, key string) (V, bool, error)

	// Set writes key with the configured Expiration and evicts the least
	// recently used entries if the namespace is over MaxSize. The write
	// and the eviction are atomic in the store.
	Set(ctx context.Context, key string, value V) error

	// SetTTL is Set with a per-call expiry override (0 = no expiry).
	SetTTL(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key and its recency marker. Idempotent.
	Delete(ctx context.Context, key string) error

	// Contains reports whether key holds a live value. It does not refresh
	// recency; a Contains-heavy workload leaves eviction order untouched.
	Contains(ctx context.Context, key string) (bool, error)

	// Len returns the recency-index cardinality: an upper bound that may
	// transiently include expired entries not read since they expired.
	Len(ctx context.Context) (int64, error)

	// Purge drops every entry in the namespace.
	Purge(ctx context.Context) error
}

// Options tune a Cache. Namespace, MaxSize, Store and Codec are required;
// the rest have defaults.
type Options[V any] struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "user", "quote"
	MaxSize   int64  // LRU bound; must be > 0
	Store     st.Store
	Codec     c.Codec[V]

	Expiration time.Duration // 0 => entries do not expire
	Sliding    bool          // renew expiry on Get (last-access mode) instead of write-only
	Logger     Logger        // if nil, NopLogger is used
	Hooks      Hooks         // if nil, NopHooks is used
	Reject     func(V) bool  // values for which Set is a no-op; nil => cache everything
	Disabled   bool          // kill switch: every read misses, writes are no-ops
	CloseStore bool          // Close also closes the store; set only when the cache owns it
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
