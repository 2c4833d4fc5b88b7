// Package lrudict implements an LRU-bounded cache dictionary on top of a
// shared remote store. Each namespace holds at most MaxSize entries; writes
// that push it over the bound evict the least recently used entries
// atomically with the triggering Set. Entries may additionally expire after
// a TTL, enforced natively by the store.
//
// Components:
//   - store.Store: the backing keyspace (Redis, or in-process for tests).
//   - Codec[V]: (de)serializes V <-> []byte.
//   - memoize: derives cache keys from function identity + arguments and
//     wraps functions with read-through caching.
//
// Keys (owned by lrudict; do not write under these prefixes):
//
//	v:<ns>:<key>  - value entries
//	lru:<ns>      - recency index ordering keys by last access
//
// Usage:
//
//	cache, _ := lrudict.New[User](lrudict.Options[User]{
//	    Namespace:  "user",
//	    MaxSize:    10_000,
//	    Expiration: 15 * time.Minute,
//	    Store:      rstore,
//	    Codec:      codec.JSON[User]{},
//	})
//	_ = cache.Set(ctx, "u:1", u)
//	u, err := cache.Get(ctx, "u:1") // errors.Is(err, lrudict.ErrKeyNotFound) on miss
package lrudict
