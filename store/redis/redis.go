// Package redis implements store.Store on a Redis keyspace.
//
// Layout per namespace:
//
//	v:<ns>:<key>  - value bytes, native PX expiry when a TTL is configured
//	lru:<ns>      - ZSET recency index: member = user key, score = server
//	                time in microseconds at last access
//
// Scores come from TIME inside the scripts, so recency ordering is
// consistent across client processes regardless of their clocks. The
// write+evict and read+touch sequences run as server-side scripts, which is
// what makes the MaxSize bound hard rather than best-effort under
// concurrent writers. Requires Redis 5+ (script effect replication).
//
// Under Redis Cluster the value and index keys must hash to one slot; use a
// namespace carrying a hash tag, e.g. "{user}" -> v:{user}:..., lru:{user}.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/lrudict/internal/keys"
	"github.com/unkn0wn-root/lrudict/store"
)

var ErrNilClient = errors.New("redis store: nil client")

// putScript: KEYS[1]=value key, KEYS[2]=index.
// ARGV: value, ttl ms (0 = none), max size, value prefix, member.
// Returns the number of evicted entries.
var putScript = goredis.NewScript(`
local ttl = tonumber(ARGV[2])
if ttl > 0 then
  redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
  redis.call('SET', KEYS[1], ARGV[1])
end
local t = redis.call('TIME')
redis.call('ZADD', KEYS[2], t[1] * 1000000 + t[2], ARGV[5])
local max = tonumber(ARGV[3])
local n = redis.call('ZCARD', KEYS[2])
if n <= max then
  return 0
end
local victims = redis.call('ZRANGE', KEYS[2], 0, n - max - 1)
for i = 1, #victims do
  redis.call('UNLINK', ARGV[4] .. victims[i])
end
for i = 1, #victims, 100 do
  redis.call('ZREM', KEYS[2], unpack(victims, i, math.min(i + 99, #victims)))
end
return #victims
`)

// fetchScript: KEYS[1]=value key, KEYS[2]=index.
// ARGV: member, sliding ttl ms (0 = leave expiry alone).
// Returns the value, or false on miss (after dropping a dangling marker).
var fetchScript = goredis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
  redis.call('ZREM', KEYS[2], ARGV[1])
  return false
end
local t = redis.call('TIME')
redis.call('ZADD', KEYS[2], t[1] * 1000000 + t[2], ARGV[1])
local slide = tonumber(ARGV[2])
if slide > 0 then
  redis.call('PEXPIRE', KEYS[1], slide)
end
return v
`)

// purgeScript: KEYS[1]=index. ARGV: value prefix.
// Walks the index in batches so a large namespace does not build one huge
// argument list. Returns the number of entries removed.
var purgeScript = goredis.NewScript(`
local removed = 0
repeat
  local batch = redis.call('ZRANGE', KEYS[1], 0, 99)
  for i = 1, #batch do
    redis.call('UNLINK', ARGV[1] .. batch[i])
  end
  if #batch > 0 then
    redis.call('ZREM', KEYS[1], unpack(batch))
  end
  removed = removed + #batch
until #batch < 100
redis.call('UNLINK', KEYS[1])
return removed
`)

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) Fetch(ctx context.Context, ns, key string, slide time.Duration) ([]byte, bool, error) {
	argv := []interface{}{key, slide.Milliseconds()}
	res, err := fetchScript.Run(ctx, s.rdb, []string{keys.Value(ns, key), keys.Index(ns)}, argv...).Result()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	switch v := res.(type) {
	case string:
		return []byte(v), true, nil
	case []byte:
		return v, true, nil
	default:
		return nil, false, errors.New("redis store: unexpected fetch reply type")
	}
}

func (s *Redis) Put(ctx context.Context, ns, key string, value []byte, ttl time.Duration, maxSize int64) (int64, error) {
	if ttl < 0 {
		ttl = 0 // treat negative TTLs as "no expiry" per store contract
	}
	argv := []interface{}{value, ttl.Milliseconds(), maxSize, keys.ValuePrefix(ns), key}
	return putScript.Run(ctx, s.rdb, []string{keys.Value(ns, key), keys.Index(ns)}, argv...).Int64()
}

func (s *Redis) Delete(ctx context.Context, ns, key string) error {
	_, err := s.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		p.Unlink(ctx, keys.Value(ns, key))
		p.ZRem(ctx, keys.Index(ns), key)
		return nil
	})
	return err
}

func (s *Redis) Contains(ctx context.Context, ns, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keys.Value(ns, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Redis) Len(ctx context.Context, ns string) (int64, error) {
	return s.rdb.ZCard(ctx, keys.Index(ns)).Result()
}

func (s *Redis) Purge(ctx context.Context, ns string) error {
	return purgeScript.Run(ctx, s.rdb, []string{keys.Index(ns)}, keys.ValuePrefix(ns)).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
