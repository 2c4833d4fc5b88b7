// Package memoize wraps functions with read-through caching over a
// lrudict.Cache. Cache keys are derived from the function's identity plus a
// canonical serialization of its arguments, so equal calls map to one entry
// across processes built from the same source.
//
// Cache-layer failures are non-fatal here: a broken store degrades to
// calling the wrapped function, and write failures are logged and dropped.
// Errors from the wrapped function itself propagate normally and are never
// cached. The one hard failure is an argument the canonical encoding cannot
// represent (channels, funcs, ...): the wrapped call fails with a
// CodecError instead of silently bypassing the cache.
package memoize

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/unkn0wn-root/lrudict"
	"github.com/unkn0wn-root/lrudict/codec"
	"github.com/unkn0wn-root/lrudict/internal/keys"
	st "github.com/unkn0wn-root/lrudict/store"
)

// NewCache builds a Cache for callers that do not hold one already:
// JSON codec, the given namespace, bound and expiry. Anything beyond that
// (custom codec, hooks, sliding expiry) warrants lrudict.New directly.
func NewCache[V any](s st.Store, namespace string, maxSize int64, expiration time.Duration) (lrudict.Cache[V], error) {
	return lrudict.New[V](lrudict.Options[V]{
		Namespace:  namespace,
		MaxSize:    maxSize,
		Store:      s,
		Codec:      codec.JSON[V]{},
		Expiration: expiration,
	})
}

// Canonical argument encoding: RFC 8949 Core Deterministic CBOR, so map
// iteration order and other encoder freedoms cannot fork the key.
var detEnc cbor.EncMode

func init() {
	eo := cbor.CoreDetEncOptions()
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		panic(err)
	}
	detEnc = em
}

// Key builds the cache key for a named function and its argument list:
// "fn:<name>:<digest>" where the digest fingerprints the deterministic CBOR
// encoding of args. Arguments the encoding cannot represent fail with a
// CodecError (errors.Is(err, lrudict.ErrSerialization)).
func Key(name string, args ...any) (string, error) {
	b, err := detEnc.Marshal(args)
	if err != nil {
		return "", &lrudict.CodecError{Op: "encode", Key: name, Err: err}
	}
	return "fn:" + name + ":" + keys.Digest(b), nil
}

type config struct {
	name   string
	ttl    time.Duration
	ttlFn  func(time.Time) time.Duration
	hasTTL bool
	log    lrudict.Logger
}

type Option func(*config)

// WithName overrides the function-identity part of the key. Use it when the
// runtime name is unstable (closures) or when several binaries must share
// entries.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithTTL sets a per-function expiry override (0 = no expiry).
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl; c.ttlFn = nil; c.hasTTL = true }
}

// WithDailyExpiry expires entries at the next occurrence of the given local
// wall-clock time. Useful for values that roll over once a day.
func WithDailyExpiry(hour, min, sec int) Option {
	return func(c *config) {
		c.ttlFn = func(now time.Time) time.Duration {
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
			if !next.After(now) {
				next = next.Add(24 * time.Hour)
			}
			return next.Sub(now)
		}
		c.hasTTL = true
	}
}

// WithLogger sets where degraded-mode events (store down, write dropped)
// are reported. Defaults to no logging.
func WithLogger(l lrudict.Logger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(fn any, opts []Option) *config {
	c := &config{log: lrudict.NopLogger{}}
	for _, o := range opts {
		o(c)
	}
	if c.name == "" {
		c.name = funcName(fn)
	}
	return c
}

// funcName resolves the fully qualified name of fn, the analog of the
// function identity a caller would write by hand.
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return "anonymous"
}

// Func0 memoizes a function taking only a Context.
func Func0[V any](cache lrudict.Cache[V], fn func(context.Context) (V, error), opts ...Option) func(context.Context) (V, error) {
	cfg := newConfig(fn, opts)
	return func(ctx context.Context) (V, error) {
		return through(ctx, cache, cfg, fn, func() (string, error) {
			return Key(cfg.name)
		})
	}
}

// Func1 memoizes a one-argument function.
func Func1[A, V any](cache lrudict.Cache[V], fn func(context.Context, A) (V, error), opts ...Option) func(context.Context, A) (V, error) {
	cfg := newConfig(fn, opts)
	return func(ctx context.Context, a A) (V, error) {
		call := func(ctx context.Context) (V, error) { return fn(ctx, a) }
		return through(ctx, cache, cfg, call, func() (string, error) {
			return Key(cfg.name, a)
		})
	}
}

// Func2 memoizes a two-argument function.
func Func2[A, B, V any](cache lrudict.Cache[V], fn func(context.Context, A, B) (V, error), opts ...Option) func(context.Context, A, B) (V, error) {
	cfg := newConfig(fn, opts)
	return func(ctx context.Context, a A, b B) (V, error) {
		call := func(ctx context.Context) (V, error) { return fn(ctx, a, b) }
		return through(ctx, cache, cfg, call, func() (string, error) {
			return Key(cfg.name, a, b)
		})
	}
}

// Func3 memoizes a three-argument function.
func Func3[A, B, C, V any](cache lrudict.Cache[V], fn func(context.Context, A, B, C) (V, error), opts ...Option) func(context.Context, A, B, C) (V, error) {
	cfg := newConfig(fn, opts)
	return func(ctx context.Context, a A, b B, c C) (V, error) {
		call := func(ctx context.Context) (V, error) { return fn(ctx, a, b, c) }
		return through(ctx, cache, cfg, call, func() (string, error) {
			return Key(cfg.name, a, b, c)
		})
	}
}

// through is the shared read-through path: lookup, call on miss or store
// failure, then best-effort populate.
func through[V any](
	ctx context.Context,
	cache lrudict.Cache[V],
	cfg *config,
	call func(context.Context) (V, error),
	keyFn func() (string, error),
) (V, error) {
	key, err := keyFn()
	if err != nil {
		var zero V
		return zero, err
	}
	v, ok, err := cache.Lookup(ctx, key)
	if err != nil {
		cfg.log.Warn("cache read failed; calling through", lrudict.Fields{"key": key, "err": err})
	} else if ok {
		return v, nil
	}
	v, err = call(ctx)
	if err != nil {
		return v, err
	}
	populate(ctx, cache, cfg, key, v)
	return v, nil
}

func populate[V any](ctx context.Context, cache lrudict.Cache[V], cfg *config, key string, v V) {
	var err error
	switch {
	case cfg.ttlFn != nil:
		err = cache.SetTTL(ctx, key, v, cfg.ttlFn(time.Now()))
	case cfg.hasTTL:
		err = cache.SetTTL(ctx, key, v, cfg.ttl)
	default:
		err = cache.Set(ctx, key, v)
	}
	if err != nil {
		cfg.log.Warn("cache write dropped", lrudict.Fields{"key": key, "err": err})
	}
}
