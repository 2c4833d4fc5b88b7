package lrudict

import (
	"context"
	"errors"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/lrudict/codec"
	st "github.com/unkn0wn-root/lrudict/store"
)

type cache[V any] struct {
	ns         string
	maxSize    int64
	store      st.Store
	codec      c.Codec[V]
	log        Logger
	hooks      Hooks
	reject     func(V) bool
	expiration time.Duration
	sliding    bool
	enabled    bool
	closeStore bool
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("lrudict: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("lrudict: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("lrudict: namespace is required")
	}
	if opts.MaxSize <= 0 {
		return nil, fmt.Errorf("lrudict: max size must be positive, got %d", opts.MaxSize)
	}

	cc := &cache[V]{
		ns:         opts.Namespace,
		maxSize:    opts.MaxSize,
		store:      opts.Store,
		codec:      opts.Codec,
		reject:     opts.Reject,
		expiration: opts.Expiration,
		sliding:    opts.Sliding,
		enabled:    !opts.Disabled,
		closeStore: opts.CloseStore,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})

	if opts.Sliding && opts.Expiration <= 0 {
		return nil, fmt.Errorf("lrudict: sliding expiry requires a positive expiration")
	}
	return cc, nil
}

func (c *cache[V]) Enabled() bool { return c.enabled }

func (c *cache[V]) Close(ctx context.Context) error {
	if c.closeStore && c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

func (c *cache[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	if !c.enabled {
		return zero, ErrKeyNotFound
	}
	var slide time.Duration
	if c.sliding {
		slide = c.expiration
	}
	raw, ok, err := c.store.Fetch(ctx, c.ns, key, slide)
	if err != nil {
		c.hooks.StoreError(c.ns, "get", err)
		return zero, &StoreError{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return zero, ErrKeyNotFound
	}
	v, err := c.codec.Decode(raw)
	if err != nil {
		// the payload is unusable; drop it so the next read repopulates
		if derr := c.store.Delete(ctx, c.ns, key); derr != nil {
			c.log.Warn("failed to drop undecodable entry", Fields{"key": key, "err": derr})
		}
		return zero, &CodecError{Op: "decode", Key: key, Err: err}
	}
	return v, nil
}

func (c *cache[V]) Lookup(ctx context.Context, key string) (V, bool, error) {
	v, err := c.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		var zero V
		return zero, false, nil
	}
	if err != nil {
		var zero V
		return zero, false, err
	}
	return v, true, nil
}

func (c *cache[V]) Set(ctx context.Context, key string, value V) error {
	return c.SetTTL(ctx, key, value, c.expiration)
}

func (c *cache[V]) SetTTL(ctx context.Context, key string, value V, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}
	if c.reject != nil && c.reject(value) {
		c.hooks.SetRejected(c.ns, key)
		c.log.Debug("Set skipped (rejected value)", Fields{"key": key})
		return nil
	}
	raw, err := c.codec.Encode(value)
	if err != nil {
		return &CodecError{Op: "encode", Key: key, Err: err}
	}
	evicted, err := c.store.Put(ctx, c.ns, key, raw, ttl, c.maxSize)
	if err != nil {
		c.hooks.StoreError(c.ns, "set", err)
		return &StoreError{Op: "set", Key: key, Err: err}
	}
	if evicted > 0 {
		c.hooks.EntriesEvicted(c.ns, evicted)
		c.log.Debug("evicted over-bound entries", Fields{"ns": c.ns, "evicted": evicted})
	}
	return nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	if err := c.store.Delete(ctx, c.ns, key); err != nil {
		c.hooks.StoreError(c.ns, "delete", err)
		return &StoreError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (c *cache[V]) Contains(ctx context.Context, key string) (bool, error) {
	if !c.enabled {
		return false, nil
	}
	ok, err := c.store.Contains(ctx, c.ns, key)
	if err != nil {
		c.hooks.StoreError(c.ns, "contains", err)
		return false, &StoreError{Op: "contains", Key: key, Err: err}
	}
	return ok, nil
}

func (c *cache[V]) Len(ctx context.Context) (int64, error) {
	if !c.enabled {
		return 0, nil
	}
	n, err := c.store.Len(ctx, c.ns)
	if err != nil {
		c.hooks.StoreError(c.ns, "len", err)
		return 0, &StoreError{Op: "len", Err: err}
	}
	return n, nil
}

func (c *cache[V]) Purge(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if err := c.store.Purge(ctx, c.ns); err != nil {
		c.hooks.StoreError(c.ns, "purge", err)
		return &StoreError{Op: "purge", Err: err}
	}
	c.log.Debug("purged namespace", Fields{"ns": c.ns})
	return nil
}
