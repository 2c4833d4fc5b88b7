// Package sloghooks adapts lrudict.Hooks onto log/slog with sampling, so a
// hot namespace cannot flood the logs with one line per eviction.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/lrudict"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictEvery      uint64
	StoreErrorEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictCtr    atomic.Uint64
	storeErrCtr atomic.Uint64
}

var _ lrudict.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntriesEvicted(ns string, n int64) {
	if h.l == nil || !sample(h.opts.EvictEvery, &h.evictCtr) {
		return
	}
	h.l.Debug("lrudict.entries_evicted",
		"ns", ns,
		"count", n)
}

func (h *Hooks) SetRejected(ns, key string) {
	if h.l == nil {
		return
	}
	h.l.Debug("lrudict.set_rejected",
		"ns", ns,
		"key", h.redact(key))
}

func (h *Hooks) StoreError(ns, op string, err error) {
	if h.l == nil || !sample(h.opts.StoreErrorEvery, &h.storeErrCtr) {
		return
	}
	h.l.Warn("lrudict.store_error",
		"ns", ns,
		"op", op,
		"err", err)
}
