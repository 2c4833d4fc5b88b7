// Package local implements store.Store in process memory. It exists for
// tests and for single-process deployments where a Redis round-trip is not
// worth it; semantics mirror the redis store (lazy expiry, coupled
// value/index bookkeeping) so a cache can switch between the two.
package local

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/lrudict/store"
)

type entry struct {
	key  string
	val  []byte
	exp  time.Time // zero => no expiry
	elem *list.Element
}

type namespace struct {
	entries map[string]*entry
	order   *list.List // front = least recently used
}

// Local keeps every namespace behind one mutex. Good enough for its role;
// callers needing contention relief should be on the redis store anyway.
type Local struct {
	mu  sync.Mutex
	nss map[string]*namespace
}

var _ store.Store = (*Local)(nil)

func New() *Local {
	return &Local{nss: make(map[string]*namespace)}
}

func (s *Local) ns(name string) *namespace {
	n, ok := s.nss[name]
	if !ok {
		n = &namespace{entries: make(map[string]*entry), order: list.New()}
		s.nss[name] = n
	}
	return n
}

// remove unlinks e from n. Caller holds the lock.
func (n *namespace) remove(e *entry) {
	n.order.Remove(e.elem)
	delete(n.entries, e.key)
}

func (n *namespace) expired(e *entry, now time.Time) bool {
	return !e.exp.IsZero() && now.After(e.exp)
}

func (s *Local) Fetch(_ context.Context, ns, key string, slide time.Duration) ([]byte, bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(ns)
	e, ok := n.entries[key]
	if !ok {
		return nil, false, nil
	}
	if n.expired(e, now) {
		n.remove(e) // lazy expiry, marker and value together
		return nil, false, nil
	}
	n.order.MoveToBack(e.elem)
	if slide > 0 {
		e.exp = now.Add(slide)
	}
	return e.val, true, nil
}

func (s *Local) Put(_ context.Context, ns, key string, value []byte, ttl time.Duration, maxSize int64) (int64, error) {
	now := time.Now()
	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	val := append([]byte(nil), value...) // detach from caller

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.ns(ns)
	if e, ok := n.entries[key]; ok {
		e.val, e.exp = val, exp
		n.order.MoveToBack(e.elem)
		return 0, nil
	}
	e := &entry{key: key, val: val, exp: exp}
	e.elem = n.order.PushBack(e)
	n.entries[key] = e

	var evicted int64
	for int64(len(n.entries)) > maxSize {
		front := n.order.Front()
		if front == nil {
			break
		}
		n.remove(front.Value.(*entry))
		evicted++
	}
	return evicted, nil
}

func (s *Local) Delete(_ context.Context, ns, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.ns(ns)
	if e, ok := n.entries[key]; ok {
		n.remove(e)
	}
	return nil
}

func (s *Local) Contains(_ context.Context, ns, key string) (bool, error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.ns(ns)
	e, ok := n.entries[key]
	if !ok {
		return false, nil
	}
	if n.expired(e, now) {
		n.remove(e)
		return false, nil
	}
	return true, nil
}

func (s *Local) Len(_ context.Context, ns string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.ns(ns).order.Len()), nil
}

func (s *Local) Purge(_ context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nss, ns)
	return nil
}

func (s *Local) Close(context.Context) error { return nil }
