package local

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestPutEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	for _, k := range []string{"a", "b", "c"} {
		if _, err := s.Put(ctx, "ns", k, []byte(k), 0, 3); err != nil {
			t.Fatal(err)
		}
	}
	// touch "a" so "b" becomes the oldest
	if _, ok, err := s.Fetch(ctx, "ns", "a", 0); err != nil || !ok {
		t.Fatalf("Fetch a: ok=%v err=%v", ok, err)
	}

	evicted, err := s.Put(ctx, "ns", "d", []byte("d"), 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if evicted != 1 {
		t.Fatalf("evicted=%d want 1", evicted)
	}
	if _, ok, _ := s.Fetch(ctx, "ns", "b", 0); ok {
		t.Fatalf("'b' should be the eviction victim")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok, _ := s.Fetch(ctx, "ns", k, 0); !ok {
			t.Fatalf("%q should have survived", k)
		}
	}
}

func TestUpdateDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	for _, k := range []string{"a", "b", "c"} {
		if _, err := s.Put(ctx, "ns", k, []byte(k), 0, 3); err != nil {
			t.Fatal(err)
		}
	}
	// overwrite at the bound: count stays 3, nothing evicted
	evicted, err := s.Put(ctx, "ns", "a", []byte("a2"), 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	if evicted != 0 {
		t.Fatalf("overwrite evicted %d entries", evicted)
	}
	v, ok, err := s.Fetch(ctx, "ns", "a", 0)
	if err != nil || !ok || !bytes.Equal(v, []byte("a2")) {
		t.Fatalf("Fetch a: v=%q ok=%v err=%v", v, ok, err)
	}
	if n, _ := s.Len(ctx, "ns"); n != 3 {
		t.Fatalf("Len=%d want 3", n)
	}
}

func TestLazyExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, err := s.Put(ctx, "ns", "k", []byte("v"), 30*time.Millisecond, 10); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)

	// Len still counts the entry until something reads it.
	if n, _ := s.Len(ctx, "ns"); n != 1 {
		t.Fatalf("Len before read=%d want 1", n)
	}
	if _, ok, err := s.Fetch(ctx, "ns", "k", 0); err != nil || ok {
		t.Fatalf("Fetch expired: ok=%v err=%v", ok, err)
	}
	if n, _ := s.Len(ctx, "ns"); n != 0 {
		t.Fatalf("Len after read=%d want 0", n)
	}
}

func TestSlidingFetchRenewsExpiry(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, err := s.Put(ctx, "ns", "k", []byte("v"), 50*time.Millisecond, 10); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok, _ := s.Fetch(ctx, "ns", "k", 50*time.Millisecond); !ok {
		t.Fatalf("entry should still be live")
	}
	// Past the original deadline but inside the renewed one.
	time.Sleep(35 * time.Millisecond)
	if _, ok, _ := s.Fetch(ctx, "ns", "k", 0); !ok {
		t.Fatalf("sliding fetch should have renewed the expiry")
	}
}

func TestContainsLeavesRecencyAlone(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	for _, k := range []string{"a", "b"} {
		if _, err := s.Put(ctx, "ns", k, []byte(k), 0, 2); err != nil {
			t.Fatal(err)
		}
	}
	if ok, err := s.Contains(ctx, "ns", "a"); err != nil || !ok {
		t.Fatalf("Contains a: ok=%v err=%v", ok, err)
	}
	if _, err := s.Put(ctx, "ns", "c", []byte("c"), 0, 2); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Contains(ctx, "ns", "a"); ok {
		t.Fatalf("'a' should be evicted; Contains must not touch recency")
	}
}

func TestDeleteAndPurge(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	for _, k := range []string{"a", "b"} {
		if _, err := s.Put(ctx, "ns", k, []byte(k), 0, 10); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Delete(ctx, "ns", "a"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "ns", "a"); err != nil {
		t.Fatalf("double delete: %v", err)
	}
	if n, _ := s.Len(ctx, "ns"); n != 1 {
		t.Fatalf("Len after delete=%d want 1", n)
	}

	if err := s.Purge(ctx, "ns"); err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Len(ctx, "ns"); n != 0 {
		t.Fatalf("Len after purge=%d want 0", n)
	}
}

func TestPutDetachesValueFromCaller(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	buf := []byte("original")
	if _, err := s.Put(ctx, "ns", "k", buf, 0, 10); err != nil {
		t.Fatal(err)
	}
	copy(buf, "mutated!")

	v, ok, err := s.Fetch(ctx, "ns", "k", 0)
	if err != nil || !ok || !bytes.Equal(v, []byte("original")) {
		t.Fatalf("stored bytes were not detached: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestNamespacesAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := New()
	t.Cleanup(func() { _ = s.Close(ctx) })

	if _, err := s.Put(ctx, "one", "k", []byte("1"), 0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Put(ctx, "two", "k", []byte("2"), 0, 1); err != nil {
		t.Fatal(err)
	}
	v, ok, _ := s.Fetch(ctx, "one", "k", 0)
	if !ok || !bytes.Equal(v, []byte("1")) {
		t.Fatalf("namespace one: v=%q ok=%v", v, ok)
	}
	if err := s.Purge(ctx, "one"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Fetch(ctx, "two", "k", 0); !ok {
		t.Fatalf("purging one namespace must not drop another")
	}
}
