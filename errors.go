package lrudict

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound marks an absent or expired entry. Expected and
	// recoverable; callers typically fall through to the source of truth.
	ErrKeyNotFound = errors.New("lrudict: key not found")

	// ErrStoreUnavailable marks a backing-store failure. Matched through
	// StoreError via errors.Is; never returned bare.
	ErrStoreUnavailable = errors.New("lrudict: store unavailable")

	// ErrSerialization marks a value or argument the codec could not
	// encode or decode. Matched through CodecError via errors.Is.
	ErrSerialization = errors.New("lrudict: serialization failed")
)

// StoreError wraps a store failure with the operation and user key it hit.
// errors.Is(err, ErrStoreUnavailable) reports true for any StoreError.
type StoreError struct {
	Op  string // "get", "set", "delete", "contains", "len", "purge"
	Key string // empty for namespace-wide ops
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("lrudict: store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("lrudict: store %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

// CodecError wraps an encode/decode failure. Fatal for that operation;
// errors.Is(err, ErrSerialization) reports true for any CodecError.
type CodecError struct {
	Op  string // "encode" or "decode"
	Key string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("lrudict: %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

func (e *CodecError) Is(target error) bool { return target == ErrSerialization }
