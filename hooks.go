package lrudict

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A Set pushed the namespace over MaxSize and evicted n entries.
	EntriesEvicted(namespace string, n int64)

	// Set skipped a value the Reject predicate refused.
	SetRejected(namespace, key string)

	// The store failed. op mirrors StoreError.Op.
	StoreError(namespace, op string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) EntriesEvicted(string, int64)     {}
func (NopHooks) SetRejected(string, string)       {}
func (NopHooks) StoreError(string, string, error) {}
