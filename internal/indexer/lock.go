package indexer

import "sync/atomic"

// IndexLock serializes library index runs. Acquisition never blocks:
// a contended TryAcquire reports failure so the caller can reject the
// second run (the MCP layer turns this into an "indexing in progress"
// error) instead of queueing writes against the same database.
type IndexLock struct {
	state atomic.Int32 // 0 = idle, 1 = indexing
}

// TryAcquire claims the lock if no index run currently holds it.
func (l *IndexLock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release returns the lock to idle. Only the caller that acquired the
// lock may release it.
func (l *IndexLock) Release() {
	l.state.Store(0)
}
