// Package compute abstracts the parallel execution backend used by the
// kernels. A backend partitions an index range across device workers; the
// built-in CPU backend shards work over goroutines. Accelerator backends
// (CUDA, OpenCL) register themselves via Register.
package compute

import (
	"context"
	"sync"

	"github.com/topostreams/topo/status"
)

// Backend executes data-parallel work. It is responsible for worker
// scheduling only; all buffers stay host-resident from the caller's view.
type Backend interface {
	// Name identifies the backend ("cpu", "cuda", ...).
	Name() string

	// Available reports whether the backend can run work on this system.
	Available() bool

	// Dispatch runs fn over the range [0, n), partitioned into contiguous
	// shards. fn may be invoked concurrently from multiple workers; shards
	// never overlap. Dispatch blocks until all shards complete or ctx is
	// canceled.
	Dispatch(ctx context.Context, n int, fn func(lo, hi int)) error
}

var (
	backendMu sync.RWMutex
	backend   Backend = NewCPU(0)
)

// Register installs b as the process-wide backend. Passing nil clears the
// registration, after which Current returns false.
func Register(b Backend) {
	backendMu.Lock()
	backend = b
	backendMu.Unlock()
}

// Current returns the registered backend, if any.
func Current() (Backend, bool) {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	if b == nil {
		return nil, false
	}
	return b, true
}

// Dispatch runs fn on the registered backend, failing with
// status.ErrBackendUnavailable when none is registered or the registered
// backend reports itself unavailable.
func Dispatch(ctx context.Context, n int, fn func(lo, hi int)) error {
	b, ok := Current()
	if !ok || !b.Available() {
		return status.ErrBackendUnavailable
	}
	return b.Dispatch(ctx, n, fn)
}
