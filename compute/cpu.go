package compute

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/topostreams/topo/status"
)

// CPU is the built-in backend. It shards index ranges across GOMAXPROCS
// goroutines; a weighted semaphore bounds the total worker count across
// concurrent dispatches so that independent calls stay safe without
// oversubscribing the host.
type CPU struct {
	workers int
	sem     *semaphore.Weighted
}

// NewCPU creates a CPU backend with the given worker count.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func NewCPU(workers int) *CPU {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPU{
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
	}
}

func (*CPU) Name() string { return "cpu" }

// Available always reports true; the host CPU is always present.
func (*CPU) Available() bool { return true }

// Dispatch partitions [0, n) into at most `workers` contiguous shards and
// runs them on an errgroup. A panic inside fn is reported as a kernel
// failure rather than crossing the API boundary.
func (c *CPU) Dispatch(ctx context.Context, n int, fn func(lo, hi int)) error {
	if n <= 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", status.ErrKernelFailure, err)
	}

	shards := c.workers
	if shards > n {
		shards = n
	}
	chunk := (n + shards - 1) / shards

	g, gctx := errgroup.WithContext(ctx)
	for lo := 0; lo < n; lo += chunk {
		lo := lo
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if err := c.sem.Acquire(gctx, 1); err != nil {
			_ = g.Wait()
			return fmt.Errorf("%w: %w", status.ErrKernelFailure, err)
		}
		g.Go(func() (err error) {
			defer c.sem.Release(1)
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker panic: %v", status.ErrKernelFailure, r)
				}
			}()
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
