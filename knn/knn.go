// Package knn implements exact brute-force neighbor search over row-major
// point arrays. The per-point work is dispatched on the registered compute
// backend; results are written into caller-provided buffers.
package knn

import (
	"context"
	"fmt"
	"math"

	"github.com/topostreams/topo/compute"
	"github.com/topostreams/topo/internal/f64"
	"github.com/topostreams/topo/queue"
	"github.com/topostreams/topo/status"
)

// KNN computes, for each of the n points, its k nearest other points by
// Euclidean distance, excluding itself.
//
// points holds n contiguous rows of d coordinates. outDist and outIdx are
// caller-allocated (n, k) row-major buffers; row i is written in ascending
// distance order, ties broken by ascending candidate index. On any
// non-nil error the output buffers are unspecified.
func KNN(ctx context.Context, points []float64, n, d, k int, outDist []float64, outIdx []int32) error {
	if n < 1 {
		return fmt.Errorf("knn: %w: n must be >= 1, got %d", status.ErrInvalidArgument, n)
	}
	if d < 1 {
		return fmt.Errorf("knn: %w: d must be >= 1, got %d", status.ErrInvalidArgument, d)
	}
	if k < 0 || k >= n {
		return fmt.Errorf("knn: %w: k must be in [0, n), got k=%d n=%d", status.ErrInvalidArgument, k, n)
	}
	if len(points) < n*d {
		return fmt.Errorf("knn: %w: points has %d values, need %d", status.ErrInvalidArgument, len(points), n*d)
	}
	if k == 0 {
		return nil
	}
	if len(outDist) < n*k || len(outIdx) < n*k {
		return fmt.Errorf("knn: %w: output buffers must hold %d entries", status.ErrInvalidArgument, n*k)
	}

	return compute.Dispatch(ctx, n, func(lo, hi int) {
		scratch := make([]queue.Candidate, k)
		for i := lo; i < hi; i++ {
			row := points[i*d : (i+1)*d]

			// Selection runs on squared distances; the square root is
			// monotone, so the (distance, index) order is unchanged.
			top := queue.NewTopK(k)
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				dist := f64.SquaredL2(row, points[j*d:(j+1)*d])
				top.Push(queue.Candidate{Index: int32(j), Distance: dist})
			}

			count := top.Drain(scratch)
			for r := 0; r < count; r++ {
				outDist[i*k+r] = math.Sqrt(scratch[r].Distance)
				outIdx[i*k+r] = scratch[r].Index
			}
		}
	})
}
