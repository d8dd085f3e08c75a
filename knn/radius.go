package knn

import (
	"context"
	"fmt"

	"github.com/topostreams/topo/compute"
	"github.com/topostreams/topo/internal/f64"
	"github.com/topostreams/topo/status"
)

// RadiusQuery finds all points within radius (inclusive) of the query
// point. Matching indices are compacted into outIndices in ascending index
// order and the match count is returned.
//
// outIndices must have capacity for n entries (worst case all points
// match). n == 0 is valid and returns 0 matches.
func RadiusQuery(ctx context.Context, points []float64, query []float64, n, d int, radius float64, outIndices []int32) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("knn: %w: n must be >= 0, got %d", status.ErrInvalidArgument, n)
	}
	if d < 1 {
		return 0, fmt.Errorf("knn: %w: d must be >= 1, got %d", status.ErrInvalidArgument, d)
	}
	if radius < 0 {
		return 0, fmt.Errorf("knn: %w: radius must be >= 0, got %v", status.ErrInvalidArgument, radius)
	}
	if n == 0 {
		return 0, nil
	}
	if len(points) < n*d {
		return 0, fmt.Errorf("knn: %w: points has %d values, need %d", status.ErrInvalidArgument, len(points), n*d)
	}
	if len(query) < d {
		return 0, fmt.Errorf("knn: %w: query has %d values, need %d", status.ErrInvalidArgument, len(query), d)
	}
	if len(outIndices) < n {
		return 0, fmt.Errorf("knn: %w: outIndices must hold %d entries", status.ErrInvalidArgument, n)
	}

	q := query[:d]
	r2 := radius * radius

	// Parallel distance test, then a single compaction pass so the output
	// order is a deterministic function of the inputs.
	match := make([]bool, n)
	err := compute.Dispatch(ctx, n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			if f64.SquaredL2(q, points[i*d:(i+1)*d]) <= r2 {
				match[i] = true
			}
		}
	})
	if err != nil {
		return 0, err
	}

	count := 0
	for i := 0; i < n; i++ {
		if match[i] {
			outIndices[count] = int32(i)
			count++
		}
	}
	return count, nil
}
