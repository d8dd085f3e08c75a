// Package filtration turns k-nearest-neighbor output into the simplicial
// input of the persistence kernels: density-based filtration values per
// vertex, a deduplicated edge list over the neighbor graph, and the
// triangles spanned by mutual neighbors.
package filtration

import (
	"context"
	"fmt"

	"github.com/topostreams/topo/compute"
	"github.com/topostreams/topo/status"
)

// distEpsilon guards the density estimate against zero kth-neighbor
// distances (duplicate points).
const distEpsilon = 1e-10

// Density fills out with superlevel-set filtration values derived from
// each point's distance to its k-th nearest neighbor:
//
//	out[i] = -1 / max(kthDist[i], 1e-10)
//
// Denser points get more negative values and therefore enter the
// filtration first. The work is sharded across the compute backend.
func Density(ctx context.Context, kthDist, out []float64) error {
	if len(out) < len(kthDist) {
		return fmt.Errorf("filtration: %w: output length %d, need %d",
			status.ErrInvalidArgument, len(out), len(kthDist))
	}
	if len(kthDist) == 0 {
		return nil
	}
	return compute.Dispatch(ctx, len(kthDist), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			d := kthDist[i]
			if d < distEpsilon {
				d = distEpsilon
			}
			out[i] = -1.0 / d
		}
	})
}
