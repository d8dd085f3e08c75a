package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/topostreams/topo/status"
)

// unionFind is the per-call disjoint-set forest used by the H0 sweep. Each
// root carries the minimum vertex filtration seen in its component.
type unionFind struct {
	parent []int32
	birth  []float64
}

func newUnionFind(vertexFilt []float64) *unionFind {
	n := len(vertexFilt)
	uf := &unionFind{
		parent: make([]int32, n),
		birth:  make([]float64, n),
	}
	for i := 0; i < n; i++ {
		uf.parent[i] = int32(i)
		uf.birth[i] = vertexFilt[i]
	}
	return uf
}

// find walks to the root with path halving.
func (uf *unionFind) find(v int32) int32 {
	for uf.parent[v] != v {
		uf.parent[v] = uf.parent[uf.parent[v]]
		v = uf.parent[v]
	}
	return v
}

// H0 computes the finite H0 persistence pairs of the growing complex: the
// merge tree of components over filtration-sorted edges.
//
// vertexFilt holds the birth time of each of the n vertices. Edges are
// processed in ascending (filtration, edge index) order; when an edge
// merges two components, the component with the larger birth dies at the
// edge's filtration value. The last surviving component is the essential
// class and is never reported.
//
// Pairs are written to outBirths/outDeaths, which must hold at least n-1
// entries; the pair count is returned. On error the buffers are
// unspecified.
func H0(ctx context.Context, vertexFilt []float64, edges EdgeList, outBirths, outDeaths []float64) (int, error) {
	n := len(vertexFilt)
	m := edges.Len()

	if n < 1 {
		return 0, fmt.Errorf("persistence: %w: need at least one vertex", status.ErrInvalidArgument)
	}
	if err := edges.validate(); err != nil {
		return 0, err
	}
	for i := 0; i < m; i++ {
		if edges.Src[i] < 0 || int(edges.Src[i]) >= n || edges.Dst[i] < 0 || int(edges.Dst[i]) >= n {
			return 0, fmt.Errorf("persistence: %w: edge %d references vertex out of [0, %d)",
				status.ErrInvalidArgument, i, n)
		}
	}
	if n > 1 && (len(outBirths) < n-1 || len(outDeaths) < n-1) {
		return 0, fmt.Errorf("persistence: %w: output buffers must hold %d pairs", status.ErrInvalidArgument, n-1)
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("persistence: %w: %w", status.ErrKernelFailure, err)
	}

	// Phase 1: order edges by (filtration, index). The comparison encodes
	// the tie-break directly, so a plain sort is already deterministic.
	order := make([]int32, m)
	for i := range order {
		order[i] = int32(i)
	}
	sort.Slice(order, func(a, b int) bool {
		ea, eb := order[a], order[b]
		if edges.Filt[ea] != edges.Filt[eb] {
			return edges.Filt[ea] < edges.Filt[eb]
		}
		return ea < eb
	})

	// Phase 2: sequential union-find sweep. Each merge depends on the
	// previous ones; this pass must not be parallelized.
	uf := newUnionFind(vertexFilt)
	count := 0
	merges := 0
	for _, ei := range order {
		if merges == n-1 {
			break
		}
		ru := uf.find(edges.Src[ei])
		rv := uf.find(edges.Dst[ei])
		if ru == rv {
			// Cycle edge: an H1 event, not an H0 one.
			continue
		}

		// The younger component (larger birth) dies here. Equal births
		// keep the smaller root index as survivor for determinism.
		survivor, victim := ru, rv
		if uf.birth[rv] < uf.birth[ru] || (uf.birth[rv] == uf.birth[ru] && rv < ru) {
			survivor, victim = rv, ru
		}

		outBirths[count] = uf.birth[victim]
		outDeaths[count] = edges.Filt[ei]
		count++

		uf.parent[victim] = survivor
		merges++
	}

	return count, nil
}
