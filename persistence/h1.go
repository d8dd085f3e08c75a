package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/topostreams/topo/status"
)

// edgeKey identifies an undirected edge by its normalized vertex pair.
type edgeKey struct {
	lo, hi int32
}

func makeEdgeKey(u, v int32) edgeKey {
	if u < v {
		return edgeKey{lo: u, hi: v}
	}
	return edgeKey{lo: v, hi: u}
}

// H1 computes finite H1 persistence pairs by reducing the triangle/edge
// boundary matrix over GF(2).
//
// Edges are ranked by ascending (filtration, index) and form the matrix
// rows; triangle columns are processed in the same order. A column whose
// reduction ends at a unique nonzero low row r pairs the cycle born at
// edge r with the current triangle; columns that reduce to zero kill
// nothing. Pairs with zero persistence (birth == death) are elided from
// the output. Every triangle edge must be present in the edge list.
//
// Pairs are written to outBirths/outDeaths in triangle processing order;
// the buffers must hold at least tris.Len() entries when triangles are
// present. The pair count is returned.
func H1(ctx context.Context, edges EdgeList, tris TriangleList, outBirths, outDeaths []float64) (int, error) {
	if err := edges.validate(); err != nil {
		return 0, err
	}
	if err := tris.validate(); err != nil {
		return 0, err
	}
	m := edges.Len()
	t := tris.Len()
	if t == 0 {
		return 0, nil
	}
	if len(outBirths) < t || len(outDeaths) < t {
		return 0, fmt.Errorf("persistence: %w: output buffers must hold %d pairs", status.ErrInvalidArgument, t)
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("persistence: %w: %w", status.ErrKernelFailure, err)
	}

	// Rank edges by (filtration, index); rank is the boundary-matrix row.
	edgeOrder := make([]int32, m)
	for i := range edgeOrder {
		edgeOrder[i] = int32(i)
	}
	sort.Slice(edgeOrder, func(a, b int) bool {
		ea, eb := edgeOrder[a], edgeOrder[b]
		if edges.Filt[ea] != edges.Filt[eb] {
			return edges.Filt[ea] < edges.Filt[eb]
		}
		return ea < eb
	})

	rowFilt := make([]float64, m)
	rowByPair := make(map[edgeKey]int32, m)
	for rank, ei := range edgeOrder {
		rowFilt[rank] = edges.Filt[ei]
		key := makeEdgeKey(edges.Src[ei], edges.Dst[ei])
		if _, ok := rowByPair[key]; !ok {
			// Duplicate edges keep their earliest row.
			rowByPair[key] = int32(rank)
		}
	}

	triOrder := make([]int32, t)
	for i := range triOrder {
		triOrder[i] = int32(i)
	}
	sort.Slice(triOrder, func(a, b int) bool {
		ta, tb := triOrder[a], triOrder[b]
		if tris.Filt[ta] != tris.Filt[tb] {
			return tris.Filt[ta] < tris.Filt[tb]
		}
		return ta < tb
	})

	// Reduction state, scoped to this call: reduced columns and the
	// row -> owning column lookup that makes low collisions O(1).
	columns := make([][]int32, 0, t)
	lowToCol := make(map[int32]int, t)

	count := 0
	for _, ti := range triOrder {
		v0, v1, v2 := tris.V0[ti], tris.V1[ti], tris.V2[ti]
		if v0 == v1 || v0 == v2 || v1 == v2 {
			return 0, fmt.Errorf("persistence: %w: triangle %d has repeated vertices", status.ErrInvalidArgument, ti)
		}

		col := make([]int32, 0, 3)
		for _, key := range [3]edgeKey{
			makeEdgeKey(v0, v1),
			makeEdgeKey(v0, v2),
			makeEdgeKey(v1, v2),
		} {
			row, ok := rowByPair[key]
			if !ok {
				return 0, fmt.Errorf("persistence: %w: triangle %d uses edge (%d, %d) absent from edge list",
					status.ErrInvalidArgument, ti, key.lo, key.hi)
			}
			col = append(col, row)
		}
		sort.Slice(col, func(a, b int) bool { return col[a] < col[b] })

		// Left-to-right reduction: add earlier columns until this one's
		// low is unique or the column vanishes.
		for len(col) > 0 {
			low := col[len(col)-1]
			owner, ok := lowToCol[low]
			if !ok {
				break
			}
			col = symmetricDifference(col, columns[owner])
		}

		if len(col) == 0 {
			// A cycle no supplied triangle ever fills; essential within
			// this complex, so no finite pair.
			continue
		}

		low := col[len(col)-1]
		lowToCol[low] = len(columns)
		columns = append(columns, col)

		birth, death := rowFilt[low], tris.Filt[ti]
		if birth == death {
			// Zero-persistence pair; carries no topological information.
			continue
		}
		outBirths[count] = birth
		outDeaths[count] = death
		count++
	}

	return count, nil
}

// symmetricDifference merges two ascending row-index sets over GF(2).
func symmetricDifference(a, b []int32) []int32 {
	out := make([]int32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
