package filtration

import (
	"fmt"
	"sort"

	"github.com/topostreams/topo/persistence"
	"github.com/topostreams/topo/status"
)

// BuildEdges constructs a deduplicated edge list from row-major kNN
// indices (n rows of k neighbors). Each undirected pair appears once, in
// the order it is first encountered scanning rows; the edge filtration is
// the max of the two endpoint filtrations.
func BuildEdges(indices []int32, n, k int, vertexFilt []float64) (persistence.EdgeList, error) {
	if err := validateGraph(indices, n, k, vertexFilt); err != nil {
		return persistence.EdgeList{}, err
	}

	edges := persistence.EdgeList{
		Src:  make([]int32, 0, n*k),
		Dst:  make([]int32, 0, n*k),
		Filt: make([]float64, 0, n*k),
	}
	seen := make(map[[2]int32]struct{}, n*k)
	for i := 0; i < n; i++ {
		src := int32(i)
		for r := 0; r < k; r++ {
			dst := indices[i*k+r]
			if dst < 0 || dst >= int32(n) {
				return persistence.EdgeList{}, fmt.Errorf(
					"filtration: %w: neighbor index %d out of range [0, %d)",
					status.ErrInvalidArgument, dst, n)
			}
			if dst == src {
				continue
			}
			key := edgeKey(src, dst)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges.Src = append(edges.Src, src)
			edges.Dst = append(edges.Dst, dst)
			edges.Filt = append(edges.Filt, max(vertexFilt[src], vertexFilt[dst]))
		}
	}
	return edges, nil
}

// BuildTriangles enumerates triangles in the kNN graph: for every graph
// edge (i, j) with i < j, each common neighbor c > j of both endpoints
// spans the triangle (i, j, c). The triangle filtration is the max of the
// three vertex filtrations. Neighbor relations are treated as symmetric.
// Output order is deterministic: ascending (i, j, c).
func BuildTriangles(indices []int32, n, k int, vertexFilt []float64) (persistence.TriangleList, error) {
	if err := validateGraph(indices, n, k, vertexFilt); err != nil {
		return persistence.TriangleList{}, err
	}

	adj, err := neighborSets(indices, n, k)
	if err != nil {
		return persistence.TriangleList{}, err
	}

	var tris persistence.TriangleList
	common := make([]int32, 0, k)
	for i := 0; i < n; i++ {
		for _, j := range adj[i] {
			if j <= int32(i) {
				continue
			}
			common = intersect(adj[i], adj[j], common[:0])
			for _, c := range common {
				if c <= j {
					continue
				}
				tris.V0 = append(tris.V0, int32(i))
				tris.V1 = append(tris.V1, j)
				tris.V2 = append(tris.V2, c)
				tris.Filt = append(tris.Filt,
					max(max(vertexFilt[i], vertexFilt[j]), vertexFilt[c]))
			}
		}
	}
	return tris, nil
}

func validateGraph(indices []int32, n, k int, vertexFilt []float64) error {
	if n < 0 || k < 0 {
		return fmt.Errorf("filtration: %w: n=%d, k=%d", status.ErrInvalidArgument, n, k)
	}
	if len(indices) < n*k {
		return fmt.Errorf("filtration: %w: indices length %d, need %d",
			status.ErrInvalidArgument, len(indices), n*k)
	}
	if len(vertexFilt) < n {
		return fmt.Errorf("filtration: %w: vertex filtration length %d, need %d",
			status.ErrInvalidArgument, len(vertexFilt), n)
	}
	return nil
}

// neighborSets builds sorted, deduplicated, symmetric adjacency lists.
func neighborSets(indices []int32, n, k int) ([][]int32, error) {
	adj := make([][]int32, n)
	for i := 0; i < n; i++ {
		for r := 0; r < k; r++ {
			j := indices[i*k+r]
			if j < 0 || j >= int32(n) {
				return nil, fmt.Errorf("filtration: %w: neighbor index %d out of range [0, %d)",
					status.ErrInvalidArgument, j, n)
			}
			if j == int32(i) {
				continue
			}
			adj[i] = append(adj[i], j)
			adj[int(j)] = append(adj[int(j)], int32(i))
		}
	}
	for i := range adj {
		sort.Slice(adj[i], func(a, b int) bool { return adj[i][a] < adj[i][b] })
		adj[i] = dedupSorted(adj[i])
	}
	return adj, nil
}

func dedupSorted(s []int32) []int32 {
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != s[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// intersect appends the intersection of two ascending lists to dst.
func intersect(a, b, dst []int32) []int32 {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			dst = append(dst, a[i])
			i++
			j++
		}
	}
	return dst
}

func edgeKey(u, v int32) [2]int32 {
	if u < v {
		return [2]int32{u, v}
	}
	return [2]int32{v, u}
}

