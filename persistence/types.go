// Package persistence computes persistent homology in dimensions 0 and 1
// from weighted edge and triangle lists. H0 uses union-find over
// filtration-sorted edges; H1 reduces a GF(2) boundary matrix of triangle
// columns over edge rows.
package persistence

import (
	"fmt"
	"math"

	"github.com/topostreams/topo/status"
)

// EdgeList is a weighted edge list in struct-of-arrays layout. Entry i is
// the undirected edge (Src[i], Dst[i]) appearing at filtration Filt[i].
type EdgeList struct {
	Src  []int32
	Dst  []int32
	Filt []float64
}

// Len returns the number of edges.
func (e EdgeList) Len() int { return len(e.Src) }

func (e EdgeList) validate() error {
	if len(e.Dst) != len(e.Src) || len(e.Filt) != len(e.Src) {
		return fmt.Errorf("persistence: %w: edge arrays have mismatched lengths %d/%d/%d",
			status.ErrInvalidArgument, len(e.Src), len(e.Dst), len(e.Filt))
	}
	return nil
}

// TriangleList is a weighted triangle list in struct-of-arrays layout.
type TriangleList struct {
	V0   []int32
	V1   []int32
	V2   []int32
	Filt []float64
}

// Len returns the number of triangles.
func (t TriangleList) Len() int { return len(t.V0) }

func (t TriangleList) validate() error {
	if len(t.V1) != len(t.V0) || len(t.V2) != len(t.V0) || len(t.Filt) != len(t.V0) {
		return fmt.Errorf("persistence: %w: triangle arrays have mismatched lengths %d/%d/%d/%d",
			status.ErrInvalidArgument, len(t.V0), len(t.V1), len(t.V2), len(t.Filt))
	}
	return nil
}

// Pair is a finite persistence pair: a feature born at Birth and destroyed
// at Death, with Birth <= Death.
type Pair struct {
	Birth float64
	Death float64
}

// Diagram is the set of finite persistence pairs of one homology dimension.
type Diagram []Pair

// Lifetimes returns death - birth for every finite pair.
func (d Diagram) Lifetimes() []float64 {
	out := make([]float64, 0, len(d))
	for _, p := range d {
		if math.IsInf(p.Death, 0) || math.IsInf(p.Birth, 0) {
			continue
		}
		out = append(out, p.Death-p.Birth)
	}
	return out
}

// FlipNegated converts a diagram computed on a negated filtration back to
// the original scale: (b, d) becomes (-d, -b). Used for superlevel-set
// density filtrations, which are run as sublevel sets of the negated
// density.
func (d Diagram) FlipNegated() Diagram {
	out := make(Diagram, len(d))
	for i, p := range d {
		out[i] = Pair{Birth: -p.Death, Death: -p.Birth}
	}
	return out
}

// FromArrays assembles a Diagram from parallel birth/death buffers.
func FromArrays(births, deaths []float64, count int) Diagram {
	d := make(Diagram, count)
	for i := 0; i < count; i++ {
		d[i] = Pair{Birth: births[i], Death: deaths[i]}
	}
	return d
}
