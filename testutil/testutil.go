// Package testutil provides helpers for generating point clouds and exact
// neighbor ground truth in tests and benchmarks.
package testutil

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/topostreams/topo/internal/f64"
)

// Neighbor is an exact-search ground-truth entry.
type Neighbor struct {
	Index    int32
	Distance float64
}

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// GaussianPoints generates a row-major (n, d) point cloud with standard
// normal coordinates, as one flat backing array.
func (r *RNG) GaussianPoints(n, d int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]float64, n*d)
	for i := range points {
		points[i] = r.rand.NormFloat64()
	}
	return points
}

// UniformPoints generates a row-major (n, d) point cloud with coordinates
// in [0, 1).
func (r *RNG) UniformPoints(n, d int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]float64, n*d)
	for i := range points {
		points[i] = r.rand.Float64()
	}
	return points
}

// ShiftedCluster generates a Gaussian cluster of n points centered at the
// given offset per coordinate.
func (r *RNG) ShiftedCluster(n, d int, offset float64) []float64 {
	points := r.GaussianPoints(n, d)
	for i := range points {
		points[i] += offset
	}
	return points
}

// ExactNeighbors computes the ground-truth k nearest neighbors of point i
// by full sort, ascending (distance, index), self excluded. Distances are
// true Euclidean.
func ExactNeighbors(points []float64, n, d, i, k int) []Neighbor {
	all := make([]Neighbor, 0, n-1)
	row := points[i*d : (i+1)*d]
	for j := 0; j < n; j++ {
		if j == i {
			continue
		}
		all = append(all, Neighbor{
			Index:    int32(j),
			Distance: f64.L2(row, points[j*d:(j+1)*d]),
		})
	}
	sort.Slice(all, func(a, b int) bool {
		if all[a].Distance != all[b].Distance {
			return all[a].Distance < all[b].Distance
		}
		return all[a].Index < all[b].Index
	})
	if k < len(all) {
		all = all[:k]
	}
	return all
}
