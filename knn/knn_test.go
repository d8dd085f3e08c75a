package knn

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topostreams/topo/status"
	"github.com/topostreams/topo/testutil"
)

func TestKNNMatchesExactSearch(t *testing.T) {
	rng := testutil.NewRNG(42)
	const n, d, k = 100, 5, 10
	points := rng.GaussianPoints(n, d)

	outDist := make([]float64, n*k)
	outIdx := make([]int32, n*k)
	require.NoError(t, KNN(context.Background(), points, n, d, k, outDist, outIdx))

	for i := 0; i < n; i++ {
		ref := testutil.ExactNeighbors(points, n, d, i, k)
		for r := 0; r < k; r++ {
			assert.Equal(t, ref[r].Index, outIdx[i*k+r], "point %d rank %d", i, r)
			assert.InDelta(t, ref[r].Distance, outDist[i*k+r], 1e-12, "point %d rank %d", i, r)
		}
	}
}

func TestKNNUnitSquare(t *testing.T) {
	points := []float64{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}
	const n, d, k = 4, 2, 2

	outDist := make([]float64, n*k)
	outIdx := make([]int32, n*k)
	require.NoError(t, KNN(context.Background(), points, n, d, k, outDist, outIdx))

	for i := 0; i < n; i++ {
		// Row ascending, self never present.
		assert.LessOrEqual(t, outDist[i*k], outDist[i*k+1], "row %d", i)
		for r := 0; r < k; r++ {
			assert.NotEqual(t, int32(i), outIdx[i*k+r], "row %d", i)
		}
		// Both nearest neighbors of a square corner sit at distance 1.
		assert.InDelta(t, 1.0, outDist[i*k], 1e-12)
		assert.InDelta(t, 1.0, outDist[i*k+1], 1e-12)
	}

	// Equal distances resolve by ascending index.
	assert.Equal(t, int32(1), outIdx[0])
	assert.Equal(t, int32(2), outIdx[1])
}

func TestKNNFullNeighborhood(t *testing.T) {
	rng := testutil.NewRNG(7)
	const n, d = 20, 3
	k := n - 1
	points := rng.GaussianPoints(n, d)

	outDist := make([]float64, n*k)
	outIdx := make([]int32, n*k)
	require.NoError(t, KNN(context.Background(), points, n, d, k, outDist, outIdx))

	for i := 0; i < n; i++ {
		seen := make(map[int32]bool, k)
		for r := 0; r < k; r++ {
			seen[outIdx[i*k+r]] = true
			if r > 0 {
				assert.LessOrEqual(t, outDist[i*k+r-1], outDist[i*k+r])
			}
		}
		assert.Len(t, seen, k)
		assert.False(t, seen[int32(i)])
	}
}

func TestKNNDeterminism(t *testing.T) {
	rng := testutil.NewRNG(1)
	const n, d, k = 64, 4, 8
	points := rng.GaussianPoints(n, d)

	distA := make([]float64, n*k)
	idxA := make([]int32, n*k)
	require.NoError(t, KNN(context.Background(), points, n, d, k, distA, idxA))

	for run := 0; run < 3; run++ {
		distB := make([]float64, n*k)
		idxB := make([]int32, n*k)
		require.NoError(t, KNN(context.Background(), points, n, d, k, distB, idxB))
		assert.Equal(t, idxA, idxB)
		assert.Equal(t, distA, distB)
	}
}

func TestKNNInvalidArguments(t *testing.T) {
	points := []float64{0, 0, 1, 1}
	out := make([]float64, 4)
	idx := make([]int32, 4)

	tests := []struct {
		name    string
		n, d, k int
	}{
		{"ZeroN", 0, 2, 1},
		{"ZeroD", 2, 0, 1},
		{"NegativeK", 2, 2, -1},
		{"KTooLarge", 2, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := KNN(context.Background(), points, tt.n, tt.d, tt.k, out, idx)
			require.Error(t, err)
			assert.Equal(t, status.InvalidArgument, status.CodeOf(err))
		})
	}

	t.Run("ShortOutput", func(t *testing.T) {
		err := KNN(context.Background(), points, 2, 2, 1, make([]float64, 1), make([]int32, 1))
		require.Error(t, err)
		assert.Equal(t, status.InvalidArgument, status.CodeOf(err))
	})

	t.Run("KZeroIsNoop", func(t *testing.T) {
		require.NoError(t, KNN(context.Background(), points, 2, 2, 0, nil, nil))
	})
}

func TestKNNDistancesAreEuclidean(t *testing.T) {
	points := []float64{0, 0, 3, 4}
	outDist := make([]float64, 2)
	outIdx := make([]int32, 2)
	require.NoError(t, KNN(context.Background(), points, 2, 2, 1, outDist, outIdx))
	assert.InDelta(t, 5.0, outDist[0], 1e-12)
	assert.InDelta(t, 5.0, outDist[1], 1e-12)
	assert.False(t, math.IsNaN(outDist[0]))
}
