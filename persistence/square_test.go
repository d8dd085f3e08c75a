package persistence

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit square with both diagonals, filtered by edge length: four sides at
// 1, two diagonals at sqrt(2), and the four triangles each diagonal cuts
// out. The classic sanity check: three components die at 1, one loop
// survives from 1 until the diagonals fill it at sqrt(2).
func unitSquareComplex() ([]float64, EdgeList, TriangleList) {
	sqrt2 := math.Sqrt2
	vertexFilt := []float64{0, 0, 0, 0}
	edges := EdgeList{
		Src:  []int32{0, 0, 1, 2, 0, 1},
		Dst:  []int32{1, 2, 3, 3, 3, 2},
		Filt: []float64{1, 1, 1, 1, sqrt2, sqrt2},
	}
	tris := TriangleList{
		V0:   []int32{0, 0, 0, 1},
		V1:   []int32{1, 2, 1, 2},
		V2:   []int32{3, 3, 2, 3},
		Filt: []float64{sqrt2, sqrt2, sqrt2, sqrt2},
	}
	return vertexFilt, edges, tris
}

func TestUnitSquareH0(t *testing.T) {
	vertexFilt, edges, _ := unitSquareComplex()

	births := make([]float64, 3)
	deaths := make([]float64, 3)
	count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	for i := 0; i < count; i++ {
		assert.Equal(t, 0.0, births[i])
		assert.Equal(t, 1.0, deaths[i])
	}
}

func TestUnitSquareH1(t *testing.T) {
	_, edges, tris := unitSquareComplex()

	births := make([]float64, tris.Len())
	deaths := make([]float64, tris.Len())
	count, err := H1(context.Background(), edges, tris, births, deaths)
	require.NoError(t, err)

	// The square loop is born with its last side and dies when the first
	// diagonal triangle fills it; the diagonals' own loops have zero
	// persistence and are dropped.
	require.Equal(t, 1, count)
	assert.Equal(t, 1.0, births[0])
	assert.Equal(t, math.Sqrt2, deaths[0])
}
