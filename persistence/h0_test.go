package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestH0PathGraph(t *testing.T) {
	// 0 - 1 - 2 - 3 with ascending edge weights; every merge joins two
	// components born at filtration zero.
	vertexFilt := []float64{0, 0, 0, 0}
	edges := EdgeList{
		Src:  []int32{0, 1, 2},
		Dst:  []int32{1, 2, 3},
		Filt: []float64{1.0, 2.0, 3.0},
	}

	births := make([]float64, 3)
	deaths := make([]float64, 3)
	count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	for i := 0; i < count; i++ {
		assert.Equal(t, 0.0, births[i])
	}
	assert.Equal(t, []float64{1.0, 2.0, 3.0}, deaths[:count])
}

func TestH0CompleteGraphSpanningForest(t *testing.T) {
	// K4 with distinct weights: exactly n-1 merges, the remaining edges
	// close cycles and produce no pairs.
	vertexFilt := []float64{0, 0, 0, 0}
	edges := EdgeList{
		Src:  []int32{0, 0, 0, 1, 1, 2},
		Dst:  []int32{1, 2, 3, 2, 3, 3},
		Filt: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6},
	}

	births := make([]float64, 3)
	deaths := make([]float64, 3)
	count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, deaths[:count])
}

func TestH0YoungerComponentDies(t *testing.T) {
	// Vertex 1 is born later; when the edge joins the two components the
	// younger one supplies the birth.
	vertexFilt := []float64{1.0, 5.0}
	edges := EdgeList{
		Src:  []int32{0},
		Dst:  []int32{1},
		Filt: []float64{7.0},
	}

	births := make([]float64, 1)
	deaths := make([]float64, 1)
	count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	assert.Equal(t, 5.0, births[0])
	assert.Equal(t, 7.0, deaths[0])
}

func TestH0BirthNeverExceedsDeath(t *testing.T) {
	vertexFilt := []float64{0.5, 1.5, 0.25, 2.0, 1.0}
	edges := EdgeList{
		Src:  []int32{0, 1, 2, 3, 0},
		Dst:  []int32{1, 2, 3, 4, 4},
		Filt: []float64{2.5, 3.0, 2.25, 4.0, 5.0},
	}

	births := make([]float64, 4)
	deaths := make([]float64, 4)
	count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)
	require.Equal(t, 4, count)
	for i := 0; i < count; i++ {
		assert.LessOrEqual(t, births[i], deaths[i])
	}
}

func TestH0SingleVertex(t *testing.T) {
	count, err := H0(context.Background(), []float64{1.0}, EdgeList{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestH0Deterministic(t *testing.T) {
	vertexFilt := []float64{0.3, 0.1, 0.7, 0.2, 0.9, 0.4}
	edges := EdgeList{
		Src:  []int32{0, 1, 2, 3, 4, 0, 1, 2},
		Dst:  []int32{1, 2, 3, 4, 5, 3, 4, 5},
		Filt: []float64{1.0, 1.0, 2.0, 1.5, 1.5, 3.0, 2.5, 4.0},
	}

	refB := make([]float64, 5)
	refD := make([]float64, 5)
	refCount, err := H0(context.Background(), vertexFilt, edges, refB, refD)
	require.NoError(t, err)

	for run := 0; run < 3; run++ {
		births := make([]float64, 5)
		deaths := make([]float64, 5)
		count, err := H0(context.Background(), vertexFilt, edges, births, deaths)
		require.NoError(t, err)
		require.Equal(t, refCount, count)
		assert.Equal(t, refB[:refCount], births[:count])
		assert.Equal(t, refD[:refCount], deaths[:count])
	}
}

func TestH0InvalidArguments(t *testing.T) {
	valid := EdgeList{Src: []int32{0}, Dst: []int32{1}, Filt: []float64{1.0}}

	tests := []struct {
		name       string
		vertexFilt []float64
		edges      EdgeList
		births     []float64
		deaths     []float64
	}{
		{
			name:   "no vertices",
			edges:  EdgeList{},
			births: nil, deaths: nil,
		},
		{
			name:       "mismatched edge arrays",
			vertexFilt: []float64{0, 0},
			edges:      EdgeList{Src: []int32{0}, Dst: []int32{1}, Filt: nil},
			births:     make([]float64, 1), deaths: make([]float64, 1),
		},
		{
			name:       "vertex index out of range",
			vertexFilt: []float64{0, 0},
			edges:      EdgeList{Src: []int32{0}, Dst: []int32{5}, Filt: []float64{1.0}},
			births:     make([]float64, 1), deaths: make([]float64, 1),
		},
		{
			name:       "negative vertex index",
			vertexFilt: []float64{0, 0},
			edges:      EdgeList{Src: []int32{-1}, Dst: []int32{1}, Filt: []float64{1.0}},
			births:     make([]float64, 1), deaths: make([]float64, 1),
		},
		{
			name:       "output buffers too small",
			vertexFilt: []float64{0, 0},
			edges:      valid,
			births:     nil, deaths: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := H0(context.Background(), tc.vertexFilt, tc.edges, tc.births, tc.deaths)
			assert.Error(t, err)
		})
	}
}
