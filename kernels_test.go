package topo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topostreams/topo/persistence"
)

func TestEngineKNN(t *testing.T) {
	engine := New()

	// Three collinear points; nearest neighbor of the middle point ties
	// broken by index.
	points := []float64{0, 1, 3}
	outDist := make([]float64, 3)
	outIdx := make([]int32, 3)
	err := engine.KNN(context.Background(), points, 3, 1, 1, outDist, outIdx)
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 0, 1}, outIdx)
	assert.Equal(t, []float64{1, 1, 2}, outDist)
}

func TestEngineRadiusQuery(t *testing.T) {
	engine := New()

	points := []float64{0, 1, 3, 10}
	out := make([]int32, 4)
	count, err := engine.RadiusQuery(context.Background(), points, []float64{0}, 4, 1, 3, out)
	require.NoError(t, err)

	assert.Equal(t, 3, count)
	assert.Equal(t, []int32{0, 1, 2}, out[:count])
}

func TestEngineDensity(t *testing.T) {
	engine := New()

	out := make([]float64, 3)
	err := engine.Density(context.Background(), []float64{1, 2, 0}, out)
	require.NoError(t, err)

	assert.Equal(t, []float64{-1, -0.5, -1e10}, out)
}

func TestEnginePersistenceH0RecordsMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	engine := New(WithMetricsCollector(metrics))

	vertexFilt := []float64{0, 1, 2}
	edges := persistence.EdgeList{
		Src:  []int32{0, 1},
		Dst:  []int32{1, 2},
		Filt: []float64{1, 2},
	}
	births := make([]float64, 2)
	deaths := make([]float64, 2)
	pairs, err := engine.PersistenceH0(context.Background(), vertexFilt, edges, births, deaths)
	require.NoError(t, err)

	assert.Equal(t, 2, pairs)
	assert.Equal(t, int64(1), metrics.GetStats().PersistenceCount)
}

func TestEnginePersistenceH1(t *testing.T) {
	engine := New()

	// A single triangle whose boundary is born when the last side closes
	// the loop and dies when the face fills in.
	edges := persistence.EdgeList{
		Src:  []int32{0, 1, 0},
		Dst:  []int32{1, 2, 2},
		Filt: []float64{1, 2, 3},
	}
	tris := persistence.TriangleList{
		V0:   []int32{0},
		V1:   []int32{1},
		V2:   []int32{2},
		Filt: []float64{5},
	}
	births := make([]float64, 1)
	deaths := make([]float64, 1)
	pairs, err := engine.PersistenceH1(context.Background(), edges, tris, births, deaths)
	require.NoError(t, err)

	require.Equal(t, 1, pairs)
	assert.Equal(t, 3.0, births[0])
	assert.Equal(t, 5.0, deaths[0])
}
