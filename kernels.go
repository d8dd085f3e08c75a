package topo

import (
	"context"
	"time"

	"github.com/topostreams/topo/filtration"
	"github.com/topostreams/topo/knn"
	"github.com/topostreams/topo/persistence"
)

// KNN runs exact k-nearest-neighbor search with the engine's logging and
// metrics applied. See knn.KNN for the kernel contract.
func (e *Engine) KNN(ctx context.Context, points []float64, n, d, k int, outDist []float64, outIdx []int32) error {
	start := time.Now()
	err := knn.KNN(ctx, points, n, d, k, outDist, outIdx)
	e.opts.metricsCollector.RecordKNN(n, k, time.Since(start), err)
	e.opts.logger.LogKNN(ctx, n, k, err)
	return err
}

// RadiusQuery returns the indices of all points within radius of query.
// See knn.RadiusQuery for the kernel contract.
func (e *Engine) RadiusQuery(ctx context.Context, points, query []float64, n, d int, radius float64, outIndices []int32) (int, error) {
	count, err := knn.RadiusQuery(ctx, points, query, n, d, radius, outIndices)
	if err != nil {
		e.opts.logger.ErrorContext(ctx, "radius query failed", "points", n, "radius", radius, "error", err)
		return count, err
	}
	e.opts.logger.DebugContext(ctx, "radius query completed", "points", n, "radius", radius, "matches", count)
	return count, nil
}

// Density applies the density filtration transform to kth-neighbor
// distances. See filtration.Density for the kernel contract.
func (e *Engine) Density(ctx context.Context, kthDist, out []float64) error {
	return filtration.Density(ctx, kthDist, out)
}

// PersistenceH0 computes dimension-0 persistence pairs with the engine's
// logging and metrics applied. See persistence.H0 for the kernel contract.
func (e *Engine) PersistenceH0(ctx context.Context, vertexFilt []float64, edges persistence.EdgeList, outBirths, outDeaths []float64) (int, error) {
	start := time.Now()
	pairs, err := persistence.H0(ctx, vertexFilt, edges, outBirths, outDeaths)
	e.opts.metricsCollector.RecordPersistence(0, pairs, time.Since(start), err)
	e.opts.logger.LogPersistence(ctx, 0, pairs, err)
	return pairs, err
}

// PersistenceH1 computes dimension-1 persistence pairs with the engine's
// logging and metrics applied. See persistence.H1 for the kernel contract.
func (e *Engine) PersistenceH1(ctx context.Context, edges persistence.EdgeList, tris persistence.TriangleList, outBirths, outDeaths []float64) (int, error) {
	start := time.Now()
	pairs, err := persistence.H1(ctx, edges, tris, outBirths, outDeaths)
	e.opts.metricsCollector.RecordPersistence(1, pairs, time.Since(start), err)
	e.opts.logger.LogPersistence(ctx, 1, pairs, err)
	return pairs, err
}
