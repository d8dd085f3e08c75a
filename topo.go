package topo

import (
	"context"
	"fmt"
	"time"

	"github.com/topostreams/topo/filtration"
	"github.com/topostreams/topo/knn"
	"github.com/topostreams/topo/persistence"
	"github.com/topostreams/topo/streams"
)

// Result holds the output of a density filtration pipeline run.
type Result struct {
	// Diagrams indexed by homology dimension: Diagrams[0] holds component
	// pairs, Diagrams[1] (when computed) loop pairs. Values are on the
	// density scale: features are born at high density and die at low.
	Diagrams []persistence.Diagram

	// Points is the (scaled) point cloud the diagrams were computed from,
	// flat row-major.
	Points []float64

	// N and Dim describe the cloud shape.
	N, Dim int

	// Scaler maps scaled coordinates back to original units. Nil when
	// scaling was disabled.
	Scaler *filtration.Scaler
}

// Engine runs the topological analysis pipeline: k-nearest neighbors,
// density filtration, persistent homology, and stream candidate
// extraction. An Engine is immutable and safe for concurrent use.
type Engine struct {
	opts options
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	return &Engine{opts: applyOptions(optFns)}
}

// ComputeDensityDiagrams computes persistence diagrams of the density
// filtration over points, a flat row-major array of n rows with d
// features each. Local density is estimated from the distance to the
// k-th nearest neighbor; the filtration sweeps from dense regions to
// sparse ones, so long-lived H0 features are clusters that stay isolated
// across many density scales.
func (e *Engine) ComputeDensityDiagrams(ctx context.Context, points []float64, n, d int) (*Result, error) {
	start := time.Now()
	result, err := e.computeDiagrams(ctx, points, n, d)
	e.opts.metricsCollector.RecordPipeline(n, time.Since(start), err)
	e.opts.logger.LogPipeline(ctx, n, d, err)
	return result, err
}

func (e *Engine) computeDiagrams(ctx context.Context, points []float64, n, d int) (*Result, error) {
	if e.opts.neighbors < 1 {
		return nil, ErrInvalidNeighbors
	}
	if e.opts.maxDim < 0 || e.opts.maxDim > 1 {
		return nil, ErrInvalidMaxDim
	}
	if n < 2 {
		return nil, ErrEmptyCloud
	}
	if d < 1 || len(points) < n*d {
		return nil, &ErrInvalidCloudShape{N: n, Dim: d, Have: len(points)}
	}

	cloud := points[:n*d]
	var scaler *filtration.Scaler
	if e.opts.scale {
		var err error
		scaler, err = filtration.FitScaler(cloud, n, d)
		if err != nil {
			return nil, err
		}
		scaled := make([]float64, n*d)
		if err := scaler.Transform(cloud, scaled, n); err != nil {
			return nil, err
		}
		cloud = scaled
	}

	k := min(e.opts.neighbors, n-1)

	knnStart := time.Now()
	neighborDist := make([]float64, n*k)
	neighborIdx := make([]int32, n*k)
	err := knn.KNN(ctx, cloud, n, d, k, neighborDist, neighborIdx)
	e.opts.metricsCollector.RecordKNN(n, k, time.Since(knnStart), err)
	e.opts.logger.LogKNN(ctx, n, k, err)
	if err != nil {
		return nil, fmt.Errorf("knn: %w", err)
	}

	// Density from the kth-neighbor distance, negated so that dense
	// points enter the filtration first.
	kthDist := make([]float64, n)
	for i := 0; i < n; i++ {
		kthDist[i] = neighborDist[i*k+k-1]
	}
	vertexFilt := make([]float64, n)
	if err := filtration.Density(ctx, kthDist, vertexFilt); err != nil {
		return nil, fmt.Errorf("density filtration: %w", err)
	}

	edges, err := filtration.BuildEdges(neighborIdx, n, k, vertexFilt)
	if err != nil {
		return nil, fmt.Errorf("edge list: %w", err)
	}

	result := &Result{
		Points: cloud,
		N:      n,
		Dim:    d,
		Scaler: scaler,
	}

	h0Start := time.Now()
	births := make([]float64, n-1)
	deaths := make([]float64, n-1)
	pairs, err := persistence.H0(ctx, vertexFilt, edges, births, deaths)
	e.opts.metricsCollector.RecordPersistence(0, pairs, time.Since(h0Start), err)
	e.opts.logger.LogPersistence(ctx, 0, pairs, err)
	if err != nil {
		return nil, fmt.Errorf("h0 persistence: %w", err)
	}
	result.Diagrams = append(result.Diagrams,
		persistence.FromArrays(births, deaths, pairs).FlipNegated())

	if e.opts.maxDim >= 1 {
		h1, err := e.computeH1(ctx, neighborIdx, n, k, vertexFilt, edges)
		if err != nil {
			return nil, err
		}
		result.Diagrams = append(result.Diagrams, h1)
	}

	return result, nil
}

func (e *Engine) computeH1(ctx context.Context, neighborIdx []int32, n, k int, vertexFilt []float64, edges persistence.EdgeList) (persistence.Diagram, error) {
	tris, err := filtration.BuildTriangles(neighborIdx, n, k, vertexFilt)
	if err != nil {
		return nil, fmt.Errorf("triangle list: %w", err)
	}
	if tris.Len() == 0 {
		return persistence.Diagram{}, nil
	}

	h1Start := time.Now()
	births := make([]float64, tris.Len())
	deaths := make([]float64, tris.Len())
	pairs, err := persistence.H1(ctx, edges, tris, births, deaths)
	e.opts.metricsCollector.RecordPersistence(1, pairs, time.Since(h1Start), err)
	e.opts.logger.LogPersistence(ctx, 1, pairs, err)
	if err != nil {
		return nil, fmt.Errorf("h1 persistence: %w", err)
	}
	return persistence.FromArrays(births, deaths, pairs).FlipNegated(), nil
}

// ExtractCandidates extracts stream candidates from one of the result's
// diagrams, most persistent first. homologyDim selects the diagram.
func (e *Engine) ExtractCandidates(ctx context.Context, result *Result, homologyDim int, opts ...streams.Option) ([]streams.Candidate, error) {
	if result == nil || homologyDim < 0 || homologyDim >= len(result.Diagrams) {
		return nil, ErrInvalidMaxDim
	}

	start := time.Now()
	cands, err := streams.Extract(ctx, result.Diagrams[homologyDim], result.Points, result.N, result.Dim, homologyDim, opts...)
	e.opts.metricsCollector.RecordExtraction(len(cands), time.Since(start), err)
	e.opts.logger.LogExtraction(ctx, homologyDim, len(cands), err)
	if err != nil {
		return nil, err
	}
	return cands, nil
}
