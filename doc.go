// Package topo computes persistent homology on phase-space point clouds
// to find stellar stream candidates.
//
// The pipeline estimates local density from k-nearest-neighbor distances,
// builds a filtration over the kNN graph, and computes H0 (components)
// and H1 (loops) persistence diagrams. Features whose lifetime rises well
// above the noise floor correspond to kinematically coherent structures.
//
// # Quick Start
//
//	ctx := context.Background()
//	engine := topo.New(topo.WithNeighbors(32))
//
//	result, _ := engine.ComputeDensityDiagrams(ctx, points, n, dim)
//	candidates, _ := engine.ExtractCandidates(ctx, result, 0,
//	    streams.WithSigmaThreshold(3.0))
//	for _, c := range candidates {
//	    fmt.Println(c.Persistence, c.Members.GetCardinality())
//	}
//
// # Determinism
//
// Every stage produces bit-identical output for identical input,
// regardless of worker count: parallel phases write only to disjoint
// caller-indexed positions, and all orderings break ties by index.
//
// # Compute Backends
//
// Kernels run on a pluggable compute backend (see the compute package).
// The built-in CPU backend shards work across goroutines; accelerator
// backends can be registered at startup.
//
// # Key Features
//
//   - Exact brute-force kNN and radius queries
//   - Density-based superlevel-set filtration
//   - H0 persistence via union-find, H1 via boundary-matrix reduction
//   - Stream candidate extraction with significance thresholds
//   - Batch worker for queue-driven processing (see the worker package)
package topo
