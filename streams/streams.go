// Package streams extracts stellar stream candidates from persistence
// diagrams. Features whose lifetime rises well above the noise floor
// correspond to groups of stars that stay connected across a wide range
// of density scales; their members are recovered with a radius query
// around the feature's representative point.
package streams

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/topostreams/topo/knn"
	"github.com/topostreams/topo/persistence"
	"github.com/topostreams/topo/status"
)

// Candidate is one extracted stream candidate.
type Candidate struct {
	// Members holds indices into the point cloud for member stars.
	Members *roaring.Bitmap

	// Persistence is the feature lifetime (Death - Birth).
	Persistence float64

	Birth float64
	Death float64

	// HomologyDim is 0 for connected components, 1 for loops.
	HomologyDim int
}

type config struct {
	threshold    float64
	hasThreshold bool
	sigma        float64
}

// Option customizes extraction.
type Option func(*config)

// WithPersistenceThreshold sets an absolute lifetime cutoff, bypassing
// the sigma-based noise estimate.
func WithPersistenceThreshold(t float64) Option {
	return func(c *config) {
		c.threshold = t
		c.hasThreshold = true
	}
}

// WithSigmaThreshold sets how many standard deviations above the mean
// lifetime a feature must reach to count as significant. Default 3.
func WithSigmaThreshold(sigma float64) Option {
	return func(c *config) { c.sigma = sigma }
}

// Extract returns the significant candidates of a diagram, most
// persistent first. points is the flat row-major cloud the diagram was
// computed from; members are recovered by querying all points within the
// feature's death scale of the representative point. Candidates with
// equal persistence keep their diagram order.
func Extract(ctx context.Context, diagram persistence.Diagram, points []float64, n, d, homologyDim int, opts ...Option) ([]Candidate, error) {
	cfg := config{sigma: 3.0}
	for _, opt := range opts {
		opt(&cfg)
	}

	finite := make([]int, 0, len(diagram))
	for i, p := range diagram {
		if !math.IsInf(p.Birth, 0) && !math.IsInf(p.Death, 0) {
			finite = append(finite, i)
		}
	}
	if len(finite) == 0 {
		return nil, nil
	}

	threshold := cfg.threshold
	if !cfg.hasThreshold {
		threshold = noiseFloor(diagram, finite, cfg.sigma)
	}

	var candidates []Candidate
	queryBuf := make([]int32, n)
	for _, i := range finite {
		p := diagram[i]
		life := p.Death - p.Birth
		if life <= threshold {
			continue
		}
		if i >= n {
			return nil, fmt.Errorf("streams: %w: diagram row %d has no representative point in cloud of %d",
				status.ErrInvalidArgument, i, n)
		}
		query := points[i*d : (i+1)*d]
		count, err := knn.RadiusQuery(ctx, points, query, n, d, p.Death, queryBuf)
		if err != nil {
			return nil, fmt.Errorf("streams: recover members: %w", err)
		}
		members := roaring.New()
		for _, idx := range queryBuf[:count] {
			members.Add(uint32(idx))
		}
		candidates = append(candidates, Candidate{
			Members:     members,
			Persistence: life,
			Birth:       p.Birth,
			Death:       p.Death,
			HomologyDim: homologyDim,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Persistence > candidates[b].Persistence
	})
	return candidates, nil
}

// noiseFloor estimates the significance cutoff as mean + sigma*std of
// the finite lifetimes.
func noiseFloor(diagram persistence.Diagram, finite []int, sigma float64) float64 {
	var mean float64
	for _, i := range finite {
		mean += diagram[i].Death - diagram[i].Birth
	}
	mean /= float64(len(finite))

	var variance float64
	for _, i := range finite {
		dv := (diagram[i].Death - diagram[i].Birth) - mean
		variance += dv * dv
	}
	std := math.Sqrt(variance / float64(len(finite)))
	return mean + sigma*std
}
