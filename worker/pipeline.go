package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/topostreams/topo"
	"github.com/topostreams/topo/codec"
	"github.com/topostreams/topo/streams"
)

// Region describes a sky region from the stream catalog, in galactic
// coordinates.
type Region struct {
	Name            string
	LMin, LMax      float64
	BMin, BMax      float64
	ExpectedMembers int
}

// Catalog maps stream keys to the known stream regions.
var Catalog = map[string]Region{
	"gd-1":            {Name: "GD-1", LMin: 135, LMax: 225, BMin: 30, BMax: 75, ExpectedMembers: 1689},
	"palomar-5":       {Name: "Palomar 5", LMin: 0, LMax: 10, BMin: 40, BMax: 50, ExpectedMembers: 500},
	"jhelum":          {Name: "Jhelum", LMin: 335, LMax: 360, BMin: -55, BMax: -35, ExpectedMembers: 300},
	"orphan-chenab":   {Name: "Orphan-Chenab", LMin: 160, LMax: 260, BMin: 30, BMax: 70, ExpectedMembers: 800},
	"atlas-aliqa-uma": {Name: "ATLAS-Aliqa Uma", LMin: 225, LMax: 270, BMin: 25, BMax: 55, ExpectedMembers: 200},
}

// ErrUnknownStream is returned for a job referencing a stream key not in
// the catalog.
var ErrUnknownStream = errors.New("unknown stream key")

// PointSource fetches the phase-space point cloud for a stream region.
// Production deployments read prepared clouds from object storage; tests
// supply fixed clouds.
type PointSource interface {
	// Fetch returns a flat row-major cloud of n points with d features.
	Fetch(ctx context.Context, streamKey string, region Region) (points []float64, n, d int, err error)
}

// Job is one unit of pipeline work.
type Job struct {
	JobID     string
	StreamKey string
	Neighbors int
	Sigma     float64
}

// Pipeline runs the full recovery flow for one job: fetch points, compute
// diagrams, extract candidates, serialize and upload artifacts.
type Pipeline struct {
	source     PointSource
	results    ResultStore
	codec      codec.Codec
	compressor codec.Compressor
	logger     *topo.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithCodec sets the artifact codec. Default codec.Default.
func WithCodec(c codec.Codec) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.codec = c
		}
	}
}

// WithCompressor sets the artifact compressor for the diagram payload.
// Default zstd.
func WithCompressor(c codec.Compressor) PipelineOption {
	return func(p *Pipeline) {
		if c != nil {
			p.compressor = c
		}
	}
}

// WithLogger sets the pipeline logger. Default discards output.
func WithLogger(l *topo.Logger) PipelineOption {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline creates a Pipeline.
func NewPipeline(source PointSource, results ResultStore, optFns ...PipelineOption) *Pipeline {
	p := &Pipeline{
		source:     source,
		results:    results,
		codec:      codec.Default,
		compressor: codec.NewZstd(),
		logger:     topo.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

// pairPayload is the wire form of one persistence pair.
type pairPayload struct {
	Birth float64 `json:"birth"`
	Death float64 `json:"death"`
}

// diagramsPayload is the wire form of the diagrams artifact.
type diagramsPayload struct {
	JobID    string          `json:"job_id"`
	N        int             `json:"n_points"`
	Dim      int             `json:"dimension"`
	Diagrams [][]pairPayload `json:"diagrams"`
}

// candidatePayload is the wire form of one extracted candidate.
type candidatePayload struct {
	Persistence float64  `json:"persistence"`
	Birth       float64  `json:"birth"`
	Death       float64  `json:"death"`
	HomologyDim int      `json:"homology_dim"`
	Members     []uint32 `json:"member_indices"`
}

// metadataPayload is the wire form of the run metadata artifact.
type metadataPayload struct {
	Stream      string     `json:"stream"`
	StreamName  string     `json:"stream_name"`
	JobID       string     `json:"job_id"`
	NStars      int        `json:"n_stars"`
	NCandidates int        `json:"n_candidates"`
	Sigma       float64    `json:"sigma_threshold"`
	Neighbors   int        `json:"n_neighbors"`
	LRange      [2]float64 `json:"l_range"`
	BRange      [2]float64 `json:"b_range"`
}

// Run executes the pipeline for one job and uploads its artifacts.
func (p *Pipeline) Run(ctx context.Context, job Job) error {
	region, ok := Catalog[job.StreamKey]
	if !ok {
		return fmt.Errorf("worker: %w: %q", ErrUnknownStream, job.StreamKey)
	}
	logger := p.logger.WithJob(job.JobID)
	logger.InfoContext(ctx, "starting pipeline", "stream", region.Name)

	points, n, d, err := p.source.Fetch(ctx, job.StreamKey, region)
	if err != nil {
		return fmt.Errorf("worker: fetch region %s: %w", job.StreamKey, err)
	}
	logger.InfoContext(ctx, "fetched point cloud", "points", n, "dimension", d)

	engine := topo.New(
		topo.WithNeighbors(job.Neighbors),
		topo.WithLogger(logger),
	)
	result, err := engine.ComputeDensityDiagrams(ctx, points, n, d)
	if err != nil {
		return fmt.Errorf("worker: compute diagrams: %w", err)
	}

	cands, err := engine.ExtractCandidates(ctx, result, 0,
		streams.WithSigmaThreshold(job.Sigma))
	if err != nil {
		return fmt.Errorf("worker: extract candidates: %w", err)
	}
	logger.InfoContext(ctx, "extracted candidates", "count", len(cands))

	artifacts, err := p.buildArtifacts(job, region, result, cands)
	if err != nil {
		return err
	}
	if err := p.results.Upload(ctx, job.JobID, artifacts); err != nil {
		return err
	}

	logger.InfoContext(ctx, "pipeline complete")
	return nil
}

func (p *Pipeline) buildArtifacts(job Job, region Region, result *topo.Result, cands []streams.Candidate) ([]Artifact, error) {
	diagrams := diagramsPayload{
		JobID: job.JobID,
		N:     result.N,
		Dim:   result.Dim,
	}
	for _, dgm := range result.Diagrams {
		pairs := make([]pairPayload, len(dgm))
		for i, pair := range dgm {
			pairs[i] = pairPayload{Birth: pair.Birth, Death: pair.Death}
		}
		diagrams.Diagrams = append(diagrams.Diagrams, pairs)
	}

	candidates := make([]candidatePayload, len(cands))
	for i, c := range cands {
		candidates[i] = candidatePayload{
			Persistence: c.Persistence,
			Birth:       c.Birth,
			Death:       c.Death,
			HomologyDim: c.HomologyDim,
			Members:     c.Members.ToArray(),
		}
	}

	metadata := metadataPayload{
		Stream:      job.StreamKey,
		StreamName:  region.Name,
		JobID:       job.JobID,
		NStars:      result.N,
		NCandidates: len(cands),
		Sigma:       job.Sigma,
		Neighbors:   job.Neighbors,
		LRange:      [2]float64{region.LMin, region.LMax},
		BRange:      [2]float64{region.BMin, region.BMax},
	}

	diagramBytes, err := p.codec.Marshal(diagrams)
	if err != nil {
		return nil, fmt.Errorf("worker: encode diagrams: %w", err)
	}
	diagramBytes, err = p.compressor.Compress(diagramBytes)
	if err != nil {
		return nil, fmt.Errorf("worker: compress diagrams: %w", err)
	}
	candidateBytes, err := p.codec.Marshal(candidates)
	if err != nil {
		return nil, fmt.Errorf("worker: encode candidates: %w", err)
	}
	metadataBytes, err := p.codec.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("worker: encode metadata: %w", err)
	}

	return []Artifact{
		{Name: "diagrams.json" + compressExt(p.compressor.Name()), ContentType: "application/octet-stream", Body: diagramBytes},
		{Name: "candidates.json", ContentType: "application/json", Body: candidateBytes},
		{Name: "metadata.json", ContentType: "application/json", Body: metadataBytes},
	}, nil
}

func compressExt(name string) string {
	switch name {
	case "zstd":
		return ".zst"
	case "lz4":
		return ".lz4"
	default:
		return ""
	}
}
