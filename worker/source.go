package worker

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/topostreams/topo/codec"
)

// S3GetObjectClient is the subset of the S3 API the point source uses.
type S3GetObjectClient interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// cloudPayload is the stored form of a prepared point cloud.
type cloudPayload struct {
	N      int       `json:"n_points"`
	Dim    int       `json:"dimension"`
	Points []float64 `json:"points"`
}

// S3PointSource reads prepared phase-space clouds from object storage.
// Clouds are staged by the ingest job under clouds/{streamKey}.json plus
// the compressor extension, encoded with the configured codec.
type S3PointSource struct {
	client     S3GetObjectClient
	bucket     string
	codec      codec.Codec
	compressor codec.Compressor
}

// NewS3PointSource creates a source reading zstd-compressed clouds from
// the given bucket.
func NewS3PointSource(client S3GetObjectClient, bucket string) *S3PointSource {
	return &S3PointSource{
		client:     client,
		bucket:     bucket,
		codec:      codec.Default,
		compressor: codec.NewZstd(),
	}
}

// Fetch implements PointSource.
func (s *S3PointSource) Fetch(ctx context.Context, streamKey string, _ Region) ([]float64, int, int, error) {
	key := path.Join("clouds", streamKey+".json"+compressExt(s.compressor.Name()))
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, 0, fmt.Errorf("worker: fetch cloud %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("worker: read cloud %s: %w", key, err)
	}
	raw, err = s.compressor.Decompress(raw)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("worker: decompress cloud %s: %w", key, err)
	}

	var cloud cloudPayload
	if err := s.codec.Unmarshal(raw, &cloud); err != nil {
		return nil, 0, 0, fmt.Errorf("worker: decode cloud %s: %w", key, err)
	}
	if cloud.N < 1 || cloud.Dim < 1 || len(cloud.Points) < cloud.N*cloud.Dim {
		return nil, 0, 0, fmt.Errorf("worker: cloud %s has inconsistent shape (%d x %d, %d values)",
			key, cloud.N, cloud.Dim, len(cloud.Points))
	}
	return cloud.Points, cloud.N, cloud.Dim, nil
}
