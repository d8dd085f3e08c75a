package worker

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/time/rate"
)

// Artifact is one named result file produced by a pipeline run.
type Artifact struct {
	Name        string
	ContentType string
	Body        []byte
}

// ResultStore uploads result artifacts for a job. Implementations store
// each artifact under jobs/{jobID}/{name}.
type ResultStore interface {
	Upload(ctx context.Context, jobID string, artifacts []Artifact) error
}

func resultKey(jobID, name string) string {
	return path.Join("jobs", jobID, name)
}

// S3Uploader is the subset of the s3 manager API the store uses.
type S3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3ResultStore uploads artifacts to S3 using the multipart upload
// manager. An optional byte-rate limiter bounds upload throughput so
// batch jobs do not starve interactive traffic.
type S3ResultStore struct {
	uploader S3Uploader
	bucket   string
	limiter  *rate.Limiter
}

// S3ResultStoreOption customizes an S3ResultStore.
type S3ResultStoreOption func(*S3ResultStore)

// WithUploadRateLimit bounds upload throughput to bytesPerSec with the
// given burst. Artifacts larger than the burst are admitted whole after a
// proportional wait.
func WithUploadRateLimit(bytesPerSec float64, burst int) S3ResultStoreOption {
	return func(s *S3ResultStore) {
		s.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
	}
}

// NewS3ResultStore creates a store uploading to the given bucket.
func NewS3ResultStore(uploader S3Uploader, bucket string, optFns ...S3ResultStoreOption) *S3ResultStore {
	s := &S3ResultStore{
		uploader: uploader,
		bucket:   bucket,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// Upload implements ResultStore.
func (s *S3ResultStore) Upload(ctx context.Context, jobID string, artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := s.wait(ctx, len(a.Body)); err != nil {
			return fmt.Errorf("worker: upload %s throttled: %w", a.Name, err)
		}
		input := &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(resultKey(jobID, a.Name)),
			Body:   bytes.NewReader(a.Body),
		}
		if a.ContentType != "" {
			input.ContentType = aws.String(a.ContentType)
		}
		if _, err := s.uploader.Upload(ctx, input); err != nil {
			return fmt.Errorf("worker: upload %s: %w", a.Name, err)
		}
	}
	return nil
}

func (s *S3ResultStore) wait(ctx context.Context, n int) error {
	if s.limiter == nil {
		return nil
	}
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
