package worker

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
)

// MinioResultStore implements ResultStore for MinIO and other
// S3-compatible storage, for deployments outside AWS.
type MinioResultStore struct {
	client *minio.Client
	bucket string
}

// NewMinioResultStore creates a store uploading to the given bucket.
func NewMinioResultStore(client *minio.Client, bucket string) *MinioResultStore {
	return &MinioResultStore{
		client: client,
		bucket: bucket,
	}
}

// Upload implements ResultStore.
func (s *MinioResultStore) Upload(ctx context.Context, jobID string, artifacts []Artifact) error {
	for _, a := range artifacts {
		opts := minio.PutObjectOptions{ContentType: a.ContentType}
		_, err := s.client.PutObject(ctx, s.bucket, resultKey(jobID, a.Name),
			bytes.NewReader(a.Body), int64(len(a.Body)), opts)
		if err != nil {
			return fmt.Errorf("worker: upload %s: %w", a.Name, err)
		}
	}
	return nil
}
