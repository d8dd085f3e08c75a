package worker

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	uploads map[string][]byte
	types   map[string]string
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{
		uploads: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeUploader) Upload(_ context.Context, input *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(input.Key)
	f.uploads[key] = body
	f.types[key] = aws.ToString(input.ContentType)
	return &manager.UploadOutput{}, nil
}

func TestS3ResultStoreUpload(t *testing.T) {
	uploader := newFakeUploader()
	store := NewS3ResultStore(uploader, "topo-results")

	artifacts := []Artifact{
		{Name: "metadata.json", ContentType: "application/json", Body: []byte(`{"ok":true}`)},
		{Name: "diagrams.json.zst", ContentType: "application/octet-stream", Body: []byte{1, 2, 3}},
	}
	require.NoError(t, store.Upload(context.Background(), "job-9", artifacts))

	assert.Equal(t, []byte(`{"ok":true}`), uploader.uploads["jobs/job-9/metadata.json"])
	assert.Equal(t, "application/json", uploader.types["jobs/job-9/metadata.json"])
	assert.Equal(t, []byte{1, 2, 3}, uploader.uploads["jobs/job-9/diagrams.json.zst"])
}

func TestS3ResultStoreUploadError(t *testing.T) {
	uploader := newFakeUploader()
	uploader.err = assert.AnError
	store := NewS3ResultStore(uploader, "topo-results")

	err := store.Upload(context.Background(), "job-9", []Artifact{{Name: "metadata.json"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metadata.json")
}

func TestS3ResultStoreRateLimitLargeArtifact(t *testing.T) {
	uploader := newFakeUploader()
	// Generous rate so the test does not sleep; the artifact exceeds the
	// burst and must be admitted in chunks.
	store := NewS3ResultStore(uploader, "topo-results",
		WithUploadRateLimit(1<<30, 1024))

	body := make([]byte, 10_000)
	require.NoError(t, store.Upload(context.Background(), "job-9",
		[]Artifact{{Name: "big.bin", Body: body}}))
	assert.Len(t, uploader.uploads["jobs/job-9/big.bin"], len(body))
}

func TestResultKey(t *testing.T) {
	assert.Equal(t, "jobs/job-1/candidates.json", resultKey("job-1", "candidates.json"))
}
