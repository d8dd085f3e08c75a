// Package worker runs the queue-driven batch pipeline: it polls SQS for
// job messages, computes persistence diagrams and stream candidates for
// the requested region, uploads result artifacts to object storage, and
// tracks job status in DynamoDB.
package worker

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the worker process configuration, loaded from environment
// variables.
type Config struct {
	// QueueURL is the SQS queue to poll for job messages.
	QueueURL string

	// BucketName is the object storage bucket for result artifacts.
	BucketName string

	// TableName is the DynamoDB table tracking job status.
	TableName string

	// Region is the AWS region.
	Region string

	// PollInterval is the SQS long-poll wait time.
	PollInterval time.Duration

	// VisibilityTimeout is how long a received message stays hidden from
	// other consumers while a job runs.
	VisibilityTimeout time.Duration
}

// ConfigFromEnv loads configuration from the environment. QUEUE_URL,
// BUCKET_NAME and TABLE_NAME are required; AWS_DEFAULT_REGION defaults to
// us-east-1, POLL_INTERVAL to 20s and VISIBILITY_TIMEOUT to 3600s.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Region:            envOr("AWS_DEFAULT_REGION", "us-east-1"),
		PollInterval:      20 * time.Second,
		VisibilityTimeout: time.Hour,
	}

	for _, required := range []struct {
		name string
		dst  *string
	}{
		{"QUEUE_URL", &cfg.QueueURL},
		{"BUCKET_NAME", &cfg.BucketName},
		{"TABLE_NAME", &cfg.TableName},
	} {
		v := os.Getenv(required.name)
		if v == "" {
			return Config{}, fmt.Errorf("worker: missing required environment variable %s", required.name)
		}
		*required.dst = v
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("worker: invalid POLL_INTERVAL %q: %w", v, err)
		}
		cfg.PollInterval = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("VISIBILITY_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("worker: invalid VISIBILITY_TIMEOUT %q: %w", v, err)
		}
		cfg.VisibilityTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
