package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/topostreams/topo"
)

// SQSClient is the subset of the SQS API the worker uses.
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// jobMessage is the queue wire format of a job request.
type jobMessage struct {
	JobID          string   `json:"jobId"`
	StreamKey      string   `json:"streamKey"`
	NNeighbors     *int     `json:"nNeighbors"`
	SigmaThreshold *float64 `json:"sigmaThreshold"`
}

const (
	defaultNeighbors = 32
	defaultSigma     = 3.0
)

// ErrInvalidMessage marks a message body that cannot be turned into a job.
var ErrInvalidMessage = errors.New("invalid job message")

// Worker polls SQS for job messages and drives the pipeline for each.
type Worker struct {
	cfg      Config
	sqs      SQSClient
	jobs     JobStore
	pipeline *Pipeline
	logger   *topo.Logger
}

// NewWorker creates a Worker. logger may be nil to disable logging.
func NewWorker(cfg Config, client SQSClient, jobs JobStore, pipeline *Pipeline, logger *topo.Logger) *Worker {
	if logger == nil {
		logger = topo.NoopLogger()
	}
	return &Worker{
		cfg:      cfg,
		sqs:      client,
		jobs:     jobs,
		pipeline: pipeline,
		logger:   logger,
	}
}

// Run polls the queue until ctx is canceled. Messages that fail to
// process are left on the queue and reappear after the visibility
// timeout; successfully processed messages are deleted.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "worker started", "queue", w.cfg.QueueURL)

	for {
		if err := ctx.Err(); err != nil {
			w.logger.InfoContext(ctx, "worker shutdown complete")
			return nil
		}

		resp, err := w.sqs.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.cfg.QueueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     int32(w.cfg.PollInterval.Seconds()),
			VisibilityTimeout:   int32(w.cfg.VisibilityTimeout.Seconds()),
		})
		if err != nil {
			if ctx.Err() != nil {
				w.logger.InfoContext(ctx, "worker shutdown complete")
				return nil
			}
			w.logger.ErrorContext(ctx, "receive failed", "error", err)
			continue
		}
		if len(resp.Messages) == 0 {
			continue
		}

		msg := resp.Messages[0]
		if err := w.ProcessMessage(ctx, aws.ToString(msg.Body)); err != nil {
			// Left on the queue; redelivered after the visibility timeout.
			w.logger.ErrorContext(ctx, "message processing failed", "error", err)
			continue
		}

		_, err = w.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(w.cfg.QueueURL),
			ReceiptHandle: msg.ReceiptHandle,
		})
		if err != nil {
			w.logger.ErrorContext(ctx, "delete failed", "error", err)
		}
	}
}

// ProcessMessage parses a job message, tracks its status transitions, and
// runs the pipeline.
func (w *Worker) ProcessMessage(ctx context.Context, body string) error {
	job, err := parseJob(body)
	if err != nil {
		return err
	}
	if _, ok := Catalog[job.StreamKey]; !ok {
		return fmt.Errorf("worker: %w: %q", ErrUnknownStream, job.StreamKey)
	}

	w.logger.InfoContext(ctx, "processing job", "job_id", job.JobID, "stream", job.StreamKey)

	if err := w.jobs.UpdateStatus(ctx, job.JobID, StatusRunning, ""); err != nil {
		return err
	}

	if err := w.pipeline.Run(ctx, job); err != nil {
		if stErr := w.jobs.UpdateStatus(ctx, job.JobID, StatusFailed, err.Error()); stErr != nil {
			w.logger.ErrorContext(ctx, "failed to record job failure", "job_id", job.JobID, "error", stErr)
		}
		return fmt.Errorf("worker: job %s: %w", job.JobID, err)
	}

	return w.jobs.UpdateStatus(ctx, job.JobID, StatusCompleted, "")
}

func parseJob(body string) (Job, error) {
	var msg jobMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return Job{}, fmt.Errorf("worker: %w: %w", ErrInvalidMessage, err)
	}
	if msg.JobID == "" || msg.StreamKey == "" {
		return Job{}, fmt.Errorf("worker: %w: jobId and streamKey are required", ErrInvalidMessage)
	}

	job := Job{
		JobID:     msg.JobID,
		StreamKey: msg.StreamKey,
		Neighbors: defaultNeighbors,
		Sigma:     defaultSigma,
	}
	if msg.NNeighbors != nil && *msg.NNeighbors > 0 {
		job.Neighbors = *msg.NNeighbors
	}
	if msg.SigmaThreshold != nil {
		job.Sigma = *msg.SigmaThreshold
	}
	return job, nil
}
