// Command topoworker is the queue-driven batch worker: it polls SQS for
// recovery jobs, runs the persistence pipeline, uploads result artifacts
// to S3, and tracks job status in DynamoDB.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/topostreams/topo"
	"github.com/topostreams/topo/worker"
)

func main() {
	logger := topo.NewJSONLogger(slog.LevelInfo)

	if err := run(logger); err != nil {
		logger.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *topo.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := worker.ConfigFromEnv()
	if err != nil {
		return err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsCfg)
	jobs := worker.NewDynamoDBJobStore(dynamodb.NewFromConfig(awsCfg), cfg.TableName)
	results := worker.NewS3ResultStore(manager.NewUploader(s3Client), cfg.BucketName)
	source := worker.NewS3PointSource(s3Client, cfg.BucketName)

	pipeline := worker.NewPipeline(source, results, worker.WithLogger(logger))
	w := worker.NewWorker(cfg, sqs.NewFromConfig(awsCfg), jobs, pipeline, logger)

	return w.Run(ctx)
}
