package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	StatusPending   JobStatus = "PENDING"
	StatusRunning   JobStatus = "RUNNING"
	StatusCompleted JobStatus = "COMPLETED"
	StatusFailed    JobStatus = "FAILED"
)

// maxErrorLen caps the error message stored with a failed job.
const maxErrorLen = 1000

// JobStore records job status transitions.
type JobStore interface {
	// UpdateStatus sets the job's status and updatedAt timestamp.
	// errMsg is stored only when non-empty (failed jobs).
	UpdateStatus(ctx context.Context, jobID string, status JobStatus, errMsg string) error
}

// DynamoDBClient is the subset of the DynamoDB API the store uses.
type DynamoDBClient interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// DynamoDBJobStore tracks job status in a DynamoDB table keyed by jobId.
type DynamoDBJobStore struct {
	client DynamoDBClient
	table  string
	now    func() time.Time
}

// NewDynamoDBJobStore creates a store writing to the given table.
func NewDynamoDBJobStore(client DynamoDBClient, table string) *DynamoDBJobStore {
	return &DynamoDBJobStore{
		client: client,
		table:  table,
		now:    time.Now,
	}
}

// UpdateStatus implements JobStore.
func (s *DynamoDBJobStore) UpdateStatus(ctx context.Context, jobID string, status JobStatus, errMsg string) error {
	updateExpr := "SET #s = :status, updatedAt = :now"
	values := map[string]types.AttributeValue{
		":status": &types.AttributeValueMemberS{Value: string(status)},
		":now":    &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339)},
	}
	names := map[string]string{"#s": "status"}

	if errMsg != "" {
		if len(errMsg) > maxErrorLen {
			errMsg = errMsg[:maxErrorLen]
		}
		updateExpr += ", #e = :error"
		values[":error"] = &types.AttributeValueMemberS{Value: errMsg}
		names["#e"] = "error"
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"jobId": &types.AttributeValueMemberS{Value: jobID},
		},
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  names,
	})
	if err != nil {
		return fmt.Errorf("worker: update job %s to %s: %w", jobID, status, err)
	}
	return nil
}
