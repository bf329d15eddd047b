package lib

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type AuditRecord struct {
	ID          string `dynamodbav:"id" json:"id"`
	Timestamp   string `dynamodbav:"timestamp" json:"timestamp"`
	Message     string `dynamodbav:"message" json:"message"`
	Environment string `dynamodbav:"environment,omitempty" json:"environment,omitempty"`
}

type ItemPutter interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type RequestRecorder struct {
	putter ItemPutter
	now    func() time.Time
}

func NewRequestRecorder(putter ItemPutter) *RequestRecorder {
	return &RequestRecorder{
		putter: putter,
		now:    time.Now,
	}
}

// Record upserts one audit record keyed by id. An empty table disables it.
func (r *RequestRecorder) Record(ctx context.Context, table, id, message, environment string) error {
	if table == "" {
		return nil
	}
	if doDebug {
		d := &Debug{start: time.Now(), name: "RequestRecorderRecord"}
		defer d.Log()
	}
	item, err := attributevalue.MarshalMap(AuditRecord{
		ID:          id,
		Timestamp:   r.now().UTC().Format(TimestampFormat),
		Message:     message,
		Environment: environment,
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	_, err = r.putter.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		Logger.Println("error:", err)
		return err
	}
	return nil
}
