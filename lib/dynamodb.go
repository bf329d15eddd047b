package lib

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var dynamoDBClient *dynamodb.Client
var dynamoDBClientLock sync.Mutex

func DynamoDBClientExplicit(accessKeyID, accessKeySecret, region string) *dynamodb.Client {
	return dynamodb.NewFromConfig(*SessionExplicit(accessKeyID, accessKeySecret, region))
}

func DynamoDBClient() *dynamodb.Client {
	dynamoDBClientLock.Lock()
	defer dynamoDBClientLock.Unlock()
	if dynamoDBClient == nil {
		dynamoDBClient = dynamodb.NewFromConfig(*Session())
	}
	return dynamoDBClient
}

func dynamoDBTableAttrShortcut(s string) string {
	s2, ok := map[string]string{
		"read":   "ProvisionedThroughput.ReadCapacityUnits",
		"write":  "ProvisionedThroughput.WriteCapacityUnits",
		"stream": "StreamSpecification.StreamViewType",
	}[s]
	if ok {
		return s2
	}
	return s
}

func DynamoDBEnsureInput(name string, keys []string, attrs []string) (*dynamodb.CreateTableInput, error) {
	input := &dynamodb.CreateTableInput{
		TableName:             aws.String(name),
		BillingMode:           ddbtypes.BillingModePayPerRequest,
		SSESpecification:      &ddbtypes.SSESpecification{},
		StreamSpecification:   &ddbtypes.StreamSpecification{},
		ProvisionedThroughput: &ddbtypes.ProvisionedThroughput{},
		Tags:                  []ddbtypes.Tag{},
	}

	// unpack keys like "id:s:hash" and "date:n:range"
	for _, key := range keys {
		attrName, attrType, keyType, err := SplitTwice(key, ":")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		attrType = strings.ToUpper(attrType)
		keyType = strings.ToUpper(keyType)
		if !Contains([]string{"S", "N", "B"}, attrType) {
			err := fmt.Errorf("unknown attribute type: %s", key)
			Logger.Println("error:", err)
			return nil, err
		}
		if !Contains([]string{"HASH", "RANGE"}, keyType) {
			err := fmt.Errorf("unknown key type: %s", key)
			Logger.Println("error:", err)
			return nil, err
		}
		input.KeySchema = append(input.KeySchema, ddbtypes.KeySchemaElement{
			AttributeName: aws.String(attrName),
			KeyType:       ddbtypes.KeyType(keyType),
		})
		input.AttributeDefinitions = append(input.AttributeDefinitions, ddbtypes.AttributeDefinition{
			AttributeName: aws.String(attrName),
			AttributeType: ddbtypes.ScalarAttributeType(attrType),
		})
	}

	// unpack attrs
	for _, line := range attrs {
		attr, value, err := splitOnce(line, "=")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		attr = dynamoDBTableAttrShortcut(attr)
		head, tail, err := splitOnce(attr, ".")
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}

		switch head {

		case "SSESpecification":
			switch tail {
			case "KMSMasterKeyId":
				input.SSESpecification.Enabled = aws.Bool(true)
				input.SSESpecification.KMSMasterKeyId = aws.String(value)
				input.SSESpecification.SSEType = ddbtypes.SSETypeKms
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}

		case "ProvisionedThroughput":
			units, err := strconv.Atoi(value)
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			input.BillingMode = ddbtypes.BillingModeProvisioned
			switch tail {
			case "ReadCapacityUnits":
				input.ProvisionedThroughput.ReadCapacityUnits = aws.Int64(int64(units))
			case "WriteCapacityUnits":
				input.ProvisionedThroughput.WriteCapacityUnits = aws.Int64(int64(units))
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}

		case "StreamSpecification":
			switch tail {
			case "StreamViewType":
				input.StreamSpecification.StreamEnabled = aws.Bool(true)
				input.StreamSpecification.StreamViewType = ddbtypes.StreamViewType(strings.ToUpper(value))
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}

		case "Tags":
			head, tail, err := splitOnce(tail, ".")
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			i, err := strconv.Atoi(head)
			if err != nil {
				Logger.Println("error:", err)
				return nil, err
			}
			switch len(input.Tags) {
			case i:
				input.Tags = append(input.Tags, ddbtypes.Tag{})
			case i + 1:
			default:
				err := fmt.Errorf("attrs with indices must be in ascending order: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}
			switch tail {
			case "Key":
				input.Tags[i].Key = aws.String(value)
			case "Value":
				input.Tags[i].Value = aws.String(value)
			default:
				err := fmt.Errorf("unknown attr: %s", line)
				Logger.Println("error:", err)
				return nil, err
			}

		default:
			err := fmt.Errorf("unknown attr: %s", line)
			Logger.Println("error:", err)
			return nil, err
		}
	}

	if input.BillingMode == ddbtypes.BillingModeProvisioned {
		if input.ProvisionedThroughput.ReadCapacityUnits == nil || input.ProvisionedThroughput.WriteCapacityUnits == nil {
			err := fmt.Errorf("provisioned tables need both read and write capacity: %s", name)
			Logger.Println("error:", err)
			return nil, err
		}
	}

	return input, nil
}

// DynamoDBEnsure creates the table when it does not exist. An existing table
// is left as is, schema changes are not applied.
func DynamoDBEnsure(ctx context.Context, input *dynamodb.CreateTableInput, preview bool) error {
	if doDebug {
		d := &Debug{start: time.Now(), name: "DynamoDBEnsure"}
		defer d.Log()
	}
	_, err := DynamoDBClient().DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: input.TableName,
	})
	if err == nil {
		Logger.Println("exists:", *input.TableName)
		return nil
	}
	var notFound *ddbtypes.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		Logger.Println("error:", err)
		return err
	}
	if input.BillingMode == ddbtypes.BillingModePayPerRequest {
		input.ProvisionedThroughput = nil
	}
	if input.SSESpecification != nil && input.SSESpecification.Enabled == nil {
		input.SSESpecification = nil
	}
	if input.StreamSpecification != nil && input.StreamSpecification.StreamEnabled == nil {
		input.StreamSpecification = nil
	}
	if len(input.Tags) == 0 {
		input.Tags = nil
	}
	if !preview {
		_, err := DynamoDBClient().CreateTable(ctx, input)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
	}
	Logger.Println(PreviewString(preview)+"created table:", *input.TableName)
	if preview {
		return nil
	}
	return DynamoDBWaitActive(ctx, *input.TableName)
}

func DynamoDBWaitActive(ctx context.Context, table string) error {
	return retry.Do(
		func() error {
			out, err := DynamoDBClient().DescribeTable(ctx, &dynamodb.DescribeTableInput{
				TableName: aws.String(table),
			})
			if err != nil {
				return err
			}
			if out.Table.TableStatus != ddbtypes.TableStatusActive {
				return fmt.Errorf("table %s is %s", table, out.Table.TableStatus)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(60),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func PreviewString(preview bool) string {
	if !preview {
		return ""
	}
	return "preview: "
}
