package libserverless

import (
	"context"
	"fmt"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/dustin/go-humanize"
	"github.com/nathants/libserverless/lib"
)

func init() {
	lib.Commands["serverless-records"] = serverlessRecords
	lib.Args["serverless-records"] = serverlessRecordsArgs{}
}

type serverlessRecordsArgs struct {
	Table string `arg:"positional,required,env:TABLE_NAME"`
	Limit int    `arg:"-l,--limit" default:"0"`
}

func (serverlessRecordsArgs) Description() string {
	return `

list audit records written by the hello handler

>> libserverless serverless-records hello-requests -l 10

`
}

func serverlessRecords() {
	var args serverlessRecordsArgs
	arg.MustParse(&args)
	ctx := context.Background()
	count := 0
	paginator := dynamodb.NewScanPaginator(lib.DynamoDBClient(), &dynamodb.ScanInput{
		TableName: aws.String(args.Table),
		Limit:     aws.Int32(1000),
	})
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		var records []lib.AuditRecord
		err = attributevalue.UnmarshalListOfMaps(out.Items, &records)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
		for _, record := range records {
			if args.Limit != 0 && count >= args.Limit {
				return
			}
			count++
			age := record.Timestamp
			t, err := time.Parse(time.RFC3339, record.Timestamp)
			if err == nil {
				age = humanize.Time(t)
			}
			env := record.Environment
			if env == "" {
				env = "-"
			}
			fmt.Println(record.ID, age, env, record.Message)
		}
	}
}
