//
// attr: concurrency 0
// attr: memory 128
// attr: timeout 30
// policy: AWSLambdaBasicExecutionRole
// policy: AWSXRayDaemonWriteAccess
// allow: dynamodb:PutItem arn:aws:dynamodb:*:*:table/${TABLE_NAME}
// allow: secretsmanager:GetSecretValue ${SECRETS_ARN}
// trigger: api
// env: TABLE_NAME=${TABLE_NAME}
// env: SECRETS_ARN=${SECRETS_ARN}
// env: ENVIRONMENT=${ENVIRONMENT}
// env: TRACING=true

package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nathants/libserverless/lib"
)

func main() {
	cfg, err := lib.LoadConfig()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	secrets, err := lib.NewSecretsCacheFromConfig(cfg)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	recorder := lib.NewRequestRecorder(lib.DynamoDBClient())
	handler := lib.NewHandler(secrets, recorder, lib.TracerFromConfig(cfg))
	lambda.Start(handler.Handle)
}
