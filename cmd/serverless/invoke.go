package libserverless

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexflint/go-arg"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gofrs/uuid"
	"github.com/nathants/libserverless/lib"
	"gopkg.in/yaml.v3"
)

func init() {
	lib.Commands["serverless-invoke"] = serverlessInvoke
	lib.Args["serverless-invoke"] = serverlessInvokeArgs{}
}

type serverlessInvokeArgs struct {
	Method    string `arg:"-m,--method" default:"GET"`
	Path      string `arg:"-p,--path" default:"/hello"`
	Event     string `arg:"-e,--event" help:"yaml or json file with an api gateway proxy event, overrides method and path"`
	RequestID string `arg:"-r,--request-id" help:"defaults to a random uuid"`
}

func (serverlessInvokeArgs) Description() string {
	return `

run the hello handler locally and print the response

configuration comes from the same env vars as the lambda:
SECRETS_ARN, SECRETS_BACKEND, VAULT_MOUNT, TABLE_NAME, ENVIRONMENT, TRACING

>> TABLE_NAME=hello-requests libserverless serverless-invoke -p /hello

`
}

func serverlessInvokeEvent(path string) (events.APIGatewayProxyRequest, error) {
	var event events.APIGatewayProxyRequest
	data, err := os.ReadFile(path)
	if err != nil {
		return event, err
	}
	// yaml is a superset of json, so one decoder serves both, then the json
	// tags on the event type do the mapping
	var val map[string]interface{}
	err = yaml.Unmarshal(data, &val)
	if err != nil {
		return event, err
	}
	data, err = json.Marshal(val)
	if err != nil {
		return event, err
	}
	err = json.Unmarshal(data, &event)
	if err != nil {
		return event, err
	}
	return event, nil
}

func serverlessInvoke() {
	var args serverlessInvokeArgs
	arg.MustParse(&args)
	event := events.APIGatewayProxyRequest{
		HTTPMethod: args.Method,
		Path:       args.Path,
	}
	if args.Event != "" {
		var err error
		event, err = serverlessInvokeEvent(args.Event)
		if err != nil {
			lib.Logger.Fatal("error: ", err)
		}
	}
	requestID := args.RequestID
	if requestID == "" {
		requestID = uuid.Must(uuid.NewV4()).String()
	}
	cfg, err := lib.LoadConfig()
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	secrets, err := lib.NewSecretsCacheFromConfig(cfg)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	handler := lib.NewHandler(secrets, lib.NewRequestRecorder(lib.DynamoDBClient()), lib.TracerFromConfig(cfg))
	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: requestID})
	res, err := handler.Handle(ctx, event)
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		lib.Logger.Fatal("error: ", err)
	}
	fmt.Println(string(data))
	if res.StatusCode != 200 {
		os.Exit(1)
	}
}
