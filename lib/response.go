package lib

import (
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
)

var defaultHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// BuildResponse json encodes body into an api gateway proxy response. Headers
// override the defaults on collision.
func BuildResponse(statusCode int, body interface{}, headers map[string]string) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	merged := make(map[string]string, len(defaultHeaders)+len(headers))
	for k, v := range defaultHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    merged,
		Body:       string(data),
	}, nil
}
