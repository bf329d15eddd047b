package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

const (
	HelloMessage         = "Hello from serverless!"
	AuditMessage         = "Hello World request processed"
	InternalErrorMessage = "Internal server error"
	TimestampFormat      = "2006-01-02T15:04:05.000Z07:00"

	helloSpanName = "hello-world-processing"
)

type HelloBody struct {
	Message          string `json:"message"`
	Timestamp        string `json:"timestamp"`
	RequestID        string `json:"requestId"`
	Environment      string `json:"environment,omitempty"`
	HasSecrets       bool   `json:"hasSecrets"`
	UsingSharedLayer bool   `json:"usingSharedLayer"`
}

type ErrorBody struct {
	Message string `json:"message"`
}

type requestMetadata struct {
	Path   string `json:"path"`
	Method string `json:"method"`
}

// Handler serves the hello endpoint. Nothing is carried between invocations
// except what Secrets memoizes.
type Handler struct {
	Secrets  *SecretsCache
	Recorder *RequestRecorder
	Tracer   Tracer
	Config   func() (*Config, error)
	Now      func() time.Time
}

func NewHandler(secrets *SecretsCache, recorder *RequestRecorder, tracer Tracer) *Handler {
	if tracer == nil {
		tracer = NoopTracer{}
	}
	return &Handler{
		Secrets:  secrets,
		Recorder: recorder,
		Tracer:   tracer,
		Config:   LoadConfig,
		Now:      time.Now,
	}
}

func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (res events.APIGatewayProxyResponse, err error) {
	tracer := h.Tracer
	if tracer == nil {
		tracer = NoopTracer{}
	}
	ctx, span := tracer.StartSpan(ctx, helloSpanName)
	closed := false
	fail := func(cause error) (events.APIGatewayProxyResponse, error) {
		Logger.Println("error:", cause)
		if !closed {
			span.RecordError(cause)
			span.Close()
			closed = true
		}
		return BuildResponse(500, ErrorBody{Message: InternalErrorMessage}, nil)
	}
	defer func() {
		if r := recover(); r != nil {
			res, err = fail(fmt.Errorf("panic: %v", r))
		}
	}()
	body, err := h.process(ctx, span, event)
	if err != nil {
		return fail(err)
	}
	span.Close()
	closed = true
	return BuildResponse(200, body, nil)
}

func (h *Handler) process(ctx context.Context, span Span, event events.APIGatewayProxyRequest) (*HelloBody, error) {
	loadConfig := h.Config
	if loadConfig == nil {
		loadConfig = LoadConfig
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	span.Annotate("environment", cfg.Environment)
	span.AttachMetadata("request", requestMetadata{Path: event.Path, Method: event.HTTPMethod})
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc.AwsRequestID == "" {
		return nil, fmt.Errorf("missing request id in lambda context")
	}
	var secrets SecretBundle
	if h.Secrets != nil {
		secrets = h.Secrets.Get(ctx)
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	body := &HelloBody{
		Message:          HelloMessage,
		Timestamp:        now().UTC().Format(TimestampFormat),
		RequestID:        lc.AwsRequestID,
		Environment:      cfg.Environment,
		HasSecrets:       len(secrets) > 0,
		UsingSharedLayer: true,
	}
	if cfg.TableName != "" {
		if h.Recorder == nil {
			return nil, fmt.Errorf("table %s configured without a recorder", cfg.TableName)
		}
		err := h.Recorder.Record(ctx, cfg.TableName, lc.AwsRequestID, AuditMessage, cfg.Environment)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", lc.AwsRequestID, err)
		}
	}
	return body, nil
}
