package lib

import (
	"context"
	"os"

	"github.com/aws/aws-xray-sdk-go/xray"
)

type Span interface {
	Annotate(key string, value string)
	AttachMetadata(key string, value interface{})
	RecordError(err error)
	Close()
}

type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

type NoopTracer struct{}

type noopSpan struct{}

func (NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) Annotate(string, string) {}

func (noopSpan) AttachMetadata(string, interface{}) {}

func (noopSpan) RecordError(error) {}

func (noopSpan) Close() {}

// XRayTracer opens subsegments under the lambda's facade segment. Outside
// lambda, with no segment in the context, it degrades to a noop span.
type XRayTracer struct{}

type xraySpan struct {
	seg *xray.Segment
	err error
}

func (XRayTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	// in lambda the sdk builds the facade segment from the trace header on
	// the first subsegment, so GetSegment is still nil here
	if xray.GetSegment(ctx) == nil && os.Getenv("LAMBDA_TASK_ROOT") == "" {
		return ctx, noopSpan{}
	}
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return ctx, noopSpan{}
	}
	return ctx, &xraySpan{seg: seg}
}

func (s *xraySpan) Annotate(key string, value string) {
	err := s.seg.AddAnnotation(key, value)
	if err != nil {
		Logger.Println("error:", err)
	}
}

func (s *xraySpan) AttachMetadata(key string, value interface{}) {
	err := s.seg.AddMetadata(key, value)
	if err != nil {
		Logger.Println("error:", err)
	}
}

func (s *xraySpan) RecordError(err error) {
	s.err = err
	if addErr := s.seg.AddError(err); addErr != nil {
		Logger.Println("error:", addErr)
	}
}

func (s *xraySpan) Close() {
	s.seg.Close(s.err)
}

func TracerFromConfig(cfg *Config) Tracer {
	if cfg.Tracing {
		return XRayTracer{}
	}
	return NoopTracer{}
}
