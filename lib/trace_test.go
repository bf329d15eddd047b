package lib

import (
	"context"
	"fmt"
	"testing"
)

func TestTracerFromConfig(t *testing.T) {
	if _, ok := TracerFromConfig(&Config{}).(NoopTracer); !ok {
		t.Errorf("expected noop tracer")
	}
	tracer := TracerFromConfig(&Config{Tracing: true})
	if _, ok := tracer.(XRayTracer); !ok {
		t.Errorf("expected xray tracer")
	}
	t.Setenv("LAMBDA_TASK_ROOT", "")
	// outside lambda there is no parent segment, spans are noops
	ctx, span := tracer.StartSpan(context.Background(), "hello-world-processing")
	if ctx == nil {
		t.Fatal("nil context")
	}
	span.Annotate("environment", "test")
	span.AttachMetadata("request", map[string]string{"path": "/hello"})
	span.RecordError(fmt.Errorf("boom"))
	span.Close()
	if _, ok := span.(noopSpan); !ok {
		t.Errorf("expected noop span, got %T", span)
	}
}
