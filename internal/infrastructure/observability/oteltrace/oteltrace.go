package oteltrace

import (
	"context"

	"ibook/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a Tracer backed by the globally installed OpenTelemetry
// provider. Installing an SDK provider and exporter is a deployment
// concern; without one, spans are no-ops.
func New(name string) observability.Tracer {
	if name == "" {
		name = "ibook"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
