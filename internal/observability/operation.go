package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Operation bundles the span and metrics of one entity store call.
type Operation struct {
	span trace.Span
	done func(error)
}

// StartOperation opens a span named "<entity>.<name>" and starts the latency
// timer. Call End with the operation's final error.
func StartOperation(ctx context.Context, entity, name string) (*Operation, context.Context) {
	ctx, span := startStoreSpan(ctx, entity, name)
	return &Operation{span: span, done: TrackStoreOp(entity, name)}, ctx
}

// End records err on the span and in the store metrics.
func (o *Operation) End(err error) {
	endStoreSpan(o.span, err)
	o.done(err)
}
