package tracer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	traceSpan "go.opentelemetry.io/otel/trace"

	"github.com/bridgekit-io/redisbridge/v1/observability"
)

// Observer turns backend operation events into spans. Events arrive after
// the operation completed, so the span is backdated by the reported
// duration.
//
// Wrap it together with a metrics observer using observability.Compose
// when both are wanted:
//
//	factory.WithObserver(observability.Compose(m, tracerClient.Observer()))
type Observer struct {
	tracer traceSpan.Tracer
}

// Observer returns an observability.Observer recording one span per
// operation.
func (t *Tracer) Observer() *Observer {
	return &Observer{tracer: t.tracer.Tracer("redisbridge")}
}

// ObserveOperation implements observability.Observer.
func (o *Observer) ObserveOperation(op observability.OperationContext) {
	start := time.Now().Add(-op.Duration)

	_, span := o.tracer.Start(context.Background(), op.Component+"."+op.Operation,
		traceSpan.WithTimestamp(start),
		traceSpan.WithSpanKind(traceSpan.SpanKindClient),
	)

	attrs := []attribute.KeyValue{
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", op.Operation),
	}
	if op.Resource != "" {
		attrs = append(attrs, attribute.String("db.redis.key", op.Resource))
	}
	if op.Size > 0 {
		attrs = append(attrs, attribute.Int64("db.response_size", op.Size))
	}
	span.SetAttributes(attrs...)

	if op.Error != nil {
		span.RecordError(op.Error)
		span.SetStatus(codes.Error, op.Error.Error())
	}
	span.End()
}

var _ observability.Observer = (*Observer)(nil)
