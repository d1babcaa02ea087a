package main

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stewi1014/dop"
	"github.com/stewi1014/dop/encio"
)

var tracer = otel.Tracer("dop")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func messageAttrs(flags dop.Flag, size int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("dop.flags", flags.String()),
		attribute.Int("dop.size", size),
	}
}

// endSpan records err and its result code, and ends span.
func endSpan(span trace.Span, err error) {
	span.SetAttributes(attribute.Int("dop.result_code", int(encio.CodeOf(err))))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
