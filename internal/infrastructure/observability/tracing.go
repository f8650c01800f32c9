package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "dealdesk/deal-api"
)

// GetTracer returns the tracer for the deal service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// DealAttributes returns common attributes for deal spans.
func DealAttributes(dealID, tokenID string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("deal.id", dealID),
		attribute.String("reply_token.id", tokenID),
	}
}

// StartBrandViewSpan starts a span for a token-gated deal view.
func StartBrandViewSpan(ctx context.Context, tokenID string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "brand_response.view",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("reply_token.id", tokenID)),
	)
	return ctx, span
}

// StartDecisionSpan starts a span for a brand decision submission.
func StartDecisionSpan(ctx context.Context, tokenID, status string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "brand_response.decision",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("reply_token.id", tokenID),
			attribute.String("decision.status", status),
		),
	)
	return ctx, span
}

// StartSignatureSpan starts a span for a signing operation.
func StartSignatureSpan(ctx context.Context, dealID, role string) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "signature.sign."+role,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("deal.id", dealID),
			attribute.String("signature.role", role),
		),
	)
	return ctx, span
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddStageTransition adds a deal stage transition event to a span.
func AddStageTransition(span trace.Span, fromStage, toStage string) {
	span.AddEvent("stage.transition",
		trace.WithAttributes(
			attribute.String("stage.from", fromStage),
			attribute.String("stage.to", toStage),
		),
	)
}
