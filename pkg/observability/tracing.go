package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name of the tracer for conversion operations.
	TracerName = "chatview"
)

// Span attribute keys
const (
	AttrRunID      = "run_id"
	AttrInputPath  = "input_path"
	AttrStage      = "stage"
	AttrLayout     = "layout"
	AttrParagraphs = "paragraphs"
	AttrUtterances = "utterances"
	AttrSpeakers   = "speakers"
	AttrIcons      = "icons"
	AttrErrorCode  = "error_code"
)

// Span names
const (
	SpanConvert = "chatview.convert"
	SpanOpen    = "chatview.stage.open"
	SpanDetect  = "chatview.stage.detect"
	SpanMerge   = "chatview.stage.merge"
	SpanRender  = "chatview.stage.render"
	SpanWrite   = "chatview.stage.write"
)

// Tracer provides tracing for conversion runs. Without a configured
// TracerProvider the global no-op provider is used.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer creates a new conversion tracer.
func NewTracer() *Tracer {
	return &Tracer{
		tracer: otel.Tracer(TracerName),
	}
}

// NewTracerWithProvider creates a tracer from an explicit provider.
func NewTracerWithProvider(tp trace.TracerProvider) *Tracer {
	return &Tracer{
		tracer: tp.Tracer(TracerName),
	}
}

// StartConvertSpan starts the root span for converting one document.
func (t *Tracer) StartConvertSpan(ctx context.Context, runID, inputPath string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanConvert,
		trace.WithAttributes(
			attribute.String(AttrRunID, runID),
			attribute.String(AttrInputPath, inputPath),
		),
	)
}

// StartStageSpan starts a span for a pipeline stage.
func (t *Tracer) StartStageSpan(ctx context.Context, spanName, stage string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, spanName,
		trace.WithAttributes(
			attribute.String(AttrStage, stage),
		),
	)
}

// SpanHelper provides convenient methods for working with the current span.
type SpanHelper struct {
	span trace.Span
}

// NewSpanHelper creates a new span helper for the given span.
func NewSpanHelper(span trace.Span) *SpanHelper {
	return &SpanHelper{span: span}
}

// SetDetection sets the detected layout and entry counts.
func (h *SpanHelper) SetDetection(layout string, paragraphs, utterances int) {
	h.span.SetAttributes(
		attribute.String(AttrLayout, layout),
		attribute.Int(AttrParagraphs, paragraphs),
		attribute.Int(AttrUtterances, utterances),
	)
}

// SetRendered sets the speaker and icon counts of the rendered output.
func (h *SpanHelper) SetRendered(speakers, icons int) {
	h.span.SetAttributes(
		attribute.Int(AttrSpeakers, speakers),
		attribute.Int(AttrIcons, icons),
	)
}

// SetError records an error on the span.
func (h *SpanHelper) SetError(err error, code string) {
	h.span.SetStatus(codes.Error, err.Error())
	h.span.SetAttributes(attribute.String(AttrErrorCode, code))
	h.span.RecordError(err)
}

// SetSuccess marks the span as successful.
func (h *SpanHelper) SetSuccess() {
	h.span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
