package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"

	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

const tracerName = "ebspulse/gateway"

func buildResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
}

func buildTraceProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled || !cfg.TracesEnabled {
		return sdktrace.NewTracerProvider(), nil
	}

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.TraceSamplingRate)),
		sdktrace.WithBatcher(exporter),
	), nil
}

// StartReportSpan opens the span covering one report execution. The report name and
// request id are taken from ctx.
func StartReportSpan(ctx context.Context) (context.Context, trace.Span) {
	report := sharedctx.GetReport(ctx)
	attrs := []attribute.KeyValue{
		attribute.String(AttrReportName, report),
		attribute.String("db.system.name", "oracle.db"),
	}
	if requestID := sharedctx.GetRequestID(ctx); requestID != "" {
		attrs = append(attrs, attribute.String(AttrRequestID, requestID))
	}
	return otel.Tracer(tracerName).Start(ctx, "report "+report,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

// EndReportSpan records the outcome on span and ends it
func EndReportSpan(span trace.Span, rows int, err error) {
	if err != nil {
		span.SetAttributes(attribute.String(AttrErrorType, ErrorType(err)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int(AttrReportRows, rows))
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// ErrorType returns the application error code of err, or INTERNAL_ERROR for
// unclassified errors
func ErrorType(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return string(appErr.Code)
	}
	return string(apperrors.ErrCodeInternalError)
}
