package observability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/observability"
	sharedctx "github.com/ebspulse/ebspulse/core/shared/context"
	apperrors "github.com/ebspulse/ebspulse/core/shared/errors"
)

func TestSetup_Disabled(t *testing.T) {
	cfg := config.Default().Observability
	cfg.TraceSamplingRate = 3

	providers, err := observability.Setup(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestShutdown_NilProviders(t *testing.T) {
	var providers *observability.Providers
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestRecordReportExecution(t *testing.T) {
	counter := observability.ReportExecutions()
	okBefore := testutil.ToFloat64(counter.WithLabelValues("metrics-test", observability.OutcomeSuccess))
	errBefore := testutil.ToFloat64(counter.WithLabelValues("metrics-test", observability.OutcomeError))

	observability.RecordReportExecution(context.Background(), "metrics-test", 3, nil, 12.5)
	observability.RecordReportExecution(context.Background(), "metrics-test", 0, errors.New("boom"), 1)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(counter.WithLabelValues("metrics-test", observability.OutcomeSuccess)))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(counter.WithLabelValues("metrics-test", observability.OutcomeError)))
}

// recordSpans installs an in-memory tracer provider for the duration of the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return recorder
}

func spanAttributes(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestReportSpan_Success(t *testing.T) {
	recorder := recordSpans(t)

	ctx := sharedctx.WithRequestID(context.Background(), "req-7")
	ctx = sharedctx.WithReport(ctx, "summary")
	_, span := observability.StartReportSpan(ctx)
	observability.EndReportSpan(span, 4, nil)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "report summary", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	attrs := spanAttributes(ended[0])
	assert.Equal(t, "summary", attrs[observability.AttrReportName].AsString())
	assert.Equal(t, "req-7", attrs[observability.AttrRequestID].AsString())
	assert.Equal(t, int64(4), attrs[observability.AttrReportRows].AsInt64())
	assert.NotContains(t, attrs, attribute.Key(observability.AttrErrorType))
}

func TestReportSpan_ErrorType(t *testing.T) {
	recorder := recordSpans(t)

	ctx := sharedctx.WithReport(context.Background(), "trend")
	_, span := observability.StartReportSpan(ctx)
	observability.EndReportSpan(span, 0, apperrors.Connection(errors.New("refused")))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := spanAttributes(ended[0])
	assert.Equal(t, string(apperrors.ErrCodeConnectionFailed), attrs[observability.AttrErrorType].AsString())
	assert.NotContains(t, attrs, attribute.Key(observability.AttrRequestID))
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "QUERY_FAILED", observability.ErrorType(apperrors.QueryExecution("summary", errors.New("ORA-00942"))))
	assert.Equal(t, "INTERNAL_ERROR", observability.ErrorType(errors.New("plain")))
}
