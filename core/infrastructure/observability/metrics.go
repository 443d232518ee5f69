package observability

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

var (
	reportExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ebspulse_report_executions_total",
			Help: "Total number of report executions",
		},
		[]string{"report", "outcome"},
	)

	reportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ebspulse_report_duration_seconds",
			Help:    "Report execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"report"},
	)

	reportRows = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ebspulse_report_rows",
			Help:    "Rows returned per report execution",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"report"},
	)
)

type instruments struct {
	reportExecutionsTotal metric.Int64Counter
	reportDuration        metric.Float64Histogram
}

var (
	instrumentsOnce sync.Once
	otelInstruments instruments
)

func buildMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return sdkmetric.NewMeterProvider(), nil
	}

	exporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

func initInstruments() {
	instrumentsOnce.Do(func() {
		meter := otel.Meter("ebspulse/gateway")
		otelInstruments.reportExecutionsTotal, _ = meter.Int64Counter("ebspulse.report.executions_total")
		otelInstruments.reportDuration, _ = meter.Float64Histogram("ebspulse.report.execution_duration_ms")
	})
}

// RecordReportExecution records one report run in Prometheus and OTel.
// rows is ignored for failed runs.
func RecordReportExecution(ctx context.Context, report string, rows int, err error, durationMS float64) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	reportExecutionsTotal.WithLabelValues(report, outcome).Inc()
	reportDuration.WithLabelValues(report).Observe(durationMS / 1000)
	if err == nil {
		reportRows.WithLabelValues(report).Observe(float64(rows))
	}

	initInstruments()
	attrs := metric.WithAttributes(
		attribute.String(AttrReportName, report),
		attribute.String(AttrReportOutcome, outcome),
	)
	otelInstruments.reportExecutionsTotal.Add(ctx, 1, attrs)
	otelInstruments.reportDuration.Record(ctx, durationMS, attrs)
}

// ReportExecutions returns the Prometheus counter for report runs, for tests and diagnostics
func ReportExecutions() *prometheus.CounterVec {
	return reportExecutionsTotal
}
