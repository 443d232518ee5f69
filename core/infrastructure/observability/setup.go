package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// Config is the OpenTelemetry section of the process configuration
type Config = config.ObservabilityConfig

// Providers owns the SDK providers installed by Setup
type Providers struct {
	traces  *sdktrace.TracerProvider
	metrics *sdkmetric.MeterProvider
}

// Setup installs the global tracer and meter providers used by report spans, report
// metrics and the otelhttp middleware. With export disabled the providers are plain
// SDK instances that record nothing outside the process.
func Setup(ctx context.Context, cfg Config) (*Providers, error) {
	cfg.TraceSamplingRate = samplingRatio(cfg.TraceSamplingRate)
	log := logging.New("observability")

	traces, err := buildTraceProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	metrics, err := buildMeterProvider(ctx, cfg)
	if err != nil {
		_ = traces.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(traces)
	otel.SetMeterProvider(metrics)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		log.Warnf("OpenTelemetry export: %v", err)
	}))

	if cfg.Enabled {
		log.Infof("Exporting telemetry for %s to %s (sampling %.2f)", cfg.ServiceName, cfg.OTLPEndpoint, cfg.TraceSamplingRate)
	}
	return &Providers{traces: traces, metrics: metrics}, nil
}

// samplingRatio clamps ratio into [0,1]
func samplingRatio(ratio float64) float64 {
	return min(max(ratio, 0), 1)
}

// Shutdown flushes and stops both providers
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return errors.Join(p.traces.Shutdown(ctx), p.metrics.Shutdown(ctx))
}
