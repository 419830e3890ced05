package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"salesreport/internal/config"
	"salesreport/pkg/contracts"
)

const (
	ServiceName = "salesreport"
	MeterName   = "salesreport"
)

// Telemetry holds the tracing and metrics providers of one run. Nothing is
// served over the network: spans go to the configured writer and metrics
// are dumped to a Prometheus textfile when the run ends.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Registry       *prometheus.Registry
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *RunMetrics

	metricsFile string
	logger      *slog.Logger
}

// RunMetrics are the instruments recorded by the report builder
type RunMetrics struct {
	RunsTotal     metric.Int64Counter
	RunErrors     metric.Int64Counter
	RecordsLoaded metric.Int64Counter
	RowsWritten   metric.Int64Counter
	StageDuration metric.Float64Histogram
}

// InitializeTelemetry sets up tracing and metrics. Span output goes to
// traceOut when the stdout exporter is selected; nil means stderr.
func InitializeTelemetry(cfg config.TelemetryConfig, traceOut io.Writer, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}
	if traceOut == nil {
		traceOut = os.Stderr
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      WithComponent(logger, "telemetry"),
	}

	switch cfg.TraceExporter {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(traceOut),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		// A batch run is short lived, export spans as they end.
		t.TracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		)
		t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(contracts.Version))
	case "", "none":
		t.Tracer = noop.NewTracerProvider().Tracer(MeterName)
	default:
		return nil, fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	t.Registry = prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))

	t.Metrics, err = newRunMetrics(t.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}

	t.logger.Debug("Telemetry initialized",
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

func newRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"salesreport_runs",
		metric.WithDescription("Report builds by outcome"),
	)
	if err != nil {
		return nil, err
	}

	runErrors, err := meter.Int64Counter(
		"salesreport_errors",
		metric.WithDescription("Failed report builds by error type"),
	)
	if err != nil {
		return nil, err
	}

	recordsLoaded, err := meter.Int64Counter(
		"salesreport_records_loaded",
		metric.WithDescription("Sales records read from the input file"),
	)
	if err != nil {
		return nil, err
	}

	rowsWritten, err := meter.Int64Counter(
		"salesreport_rows_written",
		metric.WithDescription("Rows written to the output workbook by sheet"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"salesreport_stage_duration_seconds",
		metric.WithDescription("Duration of each build stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		RunsTotal:     runsTotal,
		RunErrors:     runErrors,
		RecordsLoaded: recordsLoaded,
		RowsWritten:   rowsWritten,
		StageDuration: stageDuration,
	}, nil
}

// StartStage opens a span for a build stage and returns a func that ends it,
// records its duration and marks the span failed when *errp is non-nil.
func (t *Telemetry) StartStage(ctx context.Context, stage string, errp *error) (context.Context, func()) {
	start := time.Now()
	ctx, span := t.Tracer.Start(ctx, stage, trace.WithAttributes(attribute.String("stage", stage)))
	if runID := GetRunID(ctx); runID != "" {
		span.SetAttributes(attribute.String("run_id", runID))
	}
	return ctx, func() {
		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
		}
		span.End()
		t.Metrics.StageDuration.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("stage", stage)))
	}
}

// RecordRun counts a finished build
func (t *Telemetry) RecordRun(ctx context.Context, errType string) {
	status := "success"
	if errType != "" {
		status = "failure"
		t.Metrics.RunErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error_type", errType)))
	}
	t.Metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// AddSpanAttributes sets attributes on the current span
func AddSpanAttributes(ctx context.Context, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(attrs...)
	}
}

// Shutdown writes the metrics textfile, when configured, and flushes the providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" {
		if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		} else {
			t.logger.InfoContext(ctx, "Run metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}
	return nil
}
