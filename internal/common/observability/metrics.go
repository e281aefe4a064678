package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	matchCounter   otelmetric.Int64Counter
	matchDuration  otelmetric.Float64Histogram
}

// New wires an OTel meter provider exporting through the default Prometheus
// registry, and a tracer provider used for span and trace IDs.
func New(serviceName string) (*Observability, error) {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer is New with an explicit Prometheus registerer.
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) (*Observability, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	otel.SetMeterProvider(meterProvider)
	otel.SetTracerProvider(tracerProvider)

	o := &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
	}
	if err := o.initInstruments(meterProvider.Meter(serviceName)); err != nil {
		return nil, err
	}
	return o, nil
}

// NewNoop returns an Observability that records nothing.
func NewNoop() *Observability {
	o := &Observability{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
	_ = o.initInstruments(metricnoop.NewMeterProvider().Meter("noop"))
	return o
}

func (o *Observability) initInstruments(meter otelmetric.Meter) error {
	var err error
	o.matchCounter, err = meter.Int64Counter(
		"matches.processed",
		otelmetric.WithDescription("Number of match requests processed"),
	)
	if err != nil {
		return fmt.Errorf("create match counter: %w", err)
	}

	o.matchDuration, err = meter.Float64Histogram(
		"matches.duration",
		otelmetric.WithDescription("End-to-end match request duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("create match histogram: %w", err)
	}
	return nil
}

// StartSpan starts a span as a child of any span already on ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordMatch records one processed request with its outcome label.
func (o *Observability) RecordMatch(ctx context.Context, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))
	if o.matchCounter != nil {
		o.matchCounter.Add(ctx, 1, attrs)
	}
	if o.matchDuration != nil {
		o.matchDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

// Shutdown flushes and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
