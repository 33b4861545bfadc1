/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package telemetry installs the OpenTelemetry meter and tracer providers the
// agents record into, and flushes them when the command exits.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Config.
const (
	None       = "none"
	Stdout     = "stdout"
	Prometheus = "prometheus"
	OTLP       = "otlp"
)

// Config selects the exporters. The OTLP exporter reads its endpoint and
// headers from the standard OTEL_EXPORTER_OTLP_* variables.
type Config struct {
	ServiceName     string `env:"OTEL_SERVICE_NAME,default=devloop"`
	MetricsExporter string `env:"OTEL_METRICS_EXPORTER,default=none"`
	TracesExporter  string `env:"OTEL_TRACES_EXPORTER,default=none"`

	// PushgatewayURL receives the metrics of the run on shutdown when the
	// prometheus exporter is selected.
	PushgatewayURL string `env:"PROMETHEUS_PUSHGATEWAY_URL"`
	PushJob        string `env:"PROMETHEUS_PUSH_JOB,default=devloop"`
}

// Shutdown flushes and stops the installed providers.
type Shutdown func(context.Context) error

// Option configures Setup.
type Option func(*options)

type options struct {
	writer io.Writer
}

// WithWriter sends stdout exporter output to w instead of standard error.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writer = w }
}

// Setup installs global meter and tracer providers for cfg. The returned
// Shutdown must be called before the process exits or buffered points are lost.
func Setup(ctx context.Context, cfg Config, opts ...Option) (Shutdown, error) {
	o := options{writer: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	var shutdowns []Shutdown
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, s := range shutdowns {
			errs = append(errs, s(ctx))
		}
		return errors.Join(errs...)
	}

	mp, flush, err := meterProvider(cfg, res, o.writer)
	if err != nil {
		return nil, err
	}
	if mp != nil {
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, flush, mp.Shutdown)
	}

	tp, err := tracerProvider(ctx, cfg, res, o.writer)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	if tp != nil {
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	clog.FromContext(ctx).With("metrics", cfg.MetricsExporter, "traces", cfg.TracesExporter).Info("Telemetry configured")
	return shutdown, nil
}

// meterProvider returns nil when metrics are disabled. flush runs before the
// provider shuts down.
func meterProvider(cfg Config, res *resource.Resource, w io.Writer) (*sdkmetric.MeterProvider, Shutdown, error) {
	noFlush := func(context.Context) error { return nil }

	switch cfg.MetricsExporter {
	case "", None:
		return nil, noFlush, nil

	case Stdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("creating stdout metric exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)))
		return mp, noFlush, nil

	case Prometheus:
		reg := prometheus.NewRegistry()
		exp, err := otelprom.New(otelprom.WithRegisterer(reg))
		if err != nil {
			return nil, nil, fmt.Errorf("creating prometheus exporter: %w", err)
		}
		mp := sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(exp))
		if cfg.PushgatewayURL == "" {
			return mp, noFlush, nil
		}
		flush := func(ctx context.Context) error {
			if err := push.New(cfg.PushgatewayURL, cfg.PushJob).Gatherer(reg).PushContext(ctx); err != nil {
				return fmt.Errorf("pushing metrics: %w", err)
			}
			return nil
		}
		return mp, flush, nil

	default:
		return nil, nil, fmt.Errorf("unknown metrics exporter %q (want %s, %s or %s)", cfg.MetricsExporter, None, Stdout, Prometheus)
	}
}

// tracerProvider returns nil when tracing is disabled.
func tracerProvider(ctx context.Context, cfg Config, res *resource.Resource, w io.Writer) (*sdktrace.TracerProvider, error) {
	var (
		exp sdktrace.SpanExporter
		err error
	)
	switch cfg.TracesExporter {
	case "", None:
		return nil, nil
	case Stdout:
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w))
	case OTLP:
		exp, err = otlptracehttp.New(ctx)
	default:
		return nil, fmt.Errorf("unknown traces exporter %q (want %s, %s or %s)", cfg.TracesExporter, None, Stdout, OTLP)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s trace exporter: %w", cfg.TracesExporter, err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithResource(res), sdktrace.WithBatcher(exp)), nil
}
