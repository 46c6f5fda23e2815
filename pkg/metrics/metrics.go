// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/prometheus/common/model"
	"github.com/telekom/switch-dns/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const serviceName = "switch-dns"

var _ Provider = (*manager)(nil)

type Provider interface {
	// GetRegistry returns the prometheus registry instance
	// containing the registered prometheus collectors
	GetRegistry() *prometheus.Registry
	// Apply returns the metrics of DNS server changes
	Apply() *Apply
	// Restore continues the metrics of the textfile written by a previous run
	Restore(ctx context.Context) error
	// InitTracing initializes the OpenTelemetry tracing
	InitTracing(ctx context.Context) error
	// Shutdown writes the metrics textfile if a change was observed and closes the tracing
	Shutdown(ctx context.Context) error
}

type manager struct {
	config   Config
	version  string
	registry *prometheus.Registry
	apply    *Apply
	tp       *sdktrace.TracerProvider
}

// New initializes the registry and returns the Provider
func New(config Config, version string) Provider {
	registry := prometheus.NewRegistry()
	return &manager{
		config:   config,
		version:  version,
		registry: registry,
		apply:    NewApply(registry),
	}
}

// GetRegistry returns the registry to register prometheus metrics
func (m *manager) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Apply returns the metrics of DNS server changes
func (m *manager) Apply() *Apply {
	return m.apply
}

// Restore seeds the change metrics from the configured textfile.
// A missing textfile is not an error.
func (m *manager) Restore(ctx context.Context) error {
	if m.config.Textfile == "" {
		return nil
	}
	f, err := os.Open(m.config.Textfile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open metrics textfile: %w", err)
	}
	defer func() { _ = f.Close() }()

	parser := expfmt.NewTextParser(model.UTF8Validation)
	families, err := parser.TextToMetricFamilies(f)
	if err != nil {
		return fmt.Errorf("failed to parse metrics textfile %q: %w", m.config.Textfile, err)
	}
	m.apply.seed(families)
	logger.FromContext(ctx).DebugContext(ctx, "Metrics restored from textfile", "path", m.config.Textfile)
	return nil
}

// InitTracing initializes the OpenTelemetry tracing.
// Nothing is set up if tracing is disabled; the global no-op provider stays in place.
func (m *manager) InitTracing(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if !m.config.Tracing.Enabled {
		log.DebugContext(ctx, "Tracing disabled")
		return nil
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(m.version),
		),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create resource", "error", err)
		return fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := m.config.Tracing.Exporter.Create(ctx, &m.config.Tracing)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create exporter", "error", err)
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	const batchTimeout = time.Second
	bsp := sdktrace.NewBatchSpanProcessor(exporter, sdktrace.WithBatchTimeout(batchTimeout))
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	m.tp = tp
	log.DebugContext(ctx, "Tracing initialized with new provider", "provider", m.config.Tracing.Exporter)
	return nil
}

// Shutdown writes the metrics textfile if configured and a change was
// observed, then flushes the traces
func (m *manager) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	var errs []error

	if m.config.Textfile != "" && m.apply.Observed() {
		if err := m.writeTextfile(); err != nil {
			log.ErrorContext(ctx, "Failed to write metrics textfile", "path", m.config.Textfile, "error", err)
			errs = append(errs, fmt.Errorf("failed to write metrics textfile: %w", err))
		}
	}

	if m.tp != nil {
		if err := m.tp.Shutdown(ctx); err != nil {
			log.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
			errs = append(errs, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}

	log.DebugContext(ctx, "Telemetry shutdown")
	return errors.Join(errs...)
}

func (m *manager) writeTextfile() error {
	if err := os.MkdirAll(filepath.Dir(m.config.Textfile), 0o755); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(m.config.Textfile, m.registry)
}
