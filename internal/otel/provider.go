// Package otel owns the OpenTelemetry log pipeline of the simulation host.
package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrNoExporter is returned when telemetry is enabled without a sink.
var ErrNoExporter = errors.New("otel enabled but no log writer or endpoint configured")

// Config holds OTel configuration
type Config struct {
	Enabled      bool
	ServiceName  string
	WorldName    string
	BatchTimeout time.Duration
	LogWriter    io.Writer // session log file, required unless Endpoint is set
	Endpoint     string    // OTLP/HTTP collector, optional
	Insecure     bool
}

// Provider wraps the log provider fed by the slog bridge.
type Provider struct {
	logProvider *sdklog.LoggerProvider
	config      Config
}

// New builds the log pipeline. A disabled config yields a provider whose
// LoggerProvider is nil and whose Flush and Shutdown do nothing.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}

	attrs := []resource.Option{resource.WithAttributes(semconv.ServiceName(cfg.ServiceName))}
	if cfg.WorldName != "" {
		attrs = append(attrs, resource.WithAttributes(semconv.ServiceNamespace(cfg.WorldName)))
	}
	res, err := resource.New(ctx, attrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporters, err := buildExporters(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	for _, exp := range exporters {
		opts = append(opts, sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exp, sdklog.WithExportTimeout(cfg.BatchTimeout)),
		))
	}
	p.logProvider = sdklog.NewLoggerProvider(opts...)
	return p, nil
}

func buildExporters(ctx context.Context, cfg Config) ([]sdklog.Exporter, error) {
	var out []sdklog.Exporter

	if cfg.LogWriter != nil {
		exp, err := stdoutlog.New(
			stdoutlog.WithWriter(cfg.LogWriter),
			stdoutlog.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create file log exporter: %w", err)
		}
		out = append(out, exp)
	}

	if cfg.Endpoint != "" {
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		exp, err := otlploghttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		out = append(out, exp)
	}

	if len(out) == 0 {
		return nil, ErrNoExporter
	}
	return out, nil
}

// LoggerProvider returns the log provider for the otelslog bridge, or nil
// when telemetry is disabled.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	return p.logProvider
}

// Meter returns the named meter from the global provider, or a no-op meter
// when telemetry is disabled.
func (p *Provider) Meter(name string) metric.Meter {
	if !p.config.Enabled {
		return noop.Meter{}
	}
	return otel.Meter(name)
}

// Flush forces pending records out. Called after every world save.
func (p *Provider) Flush(ctx context.Context) error {
	if p.logProvider == nil {
		return nil
	}
	if err := p.logProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("log flush failed: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the pipeline.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.logProvider == nil {
		return nil
	}
	if err := p.logProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("log shutdown failed: %w", err)
	}
	return nil
}

// Enabled reports whether telemetry is on.
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}
