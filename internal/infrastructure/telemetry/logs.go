package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLogExportInterval = 5 * time.Second

// LogsConfig configures the OTLP log pipeline
type LogsConfig struct {
	Enabled           bool
	CollectorEndpoint string
	ServiceName       string
	Insecure          bool
	// ExportInterval bounds how long a log record waits in the batch. Zero means 5s.
	ExportInterval time.Duration
}

// LogPipeline ships registry log entries to the collector. A disabled
// pipeline hands out no-op cores, so callers never branch on it.
type LogPipeline struct {
	provider *sdklog.LoggerProvider
	service  string
}

// NewLogPipeline builds the pipeline and installs it as the global provider
func NewLogPipeline(ctx context.Context, cfg LogsConfig, logger *zap.Logger) (*LogPipeline, error) {
	p := &LogPipeline{service: cfg.ServiceName}
	if !cfg.Enabled {
		logger.Debug("OTLP log export disabled")
		return p, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create OTLP log exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = defaultLogExportInterval
	}
	p.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, sdklog.WithExportInterval(interval))),
	)
	global.SetLoggerProvider(p.provider)

	logger.Info("OTLP log export enabled",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Duration("export_interval", interval),
	)
	return p, nil
}

// Enabled reports whether entries leave the process
func (p *LogPipeline) Enabled() bool {
	return p != nil && p.provider != nil
}

// Core returns a zap core feeding the pipeline at level and above, meant as
// an extra core for logger.New.
func (p *LogPipeline) Core(level zapcore.Level) zapcore.Core {
	if !p.Enabled() {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(p.service, otelzap.WithLoggerProvider(p.provider))
	if level <= zapcore.DebugLevel {
		return core
	}
	return &minLevelCore{Core: core, min: level}
}

// Shutdown flushes buffered records within ctx
func (p *LogPipeline) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	if err := p.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown log pipeline: %w", err)
	}
	return nil
}

// minLevelCore drops entries below min; otelzap forwards every level.
type minLevelCore struct {
	zapcore.Core
	min zapcore.Level
}

func (c *minLevelCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.min && c.Core.Enabled(lvl)
}

func (c *minLevelCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *minLevelCore) With(fields []zapcore.Field) zapcore.Core {
	return &minLevelCore{Core: c.Core.With(fields), min: c.min}
}
