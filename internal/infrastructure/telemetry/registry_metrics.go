package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// MeterName is the meter used for registry instruments
const MeterName = "actor-registry"

var (
	AttrEventType    = attribute.Key("event_type")
	AttrOutcome      = attribute.Key("outcome")
	AttrOutboxStatus = attribute.Key("outbox.status")
	AttrDBState      = attribute.Key("db.pool.state")
)

// JobDurationBuckets are the consolidation job histogram bounds in seconds
var JobDurationBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300}

// OutboxStatusCounter reports how many outbox entries are in each status.
type OutboxStatusCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// RegistryMetrics records outbox delivery and consolidation job metrics.
// It satisfies event.DeliveryObserver.
type RegistryMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	outboxDelivered       metric.Int64Counter
	outboxFailed          metric.Int64Counter
	consolidationJobs     metric.Int64Counter
	consolidationDuration metric.Float64Histogram

	registrations []metric.Registration
}

// NewRegistryMetrics creates the registry instruments on meter.
func NewRegistryMetrics(meter metric.Meter, logger *zap.Logger) (*RegistryMetrics, error) {
	m := &RegistryMetrics{meter: meter, logger: logger}

	var err error
	if m.outboxDelivered, err = meter.Int64Counter("outbox.delivered",
		metric.WithDescription("Outbox entries delivered to the event bus"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("create outbox.delivered: %w", err)
	}
	if m.outboxFailed, err = meter.Int64Counter("outbox.failed",
		metric.WithDescription("Failed outbox delivery attempts"), metric.WithUnit("{event}")); err != nil {
		return nil, fmt.Errorf("create outbox.failed: %w", err)
	}
	if m.consolidationJobs, err = meter.Int64Counter("consolidation.jobs",
		metric.WithDescription("Consolidation jobs executed"), metric.WithUnit("{job}")); err != nil {
		return nil, fmt.Errorf("create consolidation.jobs: %w", err)
	}
	if m.consolidationDuration, err = meter.Float64Histogram("consolidation.job.duration",
		metric.WithDescription("Consolidation job execution time"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(JobDurationBuckets...)); err != nil {
		return nil, fmt.Errorf("create consolidation.job.duration: %w", err)
	}
	return m, nil
}

// OutboxDelivered implements event.DeliveryObserver
func (m *RegistryMetrics) OutboxDelivered(ctx context.Context, eventType string) {
	m.outboxDelivered.Add(ctx, 1, metric.WithAttributes(AttrEventType.String(eventType)))
}

// OutboxFailed implements event.DeliveryObserver
func (m *RegistryMetrics) OutboxFailed(ctx context.Context, eventType string, dead bool) {
	m.outboxFailed.Add(ctx, 1, metric.WithAttributes(AttrEventType.String(eventType), attribute.Bool("dead", dead)))
}

// RecordConsolidationJob records the outcome and duration of one job run.
func (m *RegistryMetrics) RecordConsolidationJob(ctx context.Context, elapsed time.Duration, err error) {
	outcome := "success"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "failure"
	}
	attrs := metric.WithAttributes(AttrOutcome.String(outcome))
	m.consolidationJobs.Add(ctx, 1, attrs)
	m.consolidationDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// ObserveOutbox registers a gauge reporting outbox entries per status.
func (m *RegistryMetrics) ObserveOutbox(counter OutboxStatusCounter) error {
	gauge, err := m.meter.Int64ObservableGauge("outbox.entries",
		metric.WithDescription("Outbox entries by status"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox gauge: %w", err)
	}

	reg, err := m.meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		counts, err := counter.CountByStatus(ctx)
		if err != nil {
			m.logger.Warn("Failed to count outbox entries", zap.Error(err))
			return nil
		}
		for status, n := range counts {
			o.ObserveInt64(gauge, n, metric.WithAttributes(AttrOutboxStatus.String(string(status))))
		}
		return nil
	}, gauge)
	if err != nil {
		return fmt.Errorf("failed to register outbox callback: %w", err)
	}
	m.registrations = append(m.registrations, reg)
	return nil
}

// ObserveDBPool registers gauges for the connection pool returned by stats.
func (m *RegistryMetrics) ObserveDBPool(stats func() sql.DBStats) error {
	conns, err := m.meter.Int64ObservableGauge("db.pool.connections",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connection}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	waits, err := m.meter.Int64ObservableCounter("db.pool.wait_count",
		metric.WithDescription("Total connections waited for"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create pool wait counter: %w", err)
	}

	reg, err := m.meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(conns, int64(s.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(s.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(s.MaxOpenConnections), metric.WithAttributes(AttrDBState.String("max")))
		o.ObserveInt64(waits, s.WaitCount)
		return nil
	}, conns, waits)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	m.registrations = append(m.registrations, reg)
	return nil
}

// Close unregisters all observable callbacks.
func (m *RegistryMetrics) Close() error {
	var errs []error
	for _, reg := range m.registrations {
		errs = append(errs, reg.Unregister())
	}
	m.registrations = nil
	return errors.Join(errs...)
}
