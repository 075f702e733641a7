package telemetry_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

type stubOutboxCounter struct {
	counts map[shared.OutboxStatus]int64
	err    error
}

func (s *stubOutboxCounter) CountByStatus(context.Context) (map[shared.OutboxStatus]int64, error) {
	return s.counts, s.err
}

// sumByAttr flattens int64 data points keyed by the value of key.
func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	t.Helper()
	out := make(map[string]int64)
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		for _, dp := range data.DataPoints {
			v, _ := dp.Attributes.Value(key)
			out[v.Emit()] += dp.Value
		}
	case metricdata.Gauge[int64]:
		for _, dp := range data.DataPoints {
			v, _ := dp.Attributes.Value(key)
			out[v.Emit()] += dp.Value
		}
	default:
		t.Fatalf("unexpected data type %T", m.Data)
	}
	return out
}

func newRegistryMetrics(t *testing.T) (*telemetry.RegistryMetrics, func() map[string]metricdata.Metrics) {
	t.Helper()
	reader, provider := newManualMeter(t)
	m, err := telemetry.NewRegistryMetrics(provider.Meter(telemetry.MeterName), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m, func() map[string]metricdata.Metrics { return collect(t, reader) }
}

func TestRegistryMetrics_OutboxDelivery(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	ctx := context.Background()

	m.OutboxDelivered(ctx, "ActorActivated")
	m.OutboxDelivered(ctx, "ActorActivated")
	m.OutboxFailed(ctx, "GridAreaOwnershipAssigned", false)
	m.OutboxFailed(ctx, "GridAreaOwnershipAssigned", true)

	metrics := collectAll()
	assert.Equal(t, map[string]int64{"ActorActivated": 2},
		sumByAttr(t, metrics["outbox.delivered"], telemetry.AttrEventType))
	assert.Equal(t, map[string]int64{"true": 1, "false": 1},
		sumByAttr(t, metrics["outbox.failed"], attribute.Key("dead")))
}

func TestRegistryMetrics_RecordConsolidationJob(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	ctx := context.Background()

	m.RecordConsolidationJob(ctx, time.Second, nil)
	m.RecordConsolidationJob(ctx, 2*time.Second, errors.New("boom"))
	m.RecordConsolidationJob(ctx, 5*time.Minute, fmt.Errorf("execute: %w", context.DeadlineExceeded))

	metrics := collectAll()
	assert.Equal(t, map[string]int64{"success": 1, "failure": 1, "timeout": 1},
		sumByAttr(t, metrics["consolidation.jobs"], telemetry.AttrOutcome))

	hist, ok := metrics["consolidation.job.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(3), count)
}

func TestRegistryMetrics_ObserveOutbox(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	counter := &stubOutboxCounter{counts: map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusDead:    1,
	}}
	require.NoError(t, m.ObserveOutbox(counter))

	assert.Equal(t, map[string]int64{"PENDING": 3, "DEAD": 1},
		sumByAttr(t, collectAll()["outbox.entries"], telemetry.AttrOutboxStatus))
}

func TestRegistryMetrics_ObserveOutbox_CountError(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	require.NoError(t, m.ObserveOutbox(&stubOutboxCounter{err: errors.New("db down")}))

	_, ok := collectAll()["outbox.entries"]
	assert.False(t, ok)
}

func TestRegistryMetrics_ObserveDBPool(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	require.NoError(t, m.ObserveDBPool(func() sql.DBStats {
		return sql.DBStats{MaxOpenConnections: 25, InUse: 4, Idle: 6, WaitCount: 9}
	}))

	metrics := collectAll()
	assert.Equal(t, map[string]int64{"in_use": 4, "idle": 6, "max": 25},
		sumByAttr(t, metrics["db.pool.connections"], telemetry.AttrDBState))

	waits, ok := metrics["db.pool.wait_count"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, waits.DataPoints, 1)
	assert.Equal(t, int64(9), waits.DataPoints[0].Value)
}

func TestRegistryMetrics_CloseUnregisters(t *testing.T) {
	m, collectAll := newRegistryMetrics(t)
	require.NoError(t, m.ObserveOutbox(&stubOutboxCounter{counts: map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 1,
	}}))

	require.NoError(t, m.Close())
	_, ok := collectAll()["outbox.entries"]
	assert.False(t, ok)
}
