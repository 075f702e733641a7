package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingObserver struct {
	mu        sync.Mutex
	delivered []string
	failed    []string
	dead      int
}

func (o *recordingObserver) OutboxDelivered(ctx context.Context, eventType string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered = append(o.delivered, eventType)
}

func (o *recordingObserver) OutboxFailed(ctx context.Context, eventType string, dead bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, eventType)
	if dead {
		o.dead++
	}
}

type processorFixture struct {
	repo      *fakeOutboxRepository
	handler   *testHandler
	observer  *recordingObserver
	processor *OutboxProcessor
}

func newProcessorFixture(t *testing.T, config OutboxProcessorConfig) *processorFixture {
	t.Helper()
	serializer := NewEventSerializer()
	serializer.Register(testEventType, func() shared.DomainEvent { return &testEvent{} })

	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler(testEventType)
	bus.Subscribe(handler)

	f := &processorFixture{
		repo:     &fakeOutboxRepository{},
		handler:  handler,
		observer: &recordingObserver{},
	}
	f.processor = NewOutboxProcessor(f.repo, bus, serializer, config, zap.NewNop(), f.observer)
	return f
}

func (f *processorFixture) enqueue(t *testing.T, events ...*testEvent) []*shared.OutboxEntry {
	t.Helper()
	serializer := NewEventSerializer()
	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, e := range events {
		payload, err := serializer.Serialize(e)
		require.NoError(t, err)
		entries = append(entries, shared.NewOutboxEntry(e, payload))
	}
	require.NoError(t, f.repo.Save(context.Background(), entries...))
	return entries
}

func TestOutboxProcessor_DeliversPending(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	event := newTestEvent(testEventType)
	entries := f.enqueue(t, event, newTestEvent(testEventType))

	f.processor.ProcessBatch(context.Background())

	handled := f.handler.getHandled()
	require.Len(t, handled, 2)
	assert.Equal(t, event.EventID(), handled[0].EventID())
	assert.Equal(t, "test data", handled[0].(*testEvent).Data)
	for _, e := range entries {
		assert.Equal(t, shared.OutboxStatusSent, e.Status)
		assert.NotNil(t, e.ProcessedAt)
	}
	assert.Equal(t, []string{testEventType, testEventType}, f.observer.delivered)
	assert.Equal(t, 2, f.repo.updates)
}

func TestOutboxProcessor_HandlerFailureSchedulesRetry(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	f.handler.setError(errHandler)
	entries := f.enqueue(t, newTestEvent(testEventType))

	f.processor.ProcessBatch(context.Background())

	entry := entries[0]
	assert.Equal(t, shared.OutboxStatusFailed, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	assert.Contains(t, entry.LastError, errHandler.Error())
	require.NotNil(t, entry.NextRetryAt)
	assert.True(t, entry.NextRetryAt.After(time.Now().UTC()))
	assert.Equal(t, []string{testEventType}, f.observer.failed)
	assert.Zero(t, f.observer.dead)
}

func TestOutboxProcessor_RetriesDueEntries(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	entries := f.enqueue(t, newTestEvent(testEventType))
	entry := entries[0]
	entry.MarkFailed("earlier failure")
	past := time.Now().UTC().Add(-time.Minute)
	entry.NextRetryAt = &past

	f.processor.ProcessBatch(context.Background())

	assert.Equal(t, shared.OutboxStatusSent, entry.Status)
	assert.Len(t, f.handler.getHandled(), 1)
}

func TestOutboxProcessor_LastAttemptGoesDead(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	f.handler.setError(errHandler)
	entries := f.enqueue(t, newTestEvent(testEventType))
	entry := entries[0]
	entry.RetryCount = entry.MaxRetries - 1

	f.processor.ProcessBatch(context.Background())

	assert.True(t, entry.IsDead())
	assert.Equal(t, 1, f.observer.dead)
}

func TestOutboxProcessor_UnknownEventTypeFails(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	entries := f.enqueue(t, newTestEvent("Unregistered"))

	f.processor.ProcessBatch(context.Background())

	assert.Equal(t, shared.OutboxStatusFailed, entries[0].Status)
	assert.Contains(t, entries[0].LastError, "unknown event type")
	assert.Empty(t, f.handler.getHandled())
}

func TestOutboxProcessor_OnlyDeliversClaimedEntries(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	f.repo.claimLimit = 1
	entries := f.enqueue(t, newTestEvent(testEventType), newTestEvent(testEventType))

	f.processor.ProcessBatch(context.Background())

	assert.Len(t, f.handler.getHandled(), 1)
	assert.Equal(t, shared.OutboxStatusSent, entries[0].Status)
	assert.Equal(t, shared.OutboxStatusPending, entries[1].Status)
}

func TestOutboxProcessor_FindErrorIsLogged(t *testing.T) {
	f := newProcessorFixture(t, DefaultOutboxProcessorConfig())
	f.enqueue(t, newTestEvent(testEventType))
	f.repo.findErr = errors.New("db down")

	f.processor.ProcessBatch(context.Background())

	assert.Empty(t, f.handler.getHandled())
}

func TestOutboxProcessor_Cleanup(t *testing.T) {
	config := DefaultOutboxProcessorConfig()
	config.CleanupRetention = time.Hour
	f := newProcessorFixture(t, config)
	entries := f.enqueue(t, newTestEvent(testEventType), newTestEvent(testEventType))
	entries[0].MarkSent()
	old := time.Now().UTC().Add(-2 * time.Hour)
	entries[0].ProcessedAt = &old
	entries[1].MarkSent()

	f.processor.cleanup(context.Background())

	counts, err := f.repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestOutboxProcessor_StartStop(t *testing.T) {
	config := DefaultOutboxProcessorConfig()
	config.PollInterval = 10 * time.Millisecond
	config.CleanupEnabled = false
	f := newProcessorFixture(t, config)
	f.enqueue(t, newTestEvent(testEventType))

	require.NoError(t, f.processor.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return len(f.handler.getHandled()) == 1
	}, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.processor.Stop(ctx))
}
