package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestIdempotentHandler(inner *testHandler, store shared.IdempotencyStore) *IdempotentHandler {
	return NewIdempotentHandler(inner, store, shared.IdempotencyConfig{TTL: time.Hour, Enabled: true}, zap.NewNop())
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	inner := newTestHandler(testEventType)
	h := newTestIdempotentHandler(inner, newFakeIdempotencyStore())
	event := newTestEvent(testEventType)

	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 1)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsDuplicate: 1}, h.Stats())
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	inner := newTestHandler(testEventType)
	inner.setError(errHandler)
	store := newFakeIdempotencyStore()
	h := newTestIdempotentHandler(inner, store)
	event := newTestEvent(testEventType)

	err := h.Handle(context.Background(), event)
	require.ErrorIs(t, err, errHandler)
	assert.Equal(t, []string{event.EventID().String()}, store.removed)

	inner.setError(nil)
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	assert.Equal(t, IdempotencyStats{EventsProcessed: 1, EventsFailed: 1}, h.Stats())
}

func TestIdempotentHandler_StoreErrorStillHandles(t *testing.T) {
	inner := newTestHandler(testEventType)
	store := newFakeIdempotencyStore()
	store.markErr = errors.New("redis down")
	h := newTestIdempotentHandler(inner, store)

	require.NoError(t, h.Handle(context.Background(), newTestEvent(testEventType)))

	assert.Len(t, inner.getHandled(), 1)
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	inner := newTestHandler(testEventType)
	store := newFakeIdempotencyStore()
	h := NewIdempotentHandler(inner, store, shared.IdempotencyConfig{}, zap.NewNop())
	event := newTestEvent(testEventType)

	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Len(t, inner.getHandled(), 2)
	assert.Empty(t, store.processed)
}

func TestIdempotentHandler_EventTypes(t *testing.T) {
	h := newTestIdempotentHandler(newTestHandler("A", "B"), newFakeIdempotencyStore())
	assert.Equal(t, []string{"A", "B"}, h.EventTypes())
}
