package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var outboxColumns = []string{
	"id", "event_id", "event_type", "aggregate_id", "aggregate_type", "payload", "status",
	"retry_count", "max_retries", "last_error", "next_retry_at", "processed_at", "created_at", "updated_at",
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func addOutboxRow(rows *sqlmock.Rows, e *shared.OutboxEntry) *sqlmock.Rows {
	return rows.AddRow(e.ID, e.EventID, e.EventType, e.AggregateID, e.AggregateType, e.Payload, e.Status,
		e.RetryCount, e.MaxRetries, e.LastError, e.NextRetryAt, e.ProcessedAt, e.CreatedAt, e.UpdatedAt)
}

func newTestEntry(t *testing.T) *shared.OutboxEntry {
	t.Helper()
	return shared.NewOutboxEntry(newTestEvent(testEventType), []byte(`{"data":"test data"}`))
}

func TestGormOutboxRepository_Save(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	mock.ExpectExec(`INSERT INTO "outbox_events"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.Save(context.Background(), newTestEntry(t), newTestEntry(t))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Save_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	require.NoError(t, repo.Save(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindPending(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	entry := newTestEntry(t)

	mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE status = \$1 ORDER BY created_at LIMIT \$2`).
		WithArgs(shared.OutboxStatusPending, 10).
		WillReturnRows(addOutboxRow(sqlmock.NewRows(outboxColumns), entry))

	entries, err := repo.FindPending(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry.ID, entries[0].ID)
	assert.Equal(t, entry.EventID, entries[0].EventID)
	assert.Equal(t, testEventType, entries[0].EventType)
	assert.Equal(t, entry.Payload, entries[0].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_FindRetryable(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE status = \$1 AND next_retry_at <= \$2 ORDER BY next_retry_at LIMIT \$3`).
		WithArgs(shared.OutboxStatusFailed, now, 5).
		WillReturnRows(sqlmock.NewRows(outboxColumns))

	entries, err := repo.FindRetryable(context.Background(), now, 5)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_MarkProcessing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	entry := newTestEntry(t)
	other := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "outbox_events" WHERE id IN \(\$1,\$2\) AND status IN \(\$3,\$4\) FOR UPDATE SKIP LOCKED`).
		WithArgs(entry.ID, other, shared.OutboxStatusPending, shared.OutboxStatusFailed).
		WillReturnRows(addOutboxRow(sqlmock.NewRows(outboxColumns), entry))
	mock.ExpectExec(`UPDATE "outbox_events" SET "status"=\$1,"updated_at"=\$2 WHERE id IN \(\$3\)`).
		WithArgs(shared.OutboxStatusProcessing, sqlmock.AnyArg(), entry.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{entry.ID, other})

	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, entry.ID, claimed[0].ID)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_MarkProcessing_NothingClaimed(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
		WillReturnRows(sqlmock.NewRows(outboxColumns))
	mock.ExpectCommit()

	claimed, err := repo.MarkProcessing(context.Background(), []uuid.UUID{id})

	require.NoError(t, err)
	assert.Empty(t, claimed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_MarkProcessing_Rollback(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE SKIP LOCKED`).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := repo.MarkProcessing(context.Background(), []uuid.UUID{uuid.New()})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	entry := newTestEntry(t)
	entry.MarkSent()

	mock.ExpectExec(`UPDATE "outbox_events" SET .* WHERE "outbox_events"."id" = \$7`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_DeleteOlderThan(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)
	cutoff := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectExec(`DELETE FROM "outbox_events" WHERE status = \$1 AND processed_at < \$2`).
		WithArgs(shared.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormOutboxRepository_CountByStatus(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormOutboxRepository(db)

	mock.ExpectQuery(`SELECT status, count\(\*\) AS count FROM "outbox_events" GROUP BY .*status`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(shared.OutboxStatusPending, 4).
			AddRow(shared.OutboxStatusDead, 1))

	counts, err := repo.CountByStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 4,
		shared.OutboxStatusDead:    1,
	}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
