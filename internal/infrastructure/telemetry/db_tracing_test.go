package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type probe struct {
	ID int
}

func setupMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, sr
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_FillsDefaults(t *testing.T) {
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.Equal(t, 200*time.Millisecond, p.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", p.config.DBSystem)
}

func TestRegisterOtelGorm_Disabled(t *testing.T) {
	db, _ := setupMockGorm(t)

	err := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).RegisterOtelGorm(db)
	require.NoError(t, err)
	assert.Nil(t, db.Callback().Query().Get("otel_slow_query:query"))
}

func TestRegisterOtelGorm_Enabled(t *testing.T) {
	db, _ := setupMockGorm(t)
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true

	err := NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db)
	require.NoError(t, err)
	assert.NotNil(t, db.Callback().Query().Get("otel_slow_query:query"))
	assert.NotNil(t, db.Callback().Raw().Get("otel_timing:before_raw"))
}

func TestCallbacks_AnnotateSpan(t *testing.T) {
	db, mock := setupMockGorm(t)
	tp, sr := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	mock.ExpectQuery(`SELECT \* FROM "probes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	var out []probe
	require.NoError(t, db.WithContext(ctx).Table("probes").Find(&out).Error)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	attrs := map[string]any{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(2), attrs["db.rows_affected"])
	assert.Equal(t, "probes", attrs["db.sql.table"])
	assert.NotContains(t, attrs, "db.slow_query")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallbacks_SlowQuery(t *testing.T) {
	db, mock := setupMockGorm(t)
	tp, sr := setupRecorder(t)
	core, logs := observer.New(zap.WarnLevel)

	p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Nanosecond}, zap.New(core))
	require.NoError(t, p.registerCallbacks(db))

	mock.ExpectQuery(`SELECT \* FROM "probes"`).
		WillDelayFor(5 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	var out []probe
	require.NoError(t, db.WithContext(ctx).Table("probes").Find(&out).Error)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	var slow bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "db.slow_query" {
			slow = kv.Value.AsBool()
		}
	}
	assert.True(t, slow)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
	assert.Equal(t, 1, logs.FilterMessage("slow query").Len())
}

func TestCallbacks_RecordsError(t *testing.T) {
	db, mock := setupMockGorm(t)
	tp, sr := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	mock.ExpectQuery(`SELECT \* FROM "probes"`).WillReturnError(errors.New("connection reset"))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	var out []probe
	require.Error(t, db.WithContext(ctx).Table("probes").Find(&out).Error)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "connection reset", spans[0].Status().Description)
}

func TestCallbacks_RecordNotFoundIsNotAnError(t *testing.T) {
	db, mock := setupMockGorm(t)
	tp, sr := setupRecorder(t)

	p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Hour}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	mock.ExpectQuery(`SELECT \* FROM "probes"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	var out probe
	err := db.WithContext(ctx).Table("probes").First(&out).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestAfterCallback_NoSpan(t *testing.T) {
	db, mock := setupMockGorm(t)
	p := NewDBTracingPlugin(DBTracingConfig{SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	require.NoError(t, p.registerCallbacks(db))

	mock.ExpectQuery(`SELECT \* FROM "probes"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	var out []probe
	assert.NotPanics(t, func() {
		require.NoError(t, db.WithContext(context.Background()).Table("probes").Find(&out).Error)
	})
}
