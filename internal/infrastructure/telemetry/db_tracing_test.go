package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedJob struct {
	ID      uint   `gorm:"primaryKey"`
	JobCode string `gorm:"size:32"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedJob{}))
	require.NoError(t, NewDBTracingPlugin(cfg, zaptest.NewLogger(t)).RegisterOtelGorm(db))
	return db
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), nil).RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Query().Get("ledger_timing:after_query"))
}

func TestDBTracingPlugin_ProducesSpans(t *testing.T) {
	sr := setupTestTracer(t)
	db := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite"})

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&tracedJob{JobCode: "JOB-202610-00001"}).Error)
	var out []tracedJob
	require.NoError(t, db.WithContext(ctx).Find(&out).Error)

	assert.GreaterOrEqual(t, len(sr.Ended()), 2)
}

func TestAnnotate_SlowQueryAndTable(t *testing.T) {
	sr := setupTestTracer(t)
	ctx, span := StartSpan(context.Background(), "gorm.Query")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))

	db := &gorm.DB{RowsAffected: 7, Statement: &gorm.Statement{Context: ctx, Table: "jobs"}}
	NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 100 * time.Millisecond}, nil).annotate(db)
	span.End()

	s := sr.Ended()[0]
	attrs := attrMap(s.Attributes())
	assert.Equal(t, "jobs", attrs["db.sql.table"].AsString())
	assert.EqualValues(t, 7, attrs["db.rows_affected"].AsInt64())
	assert.True(t, attrs["db.slow_query"].AsBool())
	require.Len(t, s.Events(), 1)
	assert.Equal(t, "slow_query_warning", s.Events()[0].Name)
}

func TestAnnotate_Errors(t *testing.T) {
	sr := setupTestTracer(t)
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)

	ctx, failed := StartSpan(context.Background(), "gorm.Create")
	p.annotate(&gorm.DB{Error: errors.New("relation does not exist"), Statement: &gorm.Statement{Context: ctx}})
	failed.End()

	ctx, missing := StartSpan(context.Background(), "gorm.Query")
	p.annotate(&gorm.DB{Error: gorm.ErrRecordNotFound, Statement: &gorm.Statement{Context: ctx}})
	missing.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.NotEqual(t, codes.Error, spans[1].Status().Code)
}

func TestDBTracingPlugin_DoubleRegistration(t *testing.T) {
	db := setupTracedDB(t, DBTracingConfig{Enabled: true, DBSystem: "sqlite"})
	err := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil).RegisterOtelGorm(db)
	assert.Error(t, err)
}

func TestAnnotate_NonRecordingSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()), sdktrace.WithSpanProcessor(tracetest.NewSpanRecorder()))
	ctx, span := tp.Tracer("t").Start(context.Background(), "unsampled")
	defer span.End()

	db := &gorm.DB{Statement: &gorm.Statement{Context: ctx}}
	p := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)
	assert.NotPanics(t, func() { p.annotate(db) })

	db.Statement.Context = nil
	assert.NotPanics(t, func() { p.annotate(db) })
}
