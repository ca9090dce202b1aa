package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew_RejectsBadLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithContext_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	WithContext(ctx, base).Info("priced")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])

	WithContext(context.Background(), base).Info("no span")
	assert.NotContains(t, logs.All()[1].ContextMap(), "trace_id")
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormLogger(zap.New(core), DefaultGormLoggerConfig())

	sql := func() (string, int64) { return "SELECT * FROM reference_sheets", 0 }

	l.Trace(context.Background(), time.Now(), sql, gormlogger.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "reference query failed", entry.Message)
	assert.Equal(t, "reference_sheets", entry.ContextMap()["table"])

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow reference query", logs.All()[1].Message)

	l.Trace(context.Background(), time.Now(), sql, nil)
	assert.Equal(t, 2, logs.Len())

	verbose := l.LogMode(gormlogger.Info)
	verbose.Trace(context.Background(), time.Now(), sql, nil)
	require.Equal(t, 3, logs.Len())
	assert.Equal(t, zapcore.DebugLevel, logs.All()[2].Level)
}

func TestStatementTable(t *testing.T) {
	assert.Equal(t, "reference_rows", statementTable(`INSERT INTO "reference_rows" ("id") VALUES (1)`))
	assert.Equal(t, "reference_sheets", statementTable("SELECT * FROM `reference_sheets` WHERE name = ?"))
	assert.Equal(t, "reference_sheets", statementTable("UPDATE reference_sheets SET row_count = 2"))
	assert.Equal(t, "", statementTable("BEGIN"))
}

func TestNew(t *testing.T) {
	log, err := New(nil, Config{Level: "", Format: "console", SampleBurst: 10})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
