package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextFieldsReachOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "debug", Format: "json", Output: &buf, ServiceName: "test"})

	ctx := l.WithContext(context.Background())
	ctx = SetRunID(ctx, "run-1")
	ctx = WithFields(ctx, Fields{FieldBlob: "a.json"})

	With(Fields{FieldDurationMs: 12}).Debug(ctx, "uploaded %s", "a.json")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "uploaded a.json", line["message"])
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "test", line["service"])
	assert.Equal(t, "run-1", line[FieldRunID])
	assert.Equal(t, "a.json", line[FieldBlob])
	assert.Equal(t, float64(12), line[FieldDurationMs])
	assert.Contains(t, line, "timestamp")

	assert.Equal(t, "run-1", GetRunID(ctx))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "warn", Output: &buf})
	ctx := l.WithContext(context.Background())

	CtxInfo(ctx, "hidden")
	assert.Zero(t, buf.Len())

	CtxWarn(ctx, "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: "loud", Output: &buf})
	ctx := l.WithContext(context.Background())

	CtxDebug(ctx, "hidden")
	CtxInfo(ctx, "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestFromContextWithoutLogger(t *testing.T) {
	assert.Same(t, GetDefault(), FromContext(context.Background()))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_MAX_SIZE", "not-a-number")
	t.Setenv("LOG_COMPRESS", "false")

	cfg := LoadFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, 100, cfg.MaxSize)
	assert.False(t, cfg.Compress)
	assert.Equal(t, "gzblob", cfg.ServiceName)
}
