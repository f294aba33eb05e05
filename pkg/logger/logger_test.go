package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	wrap "github.com/Temutjin2k/forum-api/pkg/logger/wrapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	return rec
}

func TestLogger_InjectsLogContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "forum-api", LevelDebug)

	ctx := wrap.WithAction(context.Background(), "login")
	ctx = wrap.WithRequestID(ctx, "req-1")
	ctx = wrap.WithUserID(ctx, "7")

	l.Info(ctx, "hello", "k", "v")

	rec := decodeLine(t, &buf)
	assert.Equal(t, "hello", rec["message"])
	assert.Equal(t, "forum-api", rec["service"])
	assert.Equal(t, "login", rec["action"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "7", rec["user_id"])
	assert.Equal(t, "v", rec["k"])
	assert.Contains(t, rec, "timestamp")
}

func TestLogger_ErrorCarriesWrappedContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "forum-api", LevelDebug)

	inner := wrap.WithAction(context.Background(), "find_user")
	err := wrap.Error(inner, errors.New("boom"))

	l.Error(wrap.ErrorCtx(context.Background(), err), "lookup failed", err)

	rec := decodeLine(t, &buf)
	assert.Equal(t, "find_user", rec["action"])
	errGroup, ok := rec["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", errGroup["msg"])
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "forum-api", LevelWarn)

	l.Info(context.Background(), "dropped")
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "kept")
	assert.NotZero(t, buf.Len())
}

func TestValidateLogLevel(t *testing.T) {
	assert.True(t, ValidateLogLevel(LevelInfo))
	assert.False(t, ValidateLogLevel("TRACE"))
}
