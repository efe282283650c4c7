package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentLedger, Output: &buf})

	logger.Info("entry created", FieldEntryID, 7)

	out := buf.String()
	assert.Contains(t, out, "component=ledger")
	assert.Contains(t, out, "entry_id=7")
	assert.Equal(t, ComponentLedger, logger.Component())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Component: ComponentApp, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentAuth, Output: &buf})

	logger.LogError(context.Background(), "register failed", errors.New("disk full"), OpRegister, NewFields().WithUser(3))

	out := buf.String()
	assert.Contains(t, out, `error="disk full"`)
	assert.Contains(t, out, "operation=register")
	assert.Contains(t, out, "user_id=3")
}

func TestContextCarriesLogger(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP, Output: &bytes.Buffer{}})

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, "unknown", logger.Component())
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: &buf}).With(FieldRequestID, "req_2")

	logger.WithComponent(ComponentSession).Info("resolved")

	out := buf.String()
	assert.Contains(t, out, "component=session")
	assert.NotContains(t, out, "component=app")
	assert.Contains(t, out, "request_id=req_2")
}
