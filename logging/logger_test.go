package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedLogger(level LogLevel) (*HiveLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: &buf}), &buf
}

func newJSONSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestHiveLogger_KeyValueArgsBecomeAttrs(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelDebug)

	// Components call the Logger interface with slog-style pairs.
	l.Debug("message delivered", "sender", "ada", "recipient", "bob")

	record := decodeLine(t, buf)
	assert.Equal(t, "message delivered", record["msg"], "message text must stay untouched")
	assert.Equal(t, "ada", record["sender"])
	assert.Equal(t, "bob", record["recipient"])
	assert.NotContains(t, buf.String(), "%!", "pairs must not be formatted into the message")
}

func TestHiveLogger_DanglingKey(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelDebug)
	l.Info("odd args", "sender")

	record := decodeLine(t, buf)
	assert.Equal(t, "odd args", record["msg"])
	assert.Equal(t, "sender", record[badKey])
}

func TestHiveLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelWarn)

	l.Debug("suppressed")
	l.Info("suppressed")
	assert.Zero(t, buf.Len())

	l.Warn("emitted", "k", "v")
	assert.NotZero(t, buf.Len())
}

func TestHiveLogger_ContextualClones(t *testing.T) {
	base, buf := newBufferedLogger(LogLevelDebug)
	l := base.WithComponent("broker").WithAgent("ada").WithContext("run", "r1")

	l.Info("delivering")
	record := decodeLine(t, buf)
	assert.Equal(t, "broker", record["component"])
	assert.Equal(t, "ada", record["agent"])
	assert.Equal(t, "r1", record["run"])

	// The base logger is unaffected by the clones.
	buf.Reset()
	base.Info("plain")
	record = decodeLine(t, buf)
	assert.NotContains(t, record, "component")
	assert.NotContains(t, record, "agent")
}

func TestHiveLogger_LogTaskExecution(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelDebug)

	l.LogTaskExecution("t1", "ada", 250*time.Millisecond, true, nil)
	record := decodeLine(t, buf)
	assert.Equal(t, "t1", record["task_id"])
	assert.Equal(t, "ada", record["assigned_to"])
	assert.Equal(t, true, record["success"])

	buf.Reset()
	l.LogTaskExecution("t2", "ada", time.Millisecond, false, errors.New("boom"))
	record = decodeLine(t, buf)
	assert.Equal(t, false, record["success"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "ERROR", record["level"])
}

func TestHiveLogger_LogWorkflowExecution(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelDebug)

	l.LogWorkflowExecution("wf1", 3, 2, 1, time.Second)
	record := decodeLine(t, buf)
	assert.Equal(t, "wf1", record["workflow_id"])
	assert.Equal(t, float64(3), record["total"])
	assert.Equal(t, float64(1), record["failed"])
	assert.Equal(t, "WARN", record["level"])
}

func TestHiveLogger_LogMessageDelivery(t *testing.T) {
	l, buf := newBufferedLogger(LogLevelDebug)

	l.LogMessageDelivery("ada", "bob", "task_request", true)
	record := decodeLine(t, buf)
	assert.Equal(t, "Message delivered", record["msg"])
	assert.Equal(t, true, record["delivered"])

	buf.Reset()
	l.LogMessageDelivery("ada", "ghost", "task_request", false)
	record = decodeLine(t, buf)
	assert.Equal(t, "Message dropped", record["msg"])
	assert.Equal(t, "WARN", record["level"])
}

func TestSlogAdapter_PassesPairsThrough(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(newJSONSlog(&buf))

	l.Info("message delivered", "sender", "ada")
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ada", record["sender"])
	assert.False(t, strings.Contains(buf.String(), "%!"))
}
