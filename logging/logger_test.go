package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newBufferLogger(level LogLevel) (*DuetLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: level, Format: "text", Output: &buf})
	return l, &buf
}

func TestDuetLoggerKeyValueArgs(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.Info("agent initialized", "name", "llama3:latest", "model", "llama3:latest")

	out := buf.String()
	assert.Contains(t, out, `msg="agent initialized"`)
	assert.Contains(t, out, "name=llama3:latest")
	assert.Contains(t, out, "model=llama3:latest")
	assert.NotContains(t, out, "%!")
}

func TestDuetLoggerLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)
	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestDuetLoggerContextualClones(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.WithComponent("conversation").WithRun("run-1", "model-a").Info("turn complete", "round", 2)

	out := buf.String()
	assert.Contains(t, out, "component=conversation")
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "agent=model-a")
	assert.Contains(t, out, "round=2")

	// The clone must not leak back into the base logger.
	buf.Reset()
	l.Info("plain")
	assert.NotContains(t, buf.String(), "component=")
}

func TestDuetLoggerOddArgCount(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.Info("lonely value", "dangling")
	assert.Contains(t, buf.String(), "!BADKEY=dangling")
}

func TestLogModelCall(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)
	l.LogModelCall("llama3:latest", 1500*time.Millisecond, true, nil)
	assert.Contains(t, buf.String(), "model=llama3:latest")
	assert.Contains(t, buf.String(), "success=true")

	buf.Reset()
	l.LogModelCall("llama3:latest", time.Second, false, errors.New("boom"))
	assert.Contains(t, buf.String(), "success=false")
	assert.Contains(t, buf.String(), "error=boom")
}
