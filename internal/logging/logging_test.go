package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")
	_ = logger.Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestNewWithWriterDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true)

	logger.Debug("session transition")
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "session transition")
	assert.Contains(t, buf.String(), "DEBUG")
}
