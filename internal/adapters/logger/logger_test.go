package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/lode/internal/adapters/logger"
)

func TestLogger_Info_WritesMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Info("resolved workspace", "packages", 3)

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "resolved workspace")
	assert.Contains(t, out, "packages=3")
}

func TestLogger_Error_WrapsError(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Error(errors.New("index unreachable"))

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "index unreachable")
}

func TestLogger_Debug_SuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Debug("decided", "package", "requests")

	assert.Empty(t, buf.String())
}
