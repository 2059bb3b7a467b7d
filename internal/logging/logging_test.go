package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitSetsDefaultLevel(t *testing.T) {
	original := zap.L()
	t.Cleanup(func() {
		zap.ReplaceGlobals(original)
	})

	Init(false)
	logger := zap.L()
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be disabled by default")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn to be enabled by default")
	}

	Init(true)
	logger = zap.L()
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug to be enabled with --debug")
	}
}

func TestNewWritesConsoleLines(t *testing.T) {
	var buf bytes.Buffer
	logger := New(zapcore.AddSync(&buf), zapcore.DebugLevel)

	logger.Debug("resolved tables", zap.Int("shards", 3))
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, "DEBUG") || !strings.Contains(out, "resolved tables") {
		t.Fatalf("unexpected log line %q", out)
	}
	if !strings.Contains(out, `"shards": 3`) {
		t.Fatalf("expected structured field in %q", out)
	}
}
