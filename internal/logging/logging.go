package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init configures the global zap logger on stderr.
// Stdout belongs to report output; nothing here ever writes to it.
func Init(debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	logger := New(zapcore.Lock(os.Stderr), level)
	zap.ReplaceGlobals(logger)
	return logger
}

// New builds a console logger writing to w at the given level.
func New(w zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.TimeKey = ""
	encoderCfg.CallerKey = ""

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), w, zap.NewAtomicLevelAt(level))
	return zap.New(core)
}
