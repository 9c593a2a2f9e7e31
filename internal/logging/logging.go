package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns the process logger. Without debug only warnings and errors are
// written, as JSON, so that command output on stdout stays clean.
func New(debug bool) *zap.Logger {
	return NewWithWriter(os.Stderr, debug)
}

func NewWithWriter(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	encoderConfig := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	if debug {
		level = zapcore.DebugLevel
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))

	return zap.New(core)
}
