package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New creates a zap logger configured for console output with line numbers
// and no timestamps. Logs go to stderr so that stdout carries only the
// workflow progress lines.
func New(debug bool) (*zap.Logger, error) {
	return newWithOutput(debug, "stderr")
}

// newWithOutput is New with an explicit zap output path ("stderr", "stdout"
// or a file path).
func newWithOutput(debug bool, output string) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "level",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   zapcore.CapitalColorLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
		// TimeKey is omitted to remove timestamps
	}

	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       debug,
		Encoding:          "console",
		EncoderConfig:     encoderConfig,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		DisableCaller:     !debug,
		DisableStacktrace: !debug,
	}

	return config.Build()
}

// Log file rotation settings.
const (
	LogMaxSizeMB   = 10
	LogMaxBackups  = 3
	LogMaxAgeDays  = 28
	runIDFieldName = "run_id"
)

// NewWithFile returns a logger that writes to stderr like New and also
// appends JSON records to a size-rotated file at path. Every file record
// carries a run_id shared by one invocation. Close the returned io.Closer
// when done.
func NewWithFile(debug bool, path string) (*zap.Logger, io.Closer, error) {
	console, err := New(debug)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    LogMaxSizeMB,
		MaxBackups: LogMaxBackups,
		MaxAge:     LogMaxAgeDays,
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(lj),
		level,
	).With([]zapcore.Field{zap.String(runIDFieldName, uuid.NewString())})

	return zap.New(zapcore.NewTee(console.Core(), fileCore), zap.AddCaller()), lj, nil
}
