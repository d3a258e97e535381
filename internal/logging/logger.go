// Package logging wraps zap for dupfind's CLI: a colorized console
// encoder by default, switchable to JSON for machine consumption.
// Scaled down from quantmind-br-gendocs/internal/logging/logger.go,
// which logs to both a file and the console — a CLI tool has no log
// directory to manage, so this wrapper writes to stderr only.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field is a type alias for zap.Field.
type Field = zap.Field

// Common field constructors, re-exported so callers never import zap directly.
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Error    = zap.Error
	Err      = zap.NamedError
	Duration = zap.Duration
)

// Format selects the console encoder.
type Format string

const (
	// FormatConsole is the human-readable, colorized default.
	FormatConsole Format = "console"
	// FormatJSON emits one JSON object per line.
	FormatJSON Format = "json"
)

// Logger wraps zap.Logger with the small surface dupfind's packages use.
type Logger struct {
	zap *zap.Logger
}

// New builds a Logger writing to stderr in the given format at the
// given level ("debug", "info", "warn", "error"; default "info").
func New(format Format, level string) *Logger {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	var encoder zapcore.Encoder
	switch format {
	case FormatJSON:
		prodConfig := zap.NewProductionEncoderConfig()
		prodConfig.TimeKey = "timestamp"
		prodConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(prodConfig)
	default:
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), levelFromString(level))
	return &Logger{zap: zap.New(core)}
}

// Nop returns a Logger that discards everything, for tests.
func Nop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

func levelFromString(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...Field) { l.zap.Debug(msg, fields...) }

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...Field) { l.zap.Info(msg, fields...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...Field) { l.zap.Warn(msg, fields...) }

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...Field) { l.zap.Error(msg, fields...) }

// Fatal logs a message and exits the process. Reserved for the startup
// errors the CLI treats as fatal (bad config, cache open failure).
func (l *Logger) Fatal(msg string, fields ...Field) { l.zap.Fatal(msg, fields...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.zap.Sync() }

// With creates a child logger with additional fields attached.
func (l *Logger) With(fields ...Field) *Logger { return &Logger{zap: l.zap.With(fields...)} }
