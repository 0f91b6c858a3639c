// Package logger provides levelled logging for flightsync, backed by zap.
//
// Warnings, errors and events are always written. Debug and info messages,
// and section headers, are only written when verbose mode is enabled via the
// --verbose flag. The daemon switches to JSON output with --log-json.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu         sync.RWMutex
	verbose    bool
	jsonFormat bool
	output     io.Writer = os.Stderr
	sugar                = build(false, false, os.Stderr)
	events               = buildEvents(false, os.Stderr)
)

// build creates the zap logger for the current settings (caller must hold lock).
func build(verbose, jsonFormat bool, w io.Writer) *zap.SugaredLogger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	return newSugar(jsonFormat, w, level)
}

// buildEvents creates the logger for outcome events, which ignore verbosity.
func buildEvents(jsonFormat bool, w io.Writer) *zap.SugaredLogger {
	return newSugar(jsonFormat, w, zapcore.InfoLevel)
}

func newSugar(jsonFormat bool, w io.Writer, level zapcore.Level) *zap.SugaredLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if jsonFormat {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Sugar()
}

func rebuild() {
	sugar = build(verbose, jsonFormat, output)
	events = buildEvents(jsonFormat, output)
}

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	rebuild()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetJSON switches between console and JSON encoding.
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonFormat = v
	rebuild()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	rebuild()
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return sugar.Sync()
}

// Debug logs a formatted message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infof("=== %s ===", name)
}

// Info logs a formatted message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infof(format, args...)
}

// Infow logs a message with key/value fields if verbose mode is enabled.
func Infow(msg string, keysAndValues ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infow(msg, keysAndValues...)
}

// Event logs the outcome of a background operation with key/value fields.
// Events are written regardless of verbose mode.
func Event(msg string, keysAndValues ...any) {
	mu.RLock()
	defer mu.RUnlock()
	events.Infow(msg, keysAndValues...)
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnf(format, args...)
}

// Error logs a formatted error.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorf(format, args...)
}
