// Package log is the project-wide levelled logger. It keeps a small printf
// API over a zerolog console logger so callers never import zerolog directly.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level represents the severity of a log message
type Level int

const (
	// LevelDebug is for verbose debugging information
	LevelDebug Level = iota
	// LevelInfo is for important operational events
	LevelInfo
	// LevelWarn is for warnings that don't prevent operation
	LevelWarn
	// LevelError is for errors that may affect functionality
	LevelError
)

const prefix = "[ETL]"

var (
	mu       sync.RWMutex
	output   io.Writer = os.Stderr
	minLevel           = LevelInfo
	logger             = build(output, minLevel)
)

func build(w io.Writer, level Level) zerolog.Logger {
	// Skip logging if output is nil (e.g., during test cleanup)
	if w == nil {
		return zerolog.Nop()
	}
	cw := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(cw).Level(level.zerolog())
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// SetOutput sets the output destination (primarily for testing)
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = build(output, minLevel)
}

// SetLevel sets the minimum log level to display
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
	logger = build(output, minLevel)
}

// GetLevel returns the current minimum log level
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return minLevel
}

// Debug logs a debug message (verbose debugging information)
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Debug().Msgf(prefix+" "+format, args...)
}

// Info logs an info message (important operational events)
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Info().Msgf(prefix+" "+format, args...)
}

// Warn logs a warning message (warnings that don't prevent operation)
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Warn().Msgf(prefix+" "+format, args...)
}

// Error logs an error message (errors that may affect functionality)
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	logger.Error().Msgf(prefix+" "+format, args...)
}
