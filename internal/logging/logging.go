// Package logging provides leveled, structured logging for panelink.
//
// The API mirrors a small printf-style logger (Debug, Info, Warn, Error with
// format arguments, plus WithField/WithComponent) and writes through zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents the severity level of a log message.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// zerolog maps the level to the zerolog equivalent.
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

// ParseLevel parses a string into a Level. Unknown values map to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "warning", "error",
		"DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// Config configures a Logger.
type Config struct {
	// Level is the minimum level to output.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// App is attached to every line as the "app" field.
	App string
	// Console renders human-readable lines instead of JSON.
	Console bool
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		App:     "panelink",
		Console: true,
	}
}

// Logger is a leveled logger. The zero value is not usable; use New or Null.
type Logger struct {
	mu       *sync.Mutex
	zl       zerolog.Logger
	disabled bool
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Console {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}
	zctx := zerolog.New(out).Level(cfg.Level.zerolog()).With().Timestamp()
	if cfg.App != "" {
		zctx = zctx.Str("app", cfg.App)
	}
	return &Logger{
		mu: &sync.Mutex{},
		zl: zctx.Logger(),
	}
}

// Null returns a logger that discards everything.
func Null() *Logger {
	return &Logger{
		mu:       &sync.Mutex{},
		zl:       zerolog.Nop(),
		disabled: true,
	}
}

// WithField returns a child logger with key=value attached to every line.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{
		mu:       l.mu,
		zl:       l.zl.With().Interface(key, value).Logger(),
		disabled: l.disabled,
	}
}

// WithFields returns a child logger with all fields attached.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{
		mu:       l.mu,
		zl:       l.zl.With().Fields(fields).Logger(),
		disabled: l.disabled,
	}
}

// WithComponent returns a child logger with the component field set.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl = l.zl.Level(level.zerolog())
}

// SetGlobalLevel sets the minimum level for every logger, including child
// loggers created earlier.
func SetGlobalLevel(level Level) {
	zerolog.SetGlobalLevel(level.zerolog())
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LevelDebug, msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LevelError, msg, args...)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if l == nil || l.disabled {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.zl.WithLevel(level.zerolog()).Msg(msg)
}
