// Package logging is the zerolog-backed logger shared by the CLI and the
// conversion packages. Entries go to stderr as JSON or console text.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ContextKey namespaces values this package stores in a context.
type ContextKey string

// RunIDKey carries the conversion run id through a context.
const RunIDKey ContextKey = "run_id"

// ContextWithRunID returns a copy of ctx carrying the given run id.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// RunIDFromContext returns the run id stored in ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	runID, _ := ctx.Value(RunIDKey).(string)
	return runID
}

// Level represents logging severity levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// IsValid reports whether l is one of the known levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// Config controls NewLogger.
type Config struct {
	Level       Level
	ServiceName string // stamped on every entry as service_name
	JSONFormat  bool
	Output      io.Writer // nil means os.Stderr
}

// DefaultConfig returns a Config with sensible defaults for interactive use.
func DefaultConfig() *Config {
	return &Config{
		Level:       LevelInfo,
		ServiceName: "chatview",
		JSONFormat:  false,
		Output:      os.Stderr,
	}
}

// Logger is the structured logger used across the conversion pipeline.
// Implementations write to stderr so rendered output on stdout stays clean.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a Logger that adds fields to every entry.
	With(fields ...Field) Logger

	// WithContext returns a Logger that tags entries with the run id in ctx.
	WithContext(ctx context.Context) Logger
}

// Field is one key-value pair of a log entry.
type Field struct {
	Key   string
	Value any
}

// F creates a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Err creates the "error" Field.
func Err(err error) Field {
	return Field{Key: zerolog.ErrorFieldName, Value: err}
}

type logger struct {
	zl zerolog.Logger
}

// NewLogger builds a zerolog-backed Logger. Console output is coloured only
// when the destination is a terminal.
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if !cfg.JSONFormat {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
			NoColor:    !isTerminal(out),
		}
	}

	zl := zerolog.New(out).
		Level(zerologLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service_name", cfg.ServiceName).
		Logger()

	return &logger{zl: zl}
}

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger {
	return &logger{zl: zerolog.Nop()}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// zerologLevel maps a Level onto zerolog, defaulting to info.
func zerologLevel(l Level) zerolog.Level {
	lvl, err := zerolog.ParseLevel(string(l))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), msg, fields) }
func (l *logger) Info(msg string, fields ...Field)  { l.emit(l.zl.Info(), msg, fields) }
func (l *logger) Warn(msg string, fields ...Field)  { l.emit(l.zl.Warn(), msg, fields) }
func (l *logger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), msg, fields) }

func (l *logger) emit(e *zerolog.Event, msg string, fields []Field) {
	if len(fields) > 0 {
		e = e.Fields(keyValues(fields))
	}
	e.Msg(msg)
}

func (l *logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	return &logger{zl: l.zl.With().Fields(keyValues(fields)).Logger()}
}

func (l *logger) WithContext(ctx context.Context) Logger {
	runID := RunIDFromContext(ctx)
	if runID == "" {
		return l
	}
	return &logger{zl: l.zl.With().Str(string(RunIDKey), runID).Logger()}
}

// keyValues flattens fields into zerolog's ordered key/value form.
func keyValues(fields []Field) []any {
	kv := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
