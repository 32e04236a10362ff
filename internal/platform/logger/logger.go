package logger

import (
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatText
	}
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger es la superficie mínima que usan los servicios.
// Atrás hay slog; la interface existe para poder capturar logs en tests.
type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type slogLogger struct {
	l *slog.Logger
}

type Options struct {
	Level  slog.Level
	Format Format
	App    string
}

func New(opts Options) Logger {
	h := newHandler(opts)
	l := slog.New(h)
	if strings.TrimSpace(opts.App) != "" {
		l = l.With("app", strings.TrimSpace(opts.App))
	}
	return &slogLogger{l: l}
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=text|json (default text)
// - APP_NAME (opcional)
func NewFromEnv() Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}

func newHandler(opts Options) slog.Handler {
	ho := &slog.HandlerOptions{Level: opts.Level}
	if opts.Format == FormatJSON {
		return slog.NewJSONHandler(os.Stdout, ho)
	}
	return slog.NewTextHandler(os.Stdout, ho)
}

func (s *slogLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return s
	}
	return &slogLogger{l: s.l.With(attrs(fields)...)}
}

func (s *slogLogger) Debug(msg string, fields map[string]any) { s.l.Debug(msg, attrs(fields)...) }
func (s *slogLogger) Info(msg string, fields map[string]any)  { s.l.Info(msg, attrs(fields)...) }
func (s *slogLogger) Warn(msg string, fields map[string]any)  { s.l.Warn(msg, attrs(fields)...) }
func (s *slogLogger) Error(msg string, fields map[string]any) { s.l.Error(msg, attrs(fields)...) }

func attrs(fields map[string]any) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, k, v)
	}
	return out
}
