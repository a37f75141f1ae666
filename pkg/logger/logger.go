// Package logger is the zerolog front end shared by the storefront CLI, the client stores and
// the dev API. Fields ride on the context so a request id attached at the edge shows up on
// every line logged further down.
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/angelmondragon/storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

const (
	ComponentCLI    = "storefront"
	ComponentDevAPI = "devapi"
)

type Options struct {
	// Component names the binary emitting the line.
	Component string
	Env       string
	Level     zerolog.Level
	WarnStack bool
	Format    string
	Output    io.Writer
}

type Logger struct {
	root      *zerolog.Logger
	warnStack bool
}

type fieldsKey struct{}

func New(opts Options) *Logger {
	if opts.Level == zerolog.NoLevel {
		opts.Level = zerolog.InfoLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(opts.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	fields := zerolog.New(out).With().Timestamp().Str("component", opts.Component)
	if opts.Env != "" {
		fields = fields.Str("env", opts.Env)
	}
	root := fields.Logger().Level(opts.Level)
	return &Logger{root: &root, warnStack: opts.WarnStack}
}

// FromConfig builds the logger for a binary from the STOREFRONT_LOG_* settings.
func FromConfig(cfg config.AppConfig, component string, out io.Writer) *Logger {
	return New(Options{
		Component: component,
		Env:       cfg.Env,
		Level:     ParseLevel(cfg.LogLevel),
		WarnStack: cfg.LogWarnStack,
		Format:    cfg.LogFormat,
		Output:    out,
	})
}

// Nop returns a logger that discards everything. Stores fall back to it when no logger is wired.
func Nop() *Logger {
	root := zerolog.Nop()
	return &Logger{root: &root}
}

// ParseLevel falls back to info for empty or unknown values.
func ParseLevel(value string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) entry(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if e, ok := ctx.Value(fieldsKey{}).(*zerolog.Logger); ok {
			return e
		}
	}
	return l.root
}

func (l *Logger) with(ctx context.Context, build func(zerolog.Context) zerolog.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	e := build(l.entry(ctx).With()).Logger()
	return context.WithValue(ctx, fieldsKey{}, &e)
}

func (l *Logger) WithField(ctx context.Context, key string, value any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Interface(key, value)
	})
}

func (l *Logger) WithFields(ctx context.Context, fields map[string]any) context.Context {
	return l.with(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Fields(fields)
	})
}

// WithRequestID tags lines with the X-Request-Id shared by the client and the dev API.
func (l *Logger) WithRequestID(ctx context.Context, requestID string) context.Context {
	return l.WithField(ctx, "request_id", requestID)
}

func (l *Logger) WithUserID(ctx context.Context, userID int) context.Context {
	return l.WithField(ctx, "user_id", userID)
}

// WithOperation tags lines with the storefront API operation, e.g. "create_order".
func (l *Logger) WithOperation(ctx context.Context, operation string) context.Context {
	return l.WithField(ctx, "operation", operation)
}

func (l *Logger) Debug(ctx context.Context, msg string) {
	l.entry(ctx).Debug().Msg(msg)
}

func (l *Logger) Info(ctx context.Context, msg string) {
	l.entry(ctx).Info().Msg(msg)
}

func (l *Logger) Warn(ctx context.Context, msg string) {
	event := l.entry(ctx).Warn()
	if l.warnStack {
		event = event.Str("stack", stackTrace())
	}
	event.Msg(msg)
}

// Error logs err with its storefront error code and a stack trace.
func (l *Logger) Error(ctx context.Context, msg string, err error) {
	event := l.entry(ctx).Error()
	if err != nil {
		event = event.Err(err).Str("error_code", string(pkgerrors.CodeOf(err)))
	}
	event.Str("stack", stackTrace()).Msg(msg)
}

func stackTrace() string {
	return strings.TrimSpace(string(debug.Stack()))
}
