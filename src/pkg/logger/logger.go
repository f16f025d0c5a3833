// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2021-Present The Zarf Authors

// Package logger builds the slog loggers used by the hooks and carries them on a context.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
)

// Sanitized replaces every redacted value.
const Sanitized = "**sanitized**"

// Level is a log/slog level restricted to the four the CLI accepts.
type Level int

// Supported levels. Info is the zero value.
var (
	Debug = Level(slog.LevelDebug)
	Info  = Level(slog.LevelInfo)
	Warn  = Level(slog.LevelWarn)
	Error = Level(slog.LevelError)
)

var levelNames = map[string]Level{
	"trace": Debug,
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

func (l Level) String() string {
	for _, name := range []string{"debug", "info", "warn", "error"} {
		if levelNames[name] == l {
			return name
		}
	}
	return "unknown"
}

// ParseLevel converts a --log-level value into a Level. Matching is case insensitive and trace means debug.
func ParseLevel(s string) (Level, error) {
	l, ok := levelNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
	return l, nil
}

// Format selects the slog handler.
type Format string

const (
	// FormatConsole writes colored single line records with console-slog.
	FormatConsole Format = "console"
	// FormatJSON writes one JSON object per record.
	FormatJSON Format = "json"
	// FormatDev writes verbose records with source locations using devslog.
	FormatDev Format = "dev"
	// FormatNone discards every record.
	FormatNone Format = "none"
)

// Destination is where records are written.
type Destination io.Writer

// DestinationDefault is stderr, leaving stdout to command output.
var DestinationDefault Destination = os.Stderr

// Color enables ANSI colors for the console and dev formats.
type Color bool

// Config is configuration for a logger.
type Config struct {
	Level
	Format
	Destination
	Color
}

// LogValue implements slog.LogValuer.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", c.Level.String()),
		slog.String("format", string(c.Format)),
		slog.Bool("color", bool(c.Color)),
	)
}

// ConfigDefault is console output at info level on stderr.
func ConfigDefault() Config {
	return Config{
		Level:       Info,
		Format:      FormatConsole,
		Destination: DestinationDefault,
		Color:       true,
	}
}

// New returns a logger for cfg.
func New(cfg Config) (*slog.Logger, error) {
	if _, ok := levelNames[cfg.Level.String()]; !ok {
		return nil, fmt.Errorf("unsupported log level: %d", cfg.Level)
	}
	w := io.Writer(cfg.Destination)
	if w == nil {
		w = DestinationDefault
	}
	level := slog.Level(cfg.Level)

	var handler slog.Handler
	switch Format(strings.ToLower(string(cfg.Format))) {
	case FormatConsole:
		handler = console.NewHandler(w, &console.HandlerOptions{
			Level:   level,
			NoColor: !bool(cfg.Color),
		})
	case FormatJSON:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatDev:
		handler = devslog.NewHandler(w, &devslog.Options{
			HandlerOptions:  &slog.HandlerOptions{Level: level, AddSource: true},
			NewLineAfterLog: true,
			NoColor:         !bool(cfg.Color),
		})
	case "", FormatNone:
		handler = discard()
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Format)
	}
	return slog.New(handler), nil
}

func discard() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

type ctxKey struct{}

// WithContext stores l on ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger stored on ctx, or a logger that discards everything.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(discard())
}

// Redact returns a logger that replaces every occurrence of the secrets in messages and
// attribute values with Sanitized. Empty secrets are ignored.
func Redact(l *slog.Logger, secrets ...string) *slog.Logger {
	pairs := []string{}
	for _, s := range secrets {
		if s != "" {
			pairs = append(pairs, s, Sanitized)
		}
	}
	if len(pairs) == 0 {
		return l
	}
	return slog.New(redactHandler{Handler: l.Handler(), replacer: strings.NewReplacer(pairs...)})
}

type redactHandler struct {
	slog.Handler
	replacer *strings.Replacer
}

func (h redactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, h.replacer.Replace(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.attr(a))
		return true
	})
	return h.Handler.Handle(ctx, out)
}

func (h redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return redactHandler{Handler: h.Handler.WithAttrs(h.attrs(attrs)), replacer: h.replacer}
}

func (h redactHandler) WithGroup(name string) slog.Handler {
	return redactHandler{Handler: h.Handler.WithGroup(name), replacer: h.replacer}
}

func (h redactHandler) attrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.attr(a)
	}
	return out
}

func (h redactHandler) attr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.replacer.Replace(v.String()))
	case slog.KindGroup:
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(h.attrs(v.Group())...)}
	case slog.KindAny:
		s := fmt.Sprint(v.Any())
		if r := h.replacer.Replace(s); r != s {
			return slog.String(a.Key, r)
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}
