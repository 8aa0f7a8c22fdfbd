// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// HandlerType selects the output format.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level is a log level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	// ErrInvalidHandler is returned for an unknown handler type.
	ErrInvalidHandler = errors.New("invalid handler type")
	// ErrInvalidLevel is returned by ParseLevel for an unknown level name.
	ErrInvalidLevel = errors.New("invalid log level")
	// ErrNilOutput is returned when the output writer is nil.
	ErrNilOutput = errors.New("output writer cannot be nil")
)

// Trace correlation field names.
const (
	fieldTraceID = "trace_id"
	fieldSpanID  = "span_id"
)

const redacted = "***REDACTED***"

type config struct {
	handlerType    HandlerType
	output         io.Writer
	level          Level
	serviceName    string
	serviceVersion string
	environment    string
	addSource      bool
	replaceAttr    func(groups []string, a slog.Attr) slog.Attr
	registerGlobal bool
}

// Option configures [New].
type Option func(*config)

// WithHandlerType sets the output format.
func WithHandlerType(t HandlerType) Option {
	return func(c *config) { c.handlerType = t }
}

// WithOutput sets the destination. The default is stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.output = w }
}

// WithLevel sets the minimum level.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithServiceName adds a "service" attribute to every entry.
func WithServiceName(name string) Option {
	return func(c *config) { c.serviceName = name }
}

// WithServiceVersion adds a "version" attribute to every entry.
func WithServiceVersion(version string) Option {
	return func(c *config) { c.serviceVersion = version }
}

// WithEnvironment adds an "env" attribute to every entry.
func WithEnvironment(env string) Option {
	return func(c *config) { c.environment = env }
}

// WithSource records the caller's file and line.
func WithSource(enabled bool) Option {
	return func(c *config) { c.addSource = enabled }
}

// WithReplaceAttr installs an attribute rewriter. It runs after redaction.
func WithReplaceAttr(fn func(groups []string, a slog.Attr) slog.Attr) Option {
	return func(c *config) { c.replaceAttr = fn }
}

// WithGlobalLogger also installs the logger with [slog.SetDefault].
func WithGlobalLogger() Option {
	return func(c *config) { c.registerGlobal = true }
}

// New builds a logger. The default is JSON on stdout at info level.
func New(opts ...Option) (*slog.Logger, error) {
	c := &config{
		handlerType: JSONHandler,
		output:      os.Stdout,
		level:       LevelInfo,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.output == nil {
		return nil, ErrNilOutput
	}

	hopts := &slog.HandlerOptions{
		Level:       c.level,
		AddSource:   c.addSource,
		ReplaceAttr: c.buildReplaceAttr(),
	}

	var handler slog.Handler
	switch c.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(c.output, hopts)
	case TextHandler:
		handler = slog.NewTextHandler(c.output, hopts)
	case ConsoleHandler:
		handler = newConsoleHandler(c.output, hopts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidHandler, c.handlerType)
	}

	logger := slog.New(handler)

	var attrs []any
	if c.serviceName != "" {
		attrs = append(attrs, "service", c.serviceName)
	}
	if c.serviceVersion != "" {
		attrs = append(attrs, "version", c.serviceVersion)
	}
	if c.environment != "" {
		attrs = append(attrs, "env", c.environment)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}

	if c.registerGlobal {
		slog.SetDefault(logger)
	}
	return logger, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *slog.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return logger
}

// Discard returns a logger that drops every entry.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps "debug", "info", "warn" or "error" to a level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// FromContext returns logger with trace_id and span_id attributes when ctx
// carries a valid span.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		fieldTraceID, sc.TraceID().String(),
		fieldSpanID, sc.SpanID().String(),
	)
}

func (c *config) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		switch strings.ToLower(a.Key) {
		case "password", "token", "secret", "api_key", "authorization":
			return slog.String(a.Key, redacted)
		}
		if c.replaceAttr != nil {
			return c.replaceAttr(groups, a)
		}
		return a
	}
}
