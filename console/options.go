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

package console

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/metrics"
)

// Option configures a [Console].
type Option func(*Console)

// WithDispatcher sets the dispatcher that invokes command targets.
// Required.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(c *Console) { c.dispatcher = d }
}

// WithContainer sets the container middleware identifiers resolve from.
func WithContainer(ct container.Container) Option {
	return func(c *Console) { c.container = ct }
}

// WithDebug makes Handle return failures instead of running the
// throwable-caught chain. Run then panics with the error. An [OutputError]
// still produces its output.
func WithDebug(debug bool) Option {
	return func(c *Console) { c.debug = debug }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) { c.logger = l }
}

// WithMetrics records match outcomes and command latency.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Console) { c.metrics = m }
}

// WithTracerProvider sets where command spans are created.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Console) { c.tracerProvider = tp }
}

// WithSuggester sets the hook that proposes alternatives for an unknown
// command name. Without one no suggestions are made.
func WithSuggester(s Suggester) Option {
	return func(c *Console) { c.suggester = s }
}

// WithColor controls whether stderr is written in red. The default follows
// the terminal detection of fatih/color.
func WithColor(enabled bool) Option {
	return func(c *Console) { c.color = &enabled }
}

// WithMatcherOptions configures the command matcher, for example to rename
// the help command or disable the empty-input fallback.
func WithMatcherOptions(opts ...matcher.CommandOption) Option {
	return func(c *Console) { c.matcherOpts = append(c.matcherOpts, opts...) }
}
