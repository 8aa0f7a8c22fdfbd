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

package router

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/metrics"
)

// Option configures a [Router].
type Option func(*Router)

// WithDispatcher sets the dispatcher that invokes route targets. Required.
func WithDispatcher(d dispatch.Dispatcher) Option {
	return func(r *Router) { r.dispatcher = d }
}

// WithContainer sets the container route middleware and [Router.Use]
// identifiers resolve from. It must be populated before [New] runs.
func WithContainer(c container.Container) Option {
	return func(r *Router) { r.container = c }
}

// WithDebug makes Handle return failures instead of routing them through
// the throwable-caught chain. ServeHTTP then panics with the error. An
// [HTTPError] still produces its response.
func WithDebug(debug bool) Option {
	return func(r *Router) { r.debug = debug }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics records match outcomes and dispatch latency.
func WithMetrics(m *metrics.Recorder) Option {
	return func(r *Router) { r.metrics = m }
}

// WithTracerProvider sets where request spans are created. The default is
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Router) { r.tracerProvider = tp }
}

// WithErrorFormatter sets how failures and unmatched requests become
// responses. The default is an RFC 9457 formatter that masks 5xx details.
func WithErrorFormatter(f message.Formatter) Option {
	return func(r *Router) { r.formatter = f }
}

// WithInsecureRedirect controls the response for a secure route reached
// over plain HTTP: a 308 redirect to https when enabled (the default), a
// 403 problem otherwise.
func WithInsecureRedirect(enabled bool) Option {
	return func(r *Router) { r.redirectInsecure = enabled }
}
