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
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/logging"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/route"
)

const tracerName = "rivaas.dev/dispatch/router"

type stageSet = middleware.Set[*http.Request, *message.Response, *route.Match]

// Router dispatches HTTP requests. It is safe for concurrent use once
// global middleware registration is done.
type Router struct {
	routes     *collection.Collection
	matcher    *matcher.Matcher
	dispatcher dispatch.Dispatcher
	container  container.Container
	formatter  message.Formatter

	debug            bool
	redirectInsecure bool

	logger         *slog.Logger
	metrics        *metrics.Recorder
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	stages *stageSet
}

// New creates a router over routes, freezing the collection. Every
// middleware identifier declared on a route is resolved through the
// container here; a missing one fails with [ErrMiddlewareNotFound]. Route
// dependencies are checked against the dispatcher when it implements
// [dispatch.Verifier]; one that cannot resolve fails with
// [dispatch.ErrDependency].
func New(routes *collection.Collection, opts ...Option) (*Router, error) {
	if routes == nil {
		return nil, ErrNilCollection
	}

	r := &Router{
		routes:           routes,
		redirectInsecure: true,
		stages:           middleware.NewSet[*http.Request, *message.Response, *route.Match](),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	if r.container == nil {
		r.container = container.New()
	}
	if r.formatter == nil {
		r.formatter = &message.RFC9457{MaskServerErrors: true}
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	if r.tracerProvider == nil {
		r.tracerProvider = otel.GetTracerProvider()
	}
	r.tracer = r.tracerProvider.Tracer(tracerName)

	routes.Freeze()
	r.matcher = matcher.New(routes)

	for _, rt := range routes.All() {
		if err := r.stages.Bind(r.container, rt.Name(), rt.Stages()); err != nil {
			return nil, fmt.Errorf("route %q: %w", rt.Name(), err)
		}
		if err := dispatch.Verify(r.dispatcher, rt.Target()); err != nil {
			return nil, fmt.Errorf("route %q: %w", rt.Name(), err)
		}
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(routes *collection.Collection, opts ...Option) *Router {
	r, err := New(routes, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Routes returns the route collection.
func (r *Router) Routes() *collection.Collection {
	return r.routes
}

// URL builds the path of the route called name.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	rt := r.routes.Get(name)
	if rt == nil {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}
	return rt.URL(params)
}

// Use resolves each identifier from the container and registers the
// service as global middleware for every stage interface it implements.
func (r *Router) Use(ids ...string) error {
	return r.stages.Use(r.container, ids...)
}

// OnRequestReceived adds global request-received middleware.
func (r *Router) OnRequestReceived(mw ...RequestReceived) *Router {
	r.stages.OnRequestReceived(mw...)
	return r
}

// OnRouteMatched adds global route-matched middleware. It runs before the
// route's own.
func (r *Router) OnRouteMatched(mw ...RouteMatched) *Router {
	r.stages.OnRouteMatched(mw...)
	return r
}

// OnRouteNotMatched adds global route-not-matched middleware.
func (r *Router) OnRouteNotMatched(mw ...RouteNotMatched) *Router {
	r.stages.OnRouteNotMatched(mw...)
	return r
}

// OnRouteDispatched adds global route-dispatched middleware.
func (r *Router) OnRouteDispatched(mw ...RouteDispatched) *Router {
	r.stages.OnRouteDispatched(mw...)
	return r
}

// OnThrowableCaught adds global throwable-caught middleware.
func (r *Router) OnThrowableCaught(mw ...ThrowableCaught) *Router {
	r.stages.OnThrowableCaught(mw...)
	return r
}

// OnSendingResponse adds global sending-response middleware.
func (r *Router) OnSendingResponse(mw ...SendingResponse) *Router {
	r.stages.OnSendingResponse(mw...)
	return r
}

// OnTerminated adds global terminated middleware.
func (r *Router) OnTerminated(mw ...Terminated) *Router {
	r.stages.OnTerminated(mw...)
	return r
}
