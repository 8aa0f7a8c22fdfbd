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
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/logging"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/middleware"
)

// ServeHTTP handles, sends and terminates req. In debug mode a failure
// panics with the original error so net/http logs it.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	req = Begin(req)

	res, err := r.Handle(req)
	if err != nil {
		panic(err)
	}
	if err := r.Send(w, req, res); err != nil {
		logging.FromContext(req.Context(), r.logger).Error("write response", "error", err)
	}
	r.Terminate(req, res)
}

// Handle runs req through matching, dispatch and the surrounding stages
// and returns the response to send. The error is non-nil only in debug
// mode, for a failure that is not an [HTTPError].
func (r *Router) Handle(req *http.Request) (res *message.Response, err error) {
	req = Begin(req)
	st := stateFrom(req.Context())

	ctx, span := r.tracer.Start(req.Context(), "dispatch "+req.Method,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.target", req.URL.Path),
		),
	)
	defer span.End()
	req = req.WithContext(ctx)
	st.req = req

	defer r.metrics.Begin(metrics.TransportHTTP)()

	defer func() {
		if v := recover(); v != nil {
			res, err = r.fail(ctx, st, &PanicError{Value: v, Stack: debug.Stack()})
		}
		if res != nil {
			span.SetAttributes(attribute.Int("http.status_code", res.Status))
			if res.Status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(res.Status))
			}
		}
	}()

	res, err = r.handle(ctx, st)
	if err != nil {
		return r.fail(ctx, st, err)
	}
	return res, nil
}

func (r *Router) handle(ctx context.Context, st *state) (*message.Response, error) {
	log := logging.FromContext(ctx, r.logger)

	req, res, err := middleware.NewRequestReceivedHandler(r.stages.RequestReceived()...).Handle(ctx, st.req)
	if err != nil {
		return nil, err
	}
	if req != nil {
		st.req = req
	}
	if res != nil {
		log.Debug("request answered before matching", "status", res.Status)
		return res, nil
	}
	req = st.req

	result := r.matcher.Match(req.Method, req.URL.Path, isSecure(req))
	r.metrics.ObserveMatch(metrics.TransportHTTP, result.Kind.String())

	if result.Kind != matcher.Found {
		log.Debug("route not matched", "method", req.Method, "path", req.URL.Path, "outcome", result.Kind.String())
		return middleware.NewRouteNotMatchedHandler(r.stages.RouteNotMatched()...).
			Handle(ctx, req, r.notMatched(req, result))
	}

	match := result.Match
	st.match = match
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("http.route", match.Route.Pattern()),
		attribute.String("dispatch.route", match.Route.Name()),
	)
	log.Debug("route matched", "route", match.Route.Name(), "method", req.Method)

	chains := r.stages.For(match.Route.Name())

	replaced, res, err := middleware.NewRouteMatchedHandler(chains.RouteMatched...).Handle(ctx, req, match)
	if err != nil {
		return nil, err
	}
	if replaced != nil && replaced != match {
		match = replaced
		st.match = match
		chains = r.stages.For(match.Route.Name())
	}
	if res != nil {
		return res, nil
	}

	start := time.Now()
	v, err := r.dispatcher.Dispatch(ctx, match.Route.Target(), dispatch.Arguments(match.Params).Clone())
	if err != nil {
		return nil, err
	}
	res, ok := v.(*message.Response)
	if !ok || res == nil {
		return nil, fmt.Errorf("%w: route %q returned %T", ErrInvalidResponse, match.Route.Name(), v)
	}

	res, err = middleware.NewRouteDispatchedHandler(chains.RouteDispatched...).Handle(ctx, req, res)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("%w: route-dispatched middleware returned nil", ErrInvalidResponse)
	}

	r.metrics.ObserveDispatch(metrics.TransportHTTP, match.Route.Name(), res.Status, time.Since(start))
	return res, nil
}

// fail turns err into the response of the throwable-caught chain. In debug
// mode an error without a response of its own is returned unchanged.
func (r *Router) fail(ctx context.Context, st *state, err error) (res *message.Response, _ error) {
	kind := "error"
	var perr *PanicError
	if errors.As(err, &perr) {
		kind = "panic"
	}
	r.metrics.ObserveFailure(metrics.TransportHTTP, kind)

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	log := logging.FromContext(ctx, r.logger)
	if perr != nil {
		log.Error("request panicked", "error", err, "stack", string(perr.Stack))
	} else {
		log.Error("request failed", "error", err)
	}

	req := st.req
	fallback, carried := r.errorResponse(req, err)
	if r.debug && !carried {
		return nil, err
	}

	defer func() {
		if v := recover(); v != nil {
			log.Error("throwable-caught middleware panicked", "panic", v)
			res = fallback
		}
	}()

	chains := r.stages.For(st.routeName())
	res = middleware.NewThrowableCaughtHandler(chains.ThrowableCaught...).Handle(ctx, req, fallback, err)
	if res == nil {
		res = fallback
	}
	return res, nil
}

// errorResponse returns the response err carries, reporting true, or the
// formatted problem for it.
func (r *Router) errorResponse(req *http.Request, err error) (*message.Response, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Response != nil {
		return httpErr.Response, true
	}
	return r.formatter.Format(req, err), false
}

// notMatched builds the default response for a failed match.
func (r *Router) notMatched(req *http.Request, result matcher.Result) *message.Response {
	switch result.Kind {
	case matcher.MethodNotAllowed:
		allow := strings.Join(result.Allowed, ", ")
		err := message.WithStatus(fmt.Errorf("method %s not allowed, allowed: %s", req.Method, allow), http.StatusMethodNotAllowed)
		return r.formatter.Format(req, err).WithHeader("Allow", allow)

	case matcher.Insecure:
		if r.redirectInsecure {
			return message.Redirect(http.StatusPermanentRedirect, "https://"+req.Host+req.URL.RequestURI())
		}
		return r.formatter.Format(req, message.WithStatus(errors.New("secure connection required"), http.StatusForbidden))

	default:
		err := message.WithStatus(fmt.Errorf("no route for %s %s", req.Method, req.URL.Path), http.StatusNotFound)
		return r.formatter.Format(req, err)
	}
}

// Send runs the sending-response chain over res and writes the result.
func (r *Router) Send(w http.ResponseWriter, req *http.Request, res *message.Response) (err error) {
	ctx := req.Context()
	st := stateFrom(ctx)

	defer func() {
		if v := recover(); v != nil {
			logging.FromContext(ctx, r.logger).Error("sending-response middleware panicked", "panic", v)
			fallback, _ := r.errorResponse(req, &PanicError{Value: v, Stack: debug.Stack()})
			err = fallback.Write(w, req)
		}
	}()

	chains := r.stages.For(st.routeName())
	out := middleware.NewSendingResponseHandler(chains.SendingResponse...).Handle(ctx, req, res)
	if out == nil {
		return fmt.Errorf("%w: sending-response middleware returned nil", ErrInvalidResponse)
	}
	return out.Write(w, req)
}

// Terminate runs the terminated chain. Panics are logged and dropped.
func (r *Router) Terminate(req *http.Request, res *message.Response) {
	ctx := req.Context()
	st := stateFrom(ctx)

	defer func() {
		if v := recover(); v != nil {
			logging.FromContext(ctx, r.logger).Error("terminated middleware panicked", "panic", v)
		}
	}()

	chains := r.stages.For(st.routeName())
	middleware.NewTerminatedHandler(chains.Terminated...).Handle(ctx, req, res)
}

// routeName returns the name of the matched route, or "" before a match.
func (st *state) routeName() string {
	if st == nil || st.match == nil || st.match.Route == nil {
		return ""
	}
	return st.match.Route.Name()
}

func isSecure(req *http.Request) bool {
	return req.TLS != nil || req.URL.Scheme == "https"
}
