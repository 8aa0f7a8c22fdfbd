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

package middleware

import "context"

// RequestReceived runs before matching. Returning a non-nil response ends
// the request without matching.
type RequestReceived[Req, Res any] interface {
	RequestReceived(ctx context.Context, req Req, next *RequestReceivedHandler[Req, Res]) (Req, Res, error)
}

// RequestReceivedFunc adapts a function to [RequestReceived].
type RequestReceivedFunc[Req, Res any] func(ctx context.Context, req Req, next *RequestReceivedHandler[Req, Res]) (Req, Res, error)

// RequestReceived calls f.
func (f RequestReceivedFunc[Req, Res]) RequestReceived(ctx context.Context, req Req, next *RequestReceivedHandler[Req, Res]) (Req, Res, error) {
	return f(ctx, req, next)
}

// RequestReceivedHandler runs a request-received chain.
type RequestReceivedHandler[Req, Res any] struct {
	cursor[RequestReceived[Req, Res]]
}

// NewRequestReceivedHandler creates a chain over mw.
func NewRequestReceivedHandler[Req, Res any](mw ...RequestReceived[Req, Res]) *RequestReceivedHandler[Req, Res] {
	h := &RequestReceivedHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns req and
// a zero response.
func (h *RequestReceivedHandler[Req, Res]) Handle(ctx context.Context, req Req) (Req, Res, error) {
	mw, ok := h.next()
	if !ok {
		var zero Res
		return req, zero, nil
	}
	return mw.RequestReceived(ctx, req, h)
}

// RouteMatched runs after a descriptor matched. It may replace the match
// or return a response to skip dispatch.
type RouteMatched[Req, Res, M any] interface {
	RouteMatched(ctx context.Context, req Req, match M, next *RouteMatchedHandler[Req, Res, M]) (M, Res, error)
}

// RouteMatchedFunc adapts a function to [RouteMatched].
type RouteMatchedFunc[Req, Res, M any] func(ctx context.Context, req Req, match M, next *RouteMatchedHandler[Req, Res, M]) (M, Res, error)

// RouteMatched calls f.
func (f RouteMatchedFunc[Req, Res, M]) RouteMatched(ctx context.Context, req Req, match M, next *RouteMatchedHandler[Req, Res, M]) (M, Res, error) {
	return f(ctx, req, match, next)
}

// RouteMatchedHandler runs a route-matched chain.
type RouteMatchedHandler[Req, Res, M any] struct {
	cursor[RouteMatched[Req, Res, M]]
}

// NewRouteMatchedHandler creates a chain over mw.
func NewRouteMatchedHandler[Req, Res, M any](mw ...RouteMatched[Req, Res, M]) *RouteMatchedHandler[Req, Res, M] {
	h := &RouteMatchedHandler[Req, Res, M]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns match and
// a zero response.
func (h *RouteMatchedHandler[Req, Res, M]) Handle(ctx context.Context, req Req, match M) (M, Res, error) {
	mw, ok := h.next()
	if !ok {
		var zero Res
		return match, zero, nil
	}
	return mw.RouteMatched(ctx, req, match, h)
}

// RouteNotMatched runs when matching failed. res is the default not found,
// method not allowed or redirect response.
type RouteNotMatched[Req, Res any] interface {
	RouteNotMatched(ctx context.Context, req Req, res Res, next *RouteNotMatchedHandler[Req, Res]) (Res, error)
}

// RouteNotMatchedFunc adapts a function to [RouteNotMatched].
type RouteNotMatchedFunc[Req, Res any] func(ctx context.Context, req Req, res Res, next *RouteNotMatchedHandler[Req, Res]) (Res, error)

// RouteNotMatched calls f.
func (f RouteNotMatchedFunc[Req, Res]) RouteNotMatched(ctx context.Context, req Req, res Res, next *RouteNotMatchedHandler[Req, Res]) (Res, error) {
	return f(ctx, req, res, next)
}

// RouteNotMatchedHandler runs a route-not-matched chain.
type RouteNotMatchedHandler[Req, Res any] struct {
	cursor[RouteNotMatched[Req, Res]]
}

// NewRouteNotMatchedHandler creates a chain over mw.
func NewRouteNotMatchedHandler[Req, Res any](mw ...RouteNotMatched[Req, Res]) *RouteNotMatchedHandler[Req, Res] {
	h := &RouteNotMatchedHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns res.
func (h *RouteNotMatchedHandler[Req, Res]) Handle(ctx context.Context, req Req, res Res) (Res, error) {
	mw, ok := h.next()
	if !ok {
		return res, nil
	}
	return mw.RouteNotMatched(ctx, req, res, h)
}

// RouteDispatched runs on the handler's response.
type RouteDispatched[Req, Res any] interface {
	RouteDispatched(ctx context.Context, req Req, res Res, next *RouteDispatchedHandler[Req, Res]) (Res, error)
}

// RouteDispatchedFunc adapts a function to [RouteDispatched].
type RouteDispatchedFunc[Req, Res any] func(ctx context.Context, req Req, res Res, next *RouteDispatchedHandler[Req, Res]) (Res, error)

// RouteDispatched calls f.
func (f RouteDispatchedFunc[Req, Res]) RouteDispatched(ctx context.Context, req Req, res Res, next *RouteDispatchedHandler[Req, Res]) (Res, error) {
	return f(ctx, req, res, next)
}

// RouteDispatchedHandler runs a route-dispatched chain.
type RouteDispatchedHandler[Req, Res any] struct {
	cursor[RouteDispatched[Req, Res]]
}

// NewRouteDispatchedHandler creates a chain over mw.
func NewRouteDispatchedHandler[Req, Res any](mw ...RouteDispatched[Req, Res]) *RouteDispatchedHandler[Req, Res] {
	h := &RouteDispatchedHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns res.
func (h *RouteDispatchedHandler[Req, Res]) Handle(ctx context.Context, req Req, res Res) (Res, error) {
	mw, ok := h.next()
	if !ok {
		return res, nil
	}
	return mw.RouteDispatched(ctx, req, res, h)
}

// ThrowableCaught turns a failure into a response. res is the default
// error response and err the failure. It cannot fail itself.
type ThrowableCaught[Req, Res any] interface {
	ThrowableCaught(ctx context.Context, req Req, res Res, err error, next *ThrowableCaughtHandler[Req, Res]) Res
}

// ThrowableCaughtFunc adapts a function to [ThrowableCaught].
type ThrowableCaughtFunc[Req, Res any] func(ctx context.Context, req Req, res Res, err error, next *ThrowableCaughtHandler[Req, Res]) Res

// ThrowableCaught calls f.
func (f ThrowableCaughtFunc[Req, Res]) ThrowableCaught(ctx context.Context, req Req, res Res, err error, next *ThrowableCaughtHandler[Req, Res]) Res {
	return f(ctx, req, res, err, next)
}

// ThrowableCaughtHandler runs a throwable-caught chain.
type ThrowableCaughtHandler[Req, Res any] struct {
	cursor[ThrowableCaught[Req, Res]]
}

// NewThrowableCaughtHandler creates a chain over mw.
func NewThrowableCaughtHandler[Req, Res any](mw ...ThrowableCaught[Req, Res]) *ThrowableCaughtHandler[Req, Res] {
	h := &ThrowableCaughtHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns res.
func (h *ThrowableCaughtHandler[Req, Res]) Handle(ctx context.Context, req Req, res Res, err error) Res {
	mw, ok := h.next()
	if !ok {
		return res
	}
	return mw.ThrowableCaught(ctx, req, res, err, h)
}

// SendingResponse runs just before the response is written.
type SendingResponse[Req, Res any] interface {
	SendingResponse(ctx context.Context, req Req, res Res, next *SendingResponseHandler[Req, Res]) Res
}

// SendingResponseFunc adapts a function to [SendingResponse].
type SendingResponseFunc[Req, Res any] func(ctx context.Context, req Req, res Res, next *SendingResponseHandler[Req, Res]) Res

// SendingResponse calls f.
func (f SendingResponseFunc[Req, Res]) SendingResponse(ctx context.Context, req Req, res Res, next *SendingResponseHandler[Req, Res]) Res {
	return f(ctx, req, res, next)
}

// SendingResponseHandler runs a sending-response chain.
type SendingResponseHandler[Req, Res any] struct {
	cursor[SendingResponse[Req, Res]]
}

// NewSendingResponseHandler creates a chain over mw.
func NewSendingResponseHandler[Req, Res any](mw ...SendingResponse[Req, Res]) *SendingResponseHandler[Req, Res] {
	h := &SendingResponseHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware. An exhausted chain returns res.
func (h *SendingResponseHandler[Req, Res]) Handle(ctx context.Context, req Req, res Res) Res {
	mw, ok := h.next()
	if !ok {
		return res
	}
	return mw.SendingResponse(ctx, req, res, h)
}

// Terminated runs after the response was sent.
type Terminated[Req, Res any] interface {
	Terminated(ctx context.Context, req Req, res Res, next *TerminatedHandler[Req, Res])
}

// TerminatedFunc adapts a function to [Terminated].
type TerminatedFunc[Req, Res any] func(ctx context.Context, req Req, res Res, next *TerminatedHandler[Req, Res])

// Terminated calls f.
func (f TerminatedFunc[Req, Res]) Terminated(ctx context.Context, req Req, res Res, next *TerminatedHandler[Req, Res]) {
	f(ctx, req, res, next)
}

// TerminatedHandler runs a terminated chain.
type TerminatedHandler[Req, Res any] struct {
	cursor[Terminated[Req, Res]]
}

// NewTerminatedHandler creates a chain over mw.
func NewTerminatedHandler[Req, Res any](mw ...Terminated[Req, Res]) *TerminatedHandler[Req, Res] {
	h := &TerminatedHandler[Req, Res]{}
	h.Add(mw...)
	return h
}

// Handle invokes the next middleware.
func (h *TerminatedHandler[Req, Res]) Handle(ctx context.Context, req Req, res Res) {
	if mw, ok := h.next(); ok {
		mw.Terminated(ctx, req, res, h)
	}
}
