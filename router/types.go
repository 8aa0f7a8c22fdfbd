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
	"net/http"

	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/route"
)

// Stage interfaces specialized for HTTP.
type (
	RequestReceived = middleware.RequestReceived[*http.Request, *message.Response]
	RouteMatched    = middleware.RouteMatched[*http.Request, *message.Response, *route.Match]
	RouteNotMatched = middleware.RouteNotMatched[*http.Request, *message.Response]
	RouteDispatched = middleware.RouteDispatched[*http.Request, *message.Response]
	ThrowableCaught = middleware.ThrowableCaught[*http.Request, *message.Response]
	SendingResponse = middleware.SendingResponse[*http.Request, *message.Response]
	Terminated      = middleware.Terminated[*http.Request, *message.Response]
)

// Function adapters.
type (
	RequestReceivedFunc = middleware.RequestReceivedFunc[*http.Request, *message.Response]
	RouteMatchedFunc    = middleware.RouteMatchedFunc[*http.Request, *message.Response, *route.Match]
	RouteNotMatchedFunc = middleware.RouteNotMatchedFunc[*http.Request, *message.Response]
	RouteDispatchedFunc = middleware.RouteDispatchedFunc[*http.Request, *message.Response]
	ThrowableCaughtFunc = middleware.ThrowableCaughtFunc[*http.Request, *message.Response]
	SendingResponseFunc = middleware.SendingResponseFunc[*http.Request, *message.Response]
	TerminatedFunc      = middleware.TerminatedFunc[*http.Request, *message.Response]
)

// Chain handlers passed to middleware.
type (
	RequestReceivedHandler = middleware.RequestReceivedHandler[*http.Request, *message.Response]
	RouteMatchedHandler    = middleware.RouteMatchedHandler[*http.Request, *message.Response, *route.Match]
	RouteNotMatchedHandler = middleware.RouteNotMatchedHandler[*http.Request, *message.Response]
	RouteDispatchedHandler = middleware.RouteDispatchedHandler[*http.Request, *message.Response]
	ThrowableCaughtHandler = middleware.ThrowableCaughtHandler[*http.Request, *message.Response]
	SendingResponseHandler = middleware.SendingResponseHandler[*http.Request, *message.Response]
	TerminatedHandler      = middleware.TerminatedHandler[*http.Request, *message.Response]
)
