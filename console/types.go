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
	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/route"
)

// Stage middleware for command lines.
type (
	RequestReceived = middleware.RequestReceived[*argv.Input, *Output]
	RouteMatched    = middleware.RouteMatched[*argv.Input, *Output, *route.CommandMatch]
	RouteNotMatched = middleware.RouteNotMatched[*argv.Input, *Output]
	RouteDispatched = middleware.RouteDispatched[*argv.Input, *Output]
	ThrowableCaught = middleware.ThrowableCaught[*argv.Input, *Output]
	SendingResponse = middleware.SendingResponse[*argv.Input, *Output]
	Terminated      = middleware.Terminated[*argv.Input, *Output]
)

// Function adapters.
type (
	RequestReceivedFunc = middleware.RequestReceivedFunc[*argv.Input, *Output]
	RouteMatchedFunc    = middleware.RouteMatchedFunc[*argv.Input, *Output, *route.CommandMatch]
	RouteNotMatchedFunc = middleware.RouteNotMatchedFunc[*argv.Input, *Output]
	RouteDispatchedFunc = middleware.RouteDispatchedFunc[*argv.Input, *Output]
	ThrowableCaughtFunc = middleware.ThrowableCaughtFunc[*argv.Input, *Output]
	SendingResponseFunc = middleware.SendingResponseFunc[*argv.Input, *Output]
	TerminatedFunc      = middleware.TerminatedFunc[*argv.Input, *Output]
)

// Chain handlers passed as next.
type (
	RequestReceivedHandler = middleware.RequestReceivedHandler[*argv.Input, *Output]
	RouteMatchedHandler    = middleware.RouteMatchedHandler[*argv.Input, *Output, *route.CommandMatch]
	RouteNotMatchedHandler = middleware.RouteNotMatchedHandler[*argv.Input, *Output]
	RouteDispatchedHandler = middleware.RouteDispatchedHandler[*argv.Input, *Output]
	ThrowableCaughtHandler = middleware.ThrowableCaughtHandler[*argv.Input, *Output]
	SendingResponseHandler = middleware.SendingResponseHandler[*argv.Input, *Output]
	TerminatedHandler      = middleware.TerminatedHandler[*argv.Input, *Output]
)
