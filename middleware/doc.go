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

// Package middleware defines the stage interfaces and handler chains that
// wrap request and command dispatch.
//
// A request passes through up to seven stages:
//
//	request received -> route matched -> route dispatched -> sending response -> terminated
//	                 \-> route not matched
//	any failure      -> throwable caught
//
// Every stage has an interface with a single method named after the stage,
// a Func adapter and a Handler that owns the ordered middleware list and a
// cursor. A middleware continues the chain by calling the handler it was
// given and stops it by returning without doing so:
//
//	func (a Auth) RouteMatched(ctx context.Context, req *http.Request, m *route.Match,
//		next *middleware.RouteMatchedHandler[*http.Request, *message.Response, *route.Match],
//	) (*route.Match, *message.Response, error) {
//		if req.Header.Get("Authorization") == "" {
//			return m, message.Text(http.StatusUnauthorized, "unauthorized"), nil
//		}
//		return next.Handle(ctx, req, m)
//	}
//
// When the cursor runs past the last middleware the handler returns the
// value it was called with. Handlers are not safe for concurrent use; build
// one per stage per request.
//
// The types are generic over the request (Req), response (Res) and matched
// context (M) so the HTTP router and the console share them. A [Set] keeps
// a transport's global middleware and the middleware each descriptor
// declares, and [Set.For] returns the chains for one descriptor.
package middleware
