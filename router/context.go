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
	"net/http"

	"rivaas.dev/dispatch/route"
)

type stateKey struct{}

// state is the per-request record shared by Handle, Send and Terminate.
type state struct {
	req   *http.Request
	match *route.Match
}

func stateFrom(ctx context.Context) *state {
	st, _ := ctx.Value(stateKey{}).(*state)
	return st
}

// Begin attaches request state to req. Send and Terminate use it to find
// the matched route and run its middleware. ServeHTTP calls Begin itself;
// callers driving Handle, Send and Terminate separately should pass the
// returned request to all three.
func Begin(req *http.Request) *http.Request {
	if stateFrom(req.Context()) != nil {
		return req
	}
	st := &state{}
	req = req.WithContext(context.WithValue(req.Context(), stateKey{}, st))
	st.req = req
	return req
}

// RequestFromContext returns the request being handled, as last replaced
// by request-received middleware.
func RequestFromContext(ctx context.Context) *http.Request {
	if st := stateFrom(ctx); st != nil {
		return st.req
	}
	return nil
}

// MatchFromContext returns the match of the request being handled, or nil
// before matching.
func MatchFromContext(ctx context.Context) *route.Match {
	if st := stateFrom(ctx); st != nil {
		return st.match
	}
	return nil
}
