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
	"context"

	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/route"
)

type stateKey struct{}

type state struct {
	in    *argv.Input
	match *route.CommandMatch
}

func stateFrom(ctx context.Context) *state {
	st, _ := ctx.Value(stateKey{}).(*state)
	return st
}

// Begin attaches command state for in to ctx. Pass the returned context to
// Handle, Send and Terminate so the latter two run the matched command's
// middleware. Run calls Begin itself.
func Begin(ctx context.Context, in *argv.Input) context.Context {
	if stateFrom(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, stateKey{}, &state{in: in})
}

// InputFromContext returns the command line being handled.
func InputFromContext(ctx context.Context) *argv.Input {
	if st := stateFrom(ctx); st != nil {
		return st.in
	}
	return nil
}

// MatchFromContext returns the matched command, or nil before matching.
func MatchFromContext(ctx context.Context) *route.CommandMatch {
	if st := stateFrom(ctx); st != nil {
		return st.match
	}
	return nil
}

func (st *state) commandName() string {
	if st == nil || st.match == nil || st.match.Command == nil {
		return ""
	}
	return st.match.Command.Name()
}
