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

package matcher

import (
	"slices"

	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/route"
)

// Kind is the outcome of a match.
type Kind uint8

const (
	// NotFound means nothing matched the input.
	NotFound Kind = iota
	// Found means a descriptor matched and its parameters are bound.
	Found
	// MethodNotAllowed means the path matched but no route accepts the method.
	MethodNotAllowed
	// Insecure means the matched route requires a secure scheme.
	Insecure
	// InvalidInput means a command matched but its options did not bind.
	InvalidInput
)

var kindNames = [...]string{
	NotFound:         "not_found",
	Found:            "found",
	MethodNotAllowed: "method_not_allowed",
	Insecure:         "insecure",
	InvalidInput:     "invalid_input",
}

// String returns the snake_case name of the kind. Metrics use it as a
// label value.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Result is the outcome of [Matcher.Match].
type Result struct {
	Kind Kind

	// Match is set when Kind is Found.
	Match *route.Match

	// Allowed lists the accepted methods, sorted, when Kind is
	// MethodNotAllowed.
	Allowed []string

	// Route is the secure route that was reached when Kind is Insecure.
	Route *route.Route
}

// Matcher matches HTTP requests against a route collection.
type Matcher struct {
	routes *collection.Collection
}

// New returns a matcher over routes. The collection should be frozen.
func New(routes *collection.Collection) *Matcher {
	return &Matcher{routes: routes}
}

// Routes returns the underlying collection.
func (m *Matcher) Routes() *collection.Collection {
	return m.routes
}

// Match resolves method and path. secure reports whether the request
// arrived over a secure scheme.
func (m *Matcher) Match(method, path string, secure bool) Result {
	var allowed []string

	for _, r := range m.routes.Static(path) {
		if !r.AllowsMethod(method) {
			allowed = append(allowed, r.Methods()...)
			continue
		}
		return found(r, &route.Match{
			Route:  r,
			Params: map[string]any{},
			Raw:    map[string]string{},
		}, secure)
	}

	for _, r := range m.routes.AllDynamic() {
		match, ok := route.NewMatch(r, path)
		if !ok {
			continue
		}
		if !r.AllowsMethod(method) {
			allowed = append(allowed, r.Methods()...)
			continue
		}
		return found(r, match, secure)
	}

	if len(allowed) > 0 {
		slices.Sort(allowed)
		return Result{Kind: MethodNotAllowed, Allowed: slices.Compact(allowed)}
	}
	return Result{Kind: NotFound}
}

func found(r *route.Route, match *route.Match, secure bool) Result {
	if r.IsSecure() && !secure {
		return Result{Kind: Insecure, Route: r}
	}
	return Result{Kind: Found, Match: match}
}
