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

package route

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/dispatch/compiler"
)

// Sentinel errors returned by Build.
var (
	ErrNoMethods = errors.New("route has no methods")
	ErrNoHandler = errors.New("route has no handler")
)

// Stages lists middleware identifiers per pipeline stage, in execution
// order. Request-received and route-not-matched middleware run before a
// descriptor is known, so they are only registered globally.
type Stages struct {
	RouteMatched    []string `json:"route_matched,omitempty" yaml:"route_matched,omitempty" toml:"route_matched,omitempty" msgpack:"route_matched,omitempty"`
	RouteDispatched []string `json:"route_dispatched,omitempty" yaml:"route_dispatched,omitempty" toml:"route_dispatched,omitempty" msgpack:"route_dispatched,omitempty"`
	ThrowableCaught []string `json:"throwable_caught,omitempty" yaml:"throwable_caught,omitempty" toml:"throwable_caught,omitempty" msgpack:"throwable_caught,omitempty"`
	SendingResponse []string `json:"sending_response,omitempty" yaml:"sending_response,omitempty" toml:"sending_response,omitempty" msgpack:"sending_response,omitempty"`
	Terminated      []string `json:"terminated,omitempty" yaml:"terminated,omitempty" toml:"terminated,omitempty" msgpack:"terminated,omitempty"`
}

// Clone returns a deep copy.
func (s Stages) Clone() Stages {
	return Stages{
		RouteMatched:    slices.Clone(s.RouteMatched),
		RouteDispatched: slices.Clone(s.RouteDispatched),
		ThrowableCaught: slices.Clone(s.ThrowableCaught),
		SendingResponse: slices.Clone(s.SendingResponse),
		Terminated:      slices.Clone(s.Terminated),
	}
}

// Merge returns s with other's identifiers appended stage by stage.
func (s Stages) Merge(other Stages) Stages {
	out := s.Clone()
	out.RouteMatched = append(out.RouteMatched, other.RouteMatched...)
	out.RouteDispatched = append(out.RouteDispatched, other.RouteDispatched...)
	out.ThrowableCaught = append(out.ThrowableCaught, other.ThrowableCaught...)
	out.SendingResponse = append(out.SendingResponse, other.SendingResponse...)
	out.Terminated = append(out.Terminated, other.Terminated...)
	return out
}

// Target references what a matched descriptor dispatches to. The core never
// interprets it; a dispatcher resolves Handler and the container resolves
// Dependencies.
type Target struct {
	Handler      string   `json:"handler" yaml:"handler" toml:"handler" msgpack:"handler" validate:"required"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty" msgpack:"dependencies,omitempty"`
}

// Clone returns a deep copy.
func (t Target) Clone() Target {
	return Target{Handler: t.Handler, Dependencies: slices.Clone(t.Dependencies)}
}

// Route is an immutable HTTP route descriptor. Create one with a [Builder].
type Route struct {
	name        string
	pattern     string
	description string
	methods     []string
	secure      bool
	matcher     *compiler.Matcher
	stages      Stages
	target      Target
}

// Name returns the unique logical name used for reverse lookup.
func (r *Route) Name() string { return r.name }

// Pattern returns the raw path template.
func (r *Route) Pattern() string { return r.pattern }

// Description returns the optional human-readable description.
func (r *Route) Description() string { return r.description }

// Methods returns the accepted methods, sorted.
func (r *Route) Methods() []string { return slices.Clone(r.methods) }

// IsSecure reports whether the route requires HTTPS.
func (r *Route) IsSecure() bool { return r.secure }

// IsDynamic reports whether the pattern declares parameters.
func (r *Route) IsDynamic() bool { return r.matcher.IsDynamic() }

// Regex returns the anchored regex source, or "" for a static route.
func (r *Route) Regex() string { return r.matcher.Regex() }

// Parameters returns the parameters in declaration order.
func (r *Route) Parameters() []compiler.Parameter { return r.matcher.Parameters() }

// Matcher returns the compiled pattern.
func (r *Route) Matcher() *compiler.Matcher { return r.matcher }

// Stages returns a copy of the per-stage middleware identifiers.
func (r *Route) Stages() Stages { return r.stages.Clone() }

// Target returns a copy of the dispatch target.
func (r *Route) Target() Target { return r.target.Clone() }

// AllowsMethod reports whether method is accepted.
func (r *Route) AllowsMethod(method string) bool {
	_, ok := slices.BinarySearch(r.methods, method)
	return ok
}

// URL builds a path for the route from params.
//
// Example:
//
//	url, err := show.URL(map[string]string{"id": "42"}) // "/widgets/42"
func (r *Route) URL(params map[string]string) (string, error) {
	return r.matcher.Build(params)
}

func (r *Route) String() string {
	return strings.Join(r.methods, ",") + " " + r.pattern
}

// Builder assembles a [Route]. Methods record their input; Build validates
// and compiles everything at once.
type Builder struct {
	pattern     string
	name        string
	description string
	methods     []string
	secure      bool
	opts        []compiler.Option
	stages      Stages
	target      Target
}

// New starts a route for pattern accepting methods.
func New(pattern string, methods ...string) *Builder {
	return &Builder{pattern: pattern, methods: methods}
}

// GET starts a GET route. HEAD is accepted too.
func GET(pattern string) *Builder { return New(pattern, http.MethodGet) }

// POST starts a POST route.
func POST(pattern string) *Builder { return New(pattern, http.MethodPost) }

// PUT starts a PUT route.
func PUT(pattern string) *Builder { return New(pattern, http.MethodPut) }

// PATCH starts a PATCH route.
func PATCH(pattern string) *Builder { return New(pattern, http.MethodPatch) }

// DELETE starts a DELETE route.
func DELETE(pattern string) *Builder { return New(pattern, http.MethodDelete) }

// OPTIONS starts an OPTIONS route.
func OPTIONS(pattern string) *Builder { return New(pattern, http.MethodOptions) }

// Any starts a route accepting every standard method.
func Any(pattern string) *Builder {
	return New(pattern,
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions,
	)
}

// Pattern returns the pattern the builder was started with.
func (b *Builder) Pattern() string { return b.pattern }

// Name sets the unique route name. Defaults to "METHODS pattern".
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Description sets a human-readable description.
func (b *Builder) Description(desc string) *Builder {
	b.description = desc
	return b
}

// Methods adds accepted methods.
func (b *Builder) Methods(methods ...string) *Builder {
	b.methods = append(b.methods, methods...)
	return b
}

// Secure requires HTTPS.
func (b *Builder) Secure() *Builder {
	b.secure = true
	return b
}

// Prefix prepends prefix to the pattern.
func (b *Builder) Prefix(prefix string) *Builder {
	b.pattern = strings.TrimRight(prefix, "/") + b.pattern
	return b
}

// Where sets the regex constraint of param, replacing any inline one.
//
// Example:
//
//	route.GET("/files/{name}").Where("name", `[a-zA-Z0-9.-]+`)
func (b *Builder) Where(param, pattern string) *Builder {
	b.opts = append(b.opts, compiler.WithRegex(param, pattern))
	return b
}

// WhereConstraint applies a typed constraint to param.
func (b *Builder) WhereConstraint(param string, pc ParamConstraint) *Builder {
	b.opts = append(b.opts, pc.options(param)...)
	return b
}

// WhereInt constrains param to digits and casts it to int.
//
// Example:
//
//	route.GET("/users/{id}").WhereInt("id")
func (b *Builder) WhereInt(param string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintInt})
}

// WhereFloat constrains param to a decimal number and casts it to float64.
func (b *Builder) WhereFloat(param string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintFloat})
}

// WhereUUID constrains param to a UUID and casts it to uuid.UUID.
func (b *Builder) WhereUUID(param string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintUUID})
}

// WhereEnum constrains param to one of values.
//
// Example:
//
//	route.GET("/status/{state}").WhereEnum("state", "active", "pending")
func (b *Builder) WhereEnum(param string, values ...string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintEnum, Enum: values})
}

// WhereDate constrains param to an RFC3339 full-date.
func (b *Builder) WhereDate(param string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintDate})
}

// WhereDateTime constrains param to an RFC3339 date-time.
func (b *Builder) WhereDateTime(param string) *Builder {
	return b.WhereConstraint(param, ParamConstraint{Kind: ConstraintDateTime})
}

// Cast sets the cast applied to param after matching.
func (b *Builder) Cast(param string, c compiler.Cast) *Builder {
	b.opts = append(b.opts, compiler.WithCast(param, c))
	return b
}

// Default sets the value bound when param is absent. The parameter
// becomes optional.
func (b *Builder) Default(param, value string) *Builder {
	b.opts = append(b.opts, compiler.WithDefault(param, value))
	return b
}

// NoCapture keeps param out of the bound parameters.
func (b *Builder) NoCapture(param string) *Builder {
	b.opts = append(b.opts, compiler.WithoutCapture(param))
	return b
}

// OnRouteMatched appends route-matched middleware identifiers.
func (b *Builder) OnRouteMatched(ids ...string) *Builder {
	b.stages.RouteMatched = append(b.stages.RouteMatched, ids...)
	return b
}

// OnRouteDispatched appends route-dispatched middleware identifiers.
func (b *Builder) OnRouteDispatched(ids ...string) *Builder {
	b.stages.RouteDispatched = append(b.stages.RouteDispatched, ids...)
	return b
}

// OnThrowableCaught appends throwable-caught middleware identifiers.
func (b *Builder) OnThrowableCaught(ids ...string) *Builder {
	b.stages.ThrowableCaught = append(b.stages.ThrowableCaught, ids...)
	return b
}

// OnSendingResponse appends sending-response middleware identifiers.
func (b *Builder) OnSendingResponse(ids ...string) *Builder {
	b.stages.SendingResponse = append(b.stages.SendingResponse, ids...)
	return b
}

// OnTerminated appends terminated middleware identifiers.
func (b *Builder) OnTerminated(ids ...string) *Builder {
	b.stages.Terminated = append(b.stages.Terminated, ids...)
	return b
}

// Stages appends every stage of s.
func (b *Builder) Stages(s Stages) *Builder {
	b.stages = b.stages.Merge(s)
	return b
}

// Handler sets the dispatch target handler.
func (b *Builder) Handler(handler string) *Builder {
	b.target.Handler = handler
	return b
}

// Dependencies appends container identifiers injected into the handler.
func (b *Builder) Dependencies(ids ...string) *Builder {
	b.target.Dependencies = append(b.target.Dependencies, ids...)
	return b
}

// Build validates the descriptor and compiles its pattern.
func (b *Builder) Build() (*Route, error) {
	methods := normalizeMethods(b.methods)
	if len(methods) == 0 {
		return nil, fmt.Errorf("route %q: %w", b.pattern, ErrNoMethods)
	}
	if b.target.Handler == "" {
		return nil, fmt.Errorf("route %q: %w", b.pattern, ErrNoHandler)
	}

	m, err := compiler.Compile(b.pattern, b.opts...)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", b.pattern, err)
	}

	r := &Route{
		name:        b.name,
		pattern:     b.pattern,
		description: b.description,
		methods:     methods,
		secure:      b.secure,
		matcher:     m,
		stages:      b.stages.Clone(),
		target:      b.target.Clone(),
	}
	if r.name == "" {
		r.name = r.String()
	}

	return r, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Route {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// normalizeMethods uppercases, deduplicates and sorts methods. GET implies HEAD.
func normalizeMethods(methods []string) []string {
	out := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		m = strings.ToUpper(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		out = append(out, m)
		if m == http.MethodGet {
			out = append(out, http.MethodHead)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
