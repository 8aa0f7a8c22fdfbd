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

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/route"
)

var (
	// ErrNotFound is returned when a middleware identifier cannot be
	// resolved from the container.
	ErrNotFound = errors.New("middleware not found")

	// ErrNotMiddleware is returned when a container service implements no
	// stage interface.
	ErrNotMiddleware = errors.New("service is not middleware")
)

// Stages holds middleware for the stages a descriptor can declare.
type Stages[Req, Res, M any] struct {
	RouteMatched    []RouteMatched[Req, Res, M]
	RouteDispatched []RouteDispatched[Req, Res]
	ThrowableCaught []ThrowableCaught[Req, Res]
	SendingResponse []SendingResponse[Req, Res]
	Terminated      []Terminated[Req, Res]
}

// ResolveStages resolves every identifier of ids from c. A missing or
// mistyped service fails with [ErrNotFound].
func ResolveStages[Req, Res, M any](c container.Container, ids route.Stages) (*Stages[Req, Res, M], error) {
	var (
		s   Stages[Req, Res, M]
		err error
	)
	if s.RouteMatched, err = Resolve[RouteMatched[Req, Res, M]](c, ids.RouteMatched); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if s.RouteDispatched, err = Resolve[RouteDispatched[Req, Res]](c, ids.RouteDispatched); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if s.ThrowableCaught, err = Resolve[ThrowableCaught[Req, Res]](c, ids.ThrowableCaught); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if s.SendingResponse, err = Resolve[SendingResponse[Req, Res]](c, ids.SendingResponse); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if s.Terminated, err = Resolve[Terminated[Req, Res]](c, ids.Terminated); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return &s, nil
}

// Set is the middleware registry of a transport: global middleware for
// every stage plus the resolved middleware of each descriptor, keyed by
// descriptor name. Global registration may run concurrently with reads;
// descriptor middleware is bound once before the set is shared.
type Set[Req, Res, M any] struct {
	mu              sync.RWMutex
	requestReceived []RequestReceived[Req, Res]
	routeNotMatched []RouteNotMatched[Req, Res]
	global          Stages[Req, Res, M]

	own map[string]*Stages[Req, Res, M]
}

// NewSet creates an empty set.
func NewSet[Req, Res, M any]() *Set[Req, Res, M] {
	return &Set[Req, Res, M]{own: make(map[string]*Stages[Req, Res, M])}
}

// Bind resolves ids from c as the middleware of the descriptor called name.
func (s *Set[Req, Res, M]) Bind(c container.Container, name string, ids route.Stages) error {
	st, err := ResolveStages[Req, Res, M](c, ids)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.own[name] = st
	return nil
}

// Use resolves each identifier from c and registers the service as global
// middleware for every stage interface it implements.
func (s *Set[Req, Res, M]) Use(c container.Container, ids ...string) error {
	for _, id := range ids {
		v, err := c.Get(id)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", ErrNotFound, id, err)
		}
		if !s.Add(v) {
			return fmt.Errorf("%w: %q is %T", ErrNotMiddleware, id, v)
		}
	}
	return nil
}

// Add registers v as global middleware for every stage interface it
// implements and reports whether it implements any.
func (s *Set[Req, Res, M]) Add(v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := false
	if mw, ok := v.(RequestReceived[Req, Res]); ok {
		s.requestReceived = append(s.requestReceived, mw)
		added = true
	}
	if mw, ok := v.(RouteMatched[Req, Res, M]); ok {
		s.global.RouteMatched = append(s.global.RouteMatched, mw)
		added = true
	}
	if mw, ok := v.(RouteNotMatched[Req, Res]); ok {
		s.routeNotMatched = append(s.routeNotMatched, mw)
		added = true
	}
	if mw, ok := v.(RouteDispatched[Req, Res]); ok {
		s.global.RouteDispatched = append(s.global.RouteDispatched, mw)
		added = true
	}
	if mw, ok := v.(ThrowableCaught[Req, Res]); ok {
		s.global.ThrowableCaught = append(s.global.ThrowableCaught, mw)
		added = true
	}
	if mw, ok := v.(SendingResponse[Req, Res]); ok {
		s.global.SendingResponse = append(s.global.SendingResponse, mw)
		added = true
	}
	if mw, ok := v.(Terminated[Req, Res]); ok {
		s.global.Terminated = append(s.global.Terminated, mw)
		added = true
	}
	return added
}

// OnRequestReceived adds global request-received middleware.
func (s *Set[Req, Res, M]) OnRequestReceived(mw ...RequestReceived[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestReceived = append(s.requestReceived, mw...)
}

// OnRouteMatched adds global route-matched middleware.
func (s *Set[Req, Res, M]) OnRouteMatched(mw ...RouteMatched[Req, Res, M]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.RouteMatched = append(s.global.RouteMatched, mw...)
}

// OnRouteNotMatched adds global route-not-matched middleware.
func (s *Set[Req, Res, M]) OnRouteNotMatched(mw ...RouteNotMatched[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeNotMatched = append(s.routeNotMatched, mw...)
}

// OnRouteDispatched adds global route-dispatched middleware.
func (s *Set[Req, Res, M]) OnRouteDispatched(mw ...RouteDispatched[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.RouteDispatched = append(s.global.RouteDispatched, mw...)
}

// OnThrowableCaught adds global throwable-caught middleware.
func (s *Set[Req, Res, M]) OnThrowableCaught(mw ...ThrowableCaught[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.ThrowableCaught = append(s.global.ThrowableCaught, mw...)
}

// OnSendingResponse adds global sending-response middleware.
func (s *Set[Req, Res, M]) OnSendingResponse(mw ...SendingResponse[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.SendingResponse = append(s.global.SendingResponse, mw...)
}

// OnTerminated adds global terminated middleware.
func (s *Set[Req, Res, M]) OnTerminated(mw ...Terminated[Req, Res]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global.Terminated = append(s.global.Terminated, mw...)
}

// RequestReceived returns a copy of the request-received chain.
func (s *Set[Req, Res, M]) RequestReceived() []RequestReceived[Req, Res] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.requestReceived)
}

// RouteNotMatched returns a copy of the route-not-matched chain.
func (s *Set[Req, Res, M]) RouteNotMatched() []RouteNotMatched[Req, Res] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.routeNotMatched)
}

// For returns the global middleware followed by the middleware bound to
// the descriptor called name. An empty name returns only the global
// middleware.
func (s *Set[Req, Res, M]) For(name string) Stages[Req, Res, M] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Stages[Req, Res, M]{
		RouteMatched:    slices.Clone(s.global.RouteMatched),
		RouteDispatched: slices.Clone(s.global.RouteDispatched),
		ThrowableCaught: slices.Clone(s.global.ThrowableCaught),
		SendingResponse: slices.Clone(s.global.SendingResponse),
		Terminated:      slices.Clone(s.global.Terminated),
	}
	if name == "" {
		return out
	}
	if own := s.own[name]; own != nil {
		out.RouteMatched = append(out.RouteMatched, own.RouteMatched...)
		out.RouteDispatched = append(out.RouteDispatched, own.RouteDispatched...)
		out.ThrowableCaught = append(out.ThrowableCaught, own.ThrowableCaught...)
		out.SendingResponse = append(out.SendingResponse, own.SendingResponse...)
		out.Terminated = append(out.Terminated, own.Terminated...)
	}
	return out
}
