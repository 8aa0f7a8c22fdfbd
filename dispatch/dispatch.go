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

// Package dispatch invokes the handler a descriptor targets.
//
// The router and console only know [Dispatcher]. [Registry] maps handler
// names to functions, [ContainerDispatcher] looks handlers up in a
// service container, and [Chain] tries several dispatchers in order.
//
// A dispatcher that does not know a target returns an error wrapping
// [ErrNotDispatched]. That is the only signal [Chain] falls through on; a
// handler returning nil, false, 0 or "" has dispatched.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/route"
)

var (
	// ErrNotDispatched means the dispatcher does not handle the target.
	ErrNotDispatched = errors.New("target not dispatched")

	// ErrDependency means a declared dependency could not be resolved.
	ErrDependency = errors.New("dependency not resolved")

	// ErrDuplicateHandler is returned when a handler name is registered twice.
	ErrDuplicateHandler = errors.New("duplicate handler")
)

// Arguments are the named values passed to a handler: bound parameters
// plus resolved dependencies.
type Arguments map[string]any

// Get returns the argument called name.
func (a Arguments) Get(name string) (any, bool) {
	v, ok := a[name]
	return v, ok
}

// Clone returns a shallow copy. The result is never nil.
func (a Arguments) Clone() Arguments {
	out := make(Arguments, len(a))
	maps.Copy(out, a)
	return out
}

// Arg returns argument name as T. It reports false when the argument is
// missing or has another type.
func Arg[T any](a Arguments, name string) (T, bool) {
	v, ok := a[name].(T)
	return v, ok
}

// Dispatcher invokes a target.
type Dispatcher interface {
	Dispatch(ctx context.Context, target route.Target, args Arguments) (any, error)
}

// DispatcherFunc adapts a function to [Dispatcher].
type DispatcherFunc func(ctx context.Context, target route.Target, args Arguments) (any, error)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, target route.Target, args Arguments) (any, error) {
	return f(ctx, target, args)
}

// Verifier is implemented by dispatchers that can check a target before
// any request reaches it. Verify returns an error wrapping
// [ErrNotDispatched] for a target it does not handle and [ErrDependency]
// for a dependency that cannot resolve.
type Verifier interface {
	Verify(target route.Target) error
}

// Verify checks target against d. It reports nil when d cannot verify
// targets or handles none of them yet, since handlers may still be
// registered.
func Verify(d Dispatcher, target route.Target) error {
	v, ok := d.(Verifier)
	if !ok {
		return nil
	}
	if err := v.Verify(target); err != nil && !errors.Is(err, ErrNotDispatched) {
		return err
	}
	return nil
}

// Handler is the terminal unit of work behind a target.
type Handler interface {
	Handle(ctx context.Context, args Arguments) (any, error)
}

// HandlerFunc adapts a function to [Handler].
type HandlerFunc func(ctx context.Context, args Arguments) (any, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, args Arguments) (any, error) {
	return f(ctx, args)
}

// Chain tries each dispatcher in order until one does not return
// [ErrNotDispatched].
type Chain []Dispatcher

// Dispatch implements [Dispatcher].
func (c Chain) Dispatch(ctx context.Context, target route.Target, args Arguments) (any, error) {
	for _, d := range c {
		v, err := d.Dispatch(ctx, target, args)
		if errors.Is(err, ErrNotDispatched) {
			continue
		}
		return v, err
	}
	return nil, fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
}

// Verify implements [Verifier] for the first dispatcher that handles
// target. A dispatcher that cannot verify ends the search.
func (c Chain) Verify(target route.Target) error {
	for _, d := range c {
		v, ok := d.(Verifier)
		if !ok {
			return nil
		}
		err := v.Verify(target)
		if errors.Is(err, ErrNotDispatched) {
			continue
		}
		return err
	}
	return fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
}

// verifyDependencies reports the first dependency of target that c cannot
// provide.
func verifyDependencies(c container.Container, target route.Target) error {
	for _, id := range target.Dependencies {
		if c == nil {
			return fmt.Errorf("%w: %q: no container", ErrDependency, id)
		}
		if !c.Has(id) {
			return fmt.Errorf("%w: %q: %w", ErrDependency, id, container.ErrNotFound)
		}
	}
	return nil
}

// withDependencies returns args plus every dependency of target resolved
// from c, keyed by its identifier.
func withDependencies(c container.Container, target route.Target, args Arguments) (Arguments, error) {
	out := args.Clone()
	if len(target.Dependencies) == 0 {
		return out, nil
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %q: no container", ErrDependency, target.Dependencies[0])
	}

	for _, id := range target.Dependencies {
		v, err := c.Get(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrDependency, id, err)
		}
		out[id] = v
	}
	return out, nil
}
