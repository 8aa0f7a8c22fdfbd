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

package dispatch

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/route"
)

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// WithContainer sets the container dependencies are resolved from.
func WithContainer(c container.Container) RegistryOption {
	return func(r *Registry) { r.container = c }
}

// Registry dispatches targets to handlers registered by name.
type Registry struct {
	mu        sync.RWMutex
	handlers  map[string]Handler
	container container.Container
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds h under name.
func (r *Registry) Register(name string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateHandler, name)
	}
	r.handlers[name] = h
	return nil
}

// Handle registers a function under name. It panics on a duplicate name.
func (r *Registry) Handle(name string, f func(ctx context.Context, args Arguments) (any, error)) *Registry {
	if err := r.Register(name, HandlerFunc(f)); err != nil {
		panic(err)
	}
	return r
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch implements [Dispatcher]. An unknown handler name returns
// [ErrNotDispatched].
func (r *Registry) Dispatch(ctx context.Context, target route.Target, args Arguments) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[target.Handler]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
	}

	args, err := withDependencies(r.container, target, args)
	if err != nil {
		return nil, err
	}
	return h.Handle(ctx, args)
}

// Verify implements [Verifier]. Dependencies are checked for targets whose
// handler is registered.
func (r *Registry) Verify(target route.Target) error {
	if !r.Has(target.Handler) {
		return fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
	}
	return verifyDependencies(r.container, target)
}

// ContainerDispatcher resolves the handler itself from a container. The
// service must implement [Handler] or be a HandlerFunc-compatible function.
type ContainerDispatcher struct {
	container container.Container
}

// NewContainerDispatcher creates a dispatcher over c.
func NewContainerDispatcher(c container.Container) *ContainerDispatcher {
	return &ContainerDispatcher{container: c}
}

// Dispatch implements [Dispatcher]. A handler missing from the container
// or of an unusable type returns [ErrNotDispatched].
func (d *ContainerDispatcher) Dispatch(ctx context.Context, target route.Target, args Arguments) (any, error) {
	if !d.container.Has(target.Handler) {
		return nil, fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
	}

	svc, err := d.container.Get(target.Handler)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrDependency, target.Handler, err)
	}

	var h Handler
	switch v := svc.(type) {
	case Handler:
		h = v
	case func(context.Context, Arguments) (any, error):
		h = HandlerFunc(v)
	default:
		return nil, fmt.Errorf("%w: %q is %T", ErrNotDispatched, target.Handler, svc)
	}

	args, err = withDependencies(d.container, target, args)
	if err != nil {
		return nil, err
	}
	return h.Handle(ctx, args)
}

// Verify implements [Verifier]. Dependencies are checked for targets whose
// handler the container provides.
func (d *ContainerDispatcher) Verify(target route.Target) error {
	if !d.container.Has(target.Handler) {
		return fmt.Errorf("%w: %q", ErrNotDispatched, target.Handler)
	}
	return verifyDependencies(d.container, target)
}
