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

// Package container provides the service lookup the router and console use
// to turn middleware identifiers and handler dependencies into instances.
//
// [Container] is the only interface the rest of the module depends on.
// [Map] is a small explicit implementation: values, per-call factories and
// lazily built singletons registered by identifier.
package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when no service is registered under an id.
	ErrNotFound = errors.New("service not found")

	// ErrWrongType is returned by [Resolve] when a service does not have
	// the requested type.
	ErrWrongType = errors.New("service has wrong type")
)

// Container looks services up by identifier.
type Container interface {
	Get(id string) (any, error)
	Has(id string) bool
}

// Factory builds a service. It receives the container so it can resolve
// its own dependencies.
type Factory func(c Container) (any, error)

type entry struct {
	value     any
	factory   Factory
	singleton bool

	once sync.Once
	err  error
}

// Map is a thread-safe [Container] backed by a map.
type Map struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// New creates an empty container.
func New() *Map {
	return &Map{entries: make(map[string]*entry)}
}

// Set registers a ready value under id, replacing any previous entry.
func (m *Map) Set(id string, v any) *Map {
	m.put(id, &entry{value: v})
	return m
}

// Bind registers a factory called on every Get.
func (m *Map) Bind(id string, f Factory) *Map {
	m.put(id, &entry{factory: f})
	return m
}

// Singleton registers a factory called once, on first Get. A factory error
// is cached and returned by every later Get.
func (m *Map) Singleton(id string, f Factory) *Map {
	m.put(id, &entry{factory: f, singleton: true})
	return m
}

func (m *Map) put(id string, e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = e
}

// Get returns the service registered under id.
func (m *Map) Get(id string) (any, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	switch {
	case e.factory == nil:
		return e.value, nil
	case e.singleton:
		e.once.Do(func() {
			e.value, e.err = e.factory(m)
		})
		if e.err != nil {
			return nil, fmt.Errorf("service %q: %w", id, e.err)
		}
		return e.value, nil
	default:
		v, err := e.factory(m)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", id, err)
		}
		return v, nil
	}
}

// Has reports whether id is registered.
func (m *Map) Has(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[id]
	return ok
}

// IDs returns every registered identifier, sorted.
func (m *Map) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve gets id from c and asserts it to T.
func Resolve[T any](c Container, id string) (T, error) {
	var zero T

	v, err := c.Get(id)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T", ErrWrongType, id, v)
	}
	return t, nil
}

// MustResolve is like [Resolve] but panics on error.
func MustResolve[T any](c Container, id string) T {
	t, err := Resolve[T](c, id)
	if err != nil {
		panic(err)
	}
	return t
}
