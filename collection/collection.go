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

package collection

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/route"
)

// Sentinel errors.
var (
	ErrDuplicateName = errors.New("duplicate descriptor name")
	ErrFrozen        = errors.New("collection is frozen")
)

const (
	// minStaticForBloom is the number of static paths from which Freeze
	// builds a bloom filter in front of the static index.
	minStaticForBloom = 10
	bloomBitsPerPath  = 16
	bloomHashFuncs    = 3
)

// Collection is an indexed store of HTTP route descriptors.
type Collection struct {
	mu      sync.RWMutex
	frozen  bool
	names   map[string]*route.Route
	all     []*route.Route
	static  map[string][]*route.Route
	dynamic []*route.Route
	bloom   *bloomFilter
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{
		names:  make(map[string]*route.Route),
		static: make(map[string][]*route.Route),
	}
}

// Register adds r to every index. A name already present is a
// configuration error; nothing is overwritten.
func (c *Collection) Register(r *route.Route) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("register %q: %w", r.Name(), ErrFrozen)
	}
	if _, dup := c.names[r.Name()]; dup {
		return fmt.Errorf("register %q: %w", r.Name(), ErrDuplicateName)
	}

	c.names[r.Name()] = r
	c.all = append(c.all, r)
	if r.IsDynamic() {
		c.dynamic = append(c.dynamic, r)
	} else {
		c.static[r.Pattern()] = append(c.static[r.Pattern()], r)
	}

	return nil
}

// Add builds b and registers the result.
func (c *Collection) Add(b *route.Builder) (*route.Route, error) {
	r, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := c.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// MustAdd is like Add but panics on error.
func (c *Collection) MustAdd(b *route.Builder) *route.Route {
	r, err := c.Add(b)
	if err != nil {
		panic(err)
	}
	return r
}

// Group starts a route group registering into c.
func (c *Collection) Group(prefix string) *route.Group {
	return route.NewGroup(c, prefix)
}

// Freeze makes the collection read-only and builds the bloom filter for
// the static index. Freezing twice is a no-op.
func (c *Collection) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return
	}
	c.frozen = true

	if len(c.static) >= minStaticForBloom {
		//nolint:gosec // G115: path count is non-negative
		c.bloom = newBloomFilter(uint64(len(c.static)*bloomBitsPerPath), bloomHashFuncs)
		for path := range c.static {
			c.bloom.add(path)
		}
	}
}

// Frozen reports whether Freeze was called.
func (c *Collection) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// Get returns the route named name, or nil.
func (c *Collection) Get(name string) *route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[name]
}

// Has reports whether a route named name exists.
func (c *Collection) Has(name string) bool {
	return c.Get(name) != nil
}

// Static returns the static routes registered for path, in registration
// order.
func (c *Collection) Static(path string) []*route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.bloom != nil && !c.bloom.test(path) {
		return nil
	}
	return slices.Clone(c.static[path])
}

// GetByMethodAndPath returns the first static route for path accepting
// method, or nil.
func (c *Collection) GetByMethodAndPath(method, path string) *route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.bloom != nil && !c.bloom.test(path) {
		return nil
	}
	for _, r := range c.static[path] {
		if r.AllowsMethod(method) {
			return r
		}
	}
	return nil
}

// AllDynamic returns the dynamic routes in registration order.
func (c *Collection) AllDynamic() []*route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dynamic)
}

// All returns every route in registration order.
func (c *Collection) All() []*route.Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.all)
}

// Len returns the number of routes.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// Export serializes every route in registration order.
func (c *Collection) Export() cache.Artifact {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a := cache.Artifact{Version: cache.FormatVersion}
	if len(c.all) > 0 {
		a.Routes = make([]route.Data, 0, len(c.all))
		for _, r := range c.all {
			a.Routes = append(a.Routes, r.Data())
		}
	}
	return a
}

// FromArtifact rebuilds a frozen collection from the routes of a. The
// result matches every input exactly like the collection a was exported
// from. Any invalid entry fails the whole load.
func FromArtifact(a cache.Artifact) (*Collection, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	c := New()
	for _, d := range a.Routes {
		r, err := route.FromData(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cache.ErrCorruptArtifact, err)
		}
		if err := c.Register(r); err != nil {
			return nil, fmt.Errorf("%w: %w", cache.ErrCorruptArtifact, err)
		}
	}
	c.Freeze()

	return c, nil
}
