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

import "strings"

// Registrar stores built routes. A collection implements it.
type Registrar interface {
	Register(r *Route) error
}

// Group organizes related routes under a common path prefix, name prefix
// and middleware stages. Group stages run before the route's own.
//
// Example:
//
//	api := route.NewGroup(coll, "/api/v1").SetNamePrefix("api.")
//	users := api.Group("/users")
//	users.Add(route.GET("/{id}").Name("users.show").Handler("users.Show"))
//	// pattern "/api/v1/users/{id}", name "api.users.show"
type Group struct {
	registrar  Registrar
	prefix     string
	namePrefix string
	stages     Stages
}

// NewGroup creates a group registering into registrar.
func NewGroup(registrar Registrar, prefix string) *Group {
	return &Group{registrar: registrar, prefix: strings.TrimRight(prefix, "/")}
}

// Use adds middleware stages applied to every route of the group.
func (g *Group) Use(s Stages) *Group {
	g.stages = g.stages.Merge(s)
	return g
}

// SetNamePrefix appends prefix to the group's name prefix.
func (g *Group) SetNamePrefix(prefix string) *Group {
	g.namePrefix += prefix
	return g
}

// NamePrefix returns the current name prefix.
func (g *Group) NamePrefix() string {
	return g.namePrefix
}

// Prefix returns the path prefix.
func (g *Group) Prefix() string {
	return g.prefix
}

// Group creates a nested group. Prefixes, name prefix and stages are
// inherited.
func (g *Group) Group(prefix string) *Group {
	return &Group{
		registrar:  g.registrar,
		prefix:     g.prefix + strings.TrimRight(prefix, "/"),
		namePrefix: g.namePrefix,
		stages:     g.stages.Clone(),
	}
}

// Add builds b under the group and registers the result.
func (g *Group) Add(b *Builder) (*Route, error) {
	b.pattern = g.prefix + b.pattern
	if b.name != "" {
		b.name = g.namePrefix + b.name
	}
	b.stages = g.stages.Merge(b.stages)

	r, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := g.registrar.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// MustAdd is like Add but panics on error.
func (g *Group) MustAdd(b *Builder) *Route {
	r, err := g.Add(b)
	if err != nil {
		panic(err)
	}
	return r
}
