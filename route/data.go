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
	"fmt"
	"slices"

	"rivaas.dev/dispatch/compiler"
)

// Data is the serializable form of a [Route]. It carries the compiled regex
// so a route restored from Data matches exactly like the original.
type Data struct {
	Name        string               `json:"name" yaml:"name" toml:"name" msgpack:"name" validate:"required"`
	Pattern     string               `json:"pattern" yaml:"pattern" toml:"pattern" msgpack:"pattern" validate:"required"`
	Methods     []string             `json:"methods" yaml:"methods" toml:"methods" msgpack:"methods" validate:"required,min=1,dive,required,uppercase"`
	Secure      bool                 `json:"secure,omitempty" yaml:"secure,omitempty" toml:"secure,omitempty" msgpack:"secure,omitempty"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" msgpack:"description,omitempty"`
	Dynamic     bool                 `json:"dynamic" yaml:"dynamic" toml:"dynamic" msgpack:"dynamic"`
	Regex       string               `json:"regex,omitempty" yaml:"regex,omitempty" toml:"regex,omitempty" msgpack:"regex,omitempty" validate:"required_if=Dynamic true"`
	Parameters  []compiler.Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty" msgpack:"parameters,omitempty" validate:"dive"`
	Stages      Stages               `json:"stages" yaml:"stages" toml:"stages" msgpack:"stages"`
	Target      Target               `json:"target" yaml:"target" toml:"target" msgpack:"target"`
}

// Data exports the route.
func (r *Route) Data() Data {
	return Data{
		Name:        r.name,
		Pattern:     r.pattern,
		Methods:     slices.Clone(r.methods),
		Secure:      r.secure,
		Description: r.description,
		Dynamic:     r.IsDynamic(),
		Regex:       r.Regex(),
		Parameters:  r.Parameters(),
		Stages:      r.stages.Clone(),
		Target:      r.target.Clone(),
	}
}

// FromData restores a route without re-running its builder.
func FromData(d Data) (*Route, error) {
	methods := normalizeMethods(d.Methods)
	if len(methods) == 0 {
		return nil, fmt.Errorf("route %q: %w", d.Name, ErrNoMethods)
	}
	if d.Target.Handler == "" {
		return nil, fmt.Errorf("route %q: %w", d.Name, ErrNoHandler)
	}

	m, err := compiler.FromRegex(d.Pattern, d.Regex, d.Parameters)
	if err != nil {
		return nil, fmt.Errorf("route %q: %w", d.Name, err)
	}
	if m.IsDynamic() != d.Dynamic {
		return nil, fmt.Errorf("route %q: %w: dynamic flag disagrees with pattern", d.Name, compiler.ErrInvalidPattern)
	}

	return &Route{
		name:        d.Name,
		pattern:     d.Pattern,
		description: d.Description,
		methods:     methods,
		secure:      d.Secure,
		matcher:     m,
		stages:      d.Stages.Clone(),
		target:      d.Target.Clone(),
	}, nil
}

// CommandData is the serializable form of a [Command].
type CommandData struct {
	Name        string               `json:"name" yaml:"name" toml:"name" msgpack:"name" validate:"required"`
	Pattern     string               `json:"pattern" yaml:"pattern" toml:"pattern" msgpack:"pattern" validate:"required"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" msgpack:"description,omitempty"`
	Dynamic     bool                 `json:"dynamic" yaml:"dynamic" toml:"dynamic" msgpack:"dynamic"`
	Regex       string               `json:"regex,omitempty" yaml:"regex,omitempty" toml:"regex,omitempty" msgpack:"regex,omitempty" validate:"required_if=Dynamic true"`
	Parameters  []compiler.Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty" toml:"parameters,omitempty" msgpack:"parameters,omitempty" validate:"dive"`
	Options     []InputOption        `json:"options,omitempty" yaml:"options,omitempty" toml:"options,omitempty" msgpack:"options,omitempty" validate:"dive"`
	Stages      Stages               `json:"stages" yaml:"stages" toml:"stages" msgpack:"stages"`
	Target      Target               `json:"target" yaml:"target" toml:"target" msgpack:"target"`
}

// Data exports the command.
func (c *Command) Data() CommandData {
	return CommandData{
		Name:        c.name,
		Pattern:     c.pattern,
		Description: c.description,
		Dynamic:     c.IsDynamic(),
		Regex:       c.Regex(),
		Parameters:  c.Parameters(),
		Options:     c.Options(),
		Stages:      c.stages.Clone(),
		Target:      c.target.Clone(),
	}
}

// CommandFromData restores a command without re-running its builder.
func CommandFromData(d CommandData) (*Command, error) {
	if d.Target.Handler == "" {
		return nil, fmt.Errorf("command %q: %w", d.Name, ErrNoHandler)
	}
	options, err := normalizeOptions(d.Options)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", d.Name, err)
	}

	m, err := compiler.FromRegex(d.Pattern, d.Regex, d.Parameters, commandOptions(nil)...)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", d.Name, err)
	}
	if m.IsDynamic() != d.Dynamic {
		return nil, fmt.Errorf("command %q: %w: dynamic flag disagrees with pattern", d.Name, compiler.ErrInvalidPattern)
	}

	return &Command{
		name:        d.Name,
		pattern:     d.Pattern,
		description: d.Description,
		matcher:     m,
		options:     options,
		stages:      d.Stages.Clone(),
		target:      d.Target.Clone(),
	}, nil
}
