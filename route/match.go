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

// Match is the outcome of matching a request against a route: the
// descriptor plus its bound parameters. It belongs to one request.
type Match struct {
	Route  *Route
	Params map[string]any
	Raw    map[string]string
}

// NewMatch binds path against r. It returns false if path does not match
// the route's pattern.
func NewMatch(r *Route, path string) (*Match, bool) {
	b, ok := r.matcher.Match(path)
	if !ok {
		return nil, false
	}
	return &Match{Route: r, Params: b.Values, Raw: b.Raw}, true
}

// Param returns the cast value of name.
func (m *Match) Param(name string) (any, bool) {
	v, ok := m.Params[name]
	return v, ok
}

// Captured returns the raw text bound to name, or "" if it was not captured.
func (m *Match) Captured(name string) string {
	return m.Raw[name]
}

// CommandMatch is the CLI counterpart of [Match]. Options holds every
// declared option: flags as bool, valued options as string or nil.
// Remaining lists the positional tokens the pattern did not consume.
type CommandMatch struct {
	Command   *Command
	Params    map[string]any
	Raw       map[string]string
	Options   map[string]any
	Remaining []string
}

// Param returns the cast value of a positional parameter.
func (m *CommandMatch) Param(name string) (any, bool) {
	v, ok := m.Params[name]
	return v, ok
}

// Option returns the bound value of option name.
func (m *CommandMatch) Option(name string) (any, bool) {
	v, ok := m.Options[name]
	return v, ok
}

// Flag reports whether the flag name was set.
func (m *CommandMatch) Flag(name string) bool {
	v, _ := m.Options[name].(bool)
	return v
}
