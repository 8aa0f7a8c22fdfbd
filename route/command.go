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
	"slices"
	"strings"

	"rivaas.dev/dispatch/compiler"
)

// CommandRegex is the default constraint of a command parameter.
const CommandRegex = `\S+`

// ErrInvalidOption is returned when a command declares a malformed option.
var ErrInvalidOption = errors.New("invalid option")

// OptionMode describes whether an option takes a value.
type OptionMode string

const (
	// OptionNone is a boolean flag.
	OptionNone OptionMode = "none"
	// OptionRequired must be followed by a value.
	OptionRequired OptionMode = "required"
	// OptionOptional may be followed by a value.
	OptionOptional OptionMode = "optional"
)

// InputOption declares a named command-line option.
type InputOption struct {
	Name        string     `json:"name" yaml:"name" toml:"name" msgpack:"name" validate:"required"`
	Short       string     `json:"short,omitempty" yaml:"short,omitempty" toml:"short,omitempty" msgpack:"short,omitempty" validate:"omitempty,len=1"`
	Mode        OptionMode `json:"mode" yaml:"mode" toml:"mode" msgpack:"mode" validate:"oneof=none required optional"`
	Default     *string    `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty" msgpack:"default,omitempty"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty" msgpack:"description,omitempty"`
}

func (o InputOption) clone() InputOption {
	if o.Default != nil {
		d := *o.Default
		o.Default = &d
	}
	return o
}

// Command is an immutable CLI command descriptor. The pattern is a
// space-separated template such as "make:widget {name:[a-z]+} {kind?}".
type Command struct {
	name        string
	pattern     string
	description string
	matcher     *compiler.Matcher
	options     []InputOption
	stages      Stages
	target      Target
}

// Name returns the unique command name.
func (c *Command) Name() string { return c.name }

// Pattern returns the raw command template.
func (c *Command) Pattern() string { return c.pattern }

// Description returns the one-line description shown by help and list.
func (c *Command) Description() string { return c.description }

// IsDynamic reports whether the template declares parameters.
func (c *Command) IsDynamic() bool { return c.matcher.IsDynamic() }

// Regex returns the anchored regex source, or "" for a static template.
func (c *Command) Regex() string { return c.matcher.Regex() }

// Parameters returns the positional parameters in declaration order.
func (c *Command) Parameters() []compiler.Parameter { return c.matcher.Parameters() }

// Matcher returns the compiled template.
func (c *Command) Matcher() *compiler.Matcher { return c.matcher }

// Stages returns a copy of the per-stage middleware identifiers.
func (c *Command) Stages() Stages { return c.stages.Clone() }

// Target returns a copy of the dispatch target.
func (c *Command) Target() Target { return c.target.Clone() }

// Options returns a copy of the declared options.
func (c *Command) Options() []InputOption {
	out := make([]InputOption, len(c.options))
	for i, o := range c.options {
		out[i] = o.clone()
	}
	return out
}

// Option finds a declared option by long name.
func (c *Command) Option(name string) (InputOption, bool) {
	for _, o := range c.options {
		if o.Name == name {
			return o.clone(), true
		}
	}
	return InputOption{}, false
}

// OptionByShort finds a declared option by its one-letter alias.
func (c *Command) OptionByShort(short string) (InputOption, bool) {
	for _, o := range c.options {
		if o.Short != "" && o.Short == short {
			return o.clone(), true
		}
	}
	return InputOption{}, false
}

// Usage renders a usage line, e.g. "greet {who?} [--loud|-l]".
func (c *Command) Usage() string {
	var b strings.Builder
	b.WriteString(c.pattern)
	for _, o := range c.options {
		b.WriteString(" [--")
		b.WriteString(o.Name)
		if o.Short != "" {
			b.WriteString("|-")
			b.WriteString(o.Short)
		}
		switch o.Mode {
		case OptionRequired:
			b.WriteString("=VALUE")
		case OptionOptional:
			b.WriteString("[=VALUE]")
		}
		b.WriteString("]")
	}
	return b.String()
}

// CommandBuilder assembles a [Command].
type CommandBuilder struct {
	pattern     string
	name        string
	description string
	options     []InputOption
	opts        []compiler.Option
	stages      Stages
	target      Target
}

// NewCommand starts a command for the template pattern.
func NewCommand(pattern string) *CommandBuilder {
	return &CommandBuilder{pattern: strings.TrimSpace(pattern)}
}

// Pattern returns the template the builder was started with.
func (b *CommandBuilder) Pattern() string { return b.pattern }

// Name sets the unique command name. Defaults to the static words leading
// the template, so "cache clear {store?}" is named "cache clear".
func (b *CommandBuilder) Name(name string) *CommandBuilder {
	b.name = name
	return b
}

// Description sets the one-line description.
func (b *CommandBuilder) Description(desc string) *CommandBuilder {
	b.description = desc
	return b
}

// Option declares an option.
func (b *CommandBuilder) Option(o InputOption) *CommandBuilder {
	b.options = append(b.options, o.clone())
	return b
}

// Flag declares a boolean option.
func (b *CommandBuilder) Flag(name, short, desc string) *CommandBuilder {
	return b.Option(InputOption{Name: name, Short: short, Mode: OptionNone, Description: desc})
}

// Where sets the regex constraint of a positional parameter.
func (b *CommandBuilder) Where(param, pattern string) *CommandBuilder {
	b.opts = append(b.opts, compiler.WithRegex(param, pattern))
	return b
}

// Cast sets the cast of a positional parameter.
func (b *CommandBuilder) Cast(param string, c compiler.Cast) *CommandBuilder {
	b.opts = append(b.opts, compiler.WithCast(param, c))
	return b
}

// Default sets the value bound when a positional parameter is absent.
func (b *CommandBuilder) Default(param, value string) *CommandBuilder {
	b.opts = append(b.opts, compiler.WithDefault(param, value))
	return b
}

// OnRouteMatched appends route-matched middleware identifiers.
func (b *CommandBuilder) OnRouteMatched(ids ...string) *CommandBuilder {
	b.stages.RouteMatched = append(b.stages.RouteMatched, ids...)
	return b
}

// OnRouteDispatched appends route-dispatched middleware identifiers.
func (b *CommandBuilder) OnRouteDispatched(ids ...string) *CommandBuilder {
	b.stages.RouteDispatched = append(b.stages.RouteDispatched, ids...)
	return b
}

// OnThrowableCaught appends throwable-caught middleware identifiers.
func (b *CommandBuilder) OnThrowableCaught(ids ...string) *CommandBuilder {
	b.stages.ThrowableCaught = append(b.stages.ThrowableCaught, ids...)
	return b
}

// OnTerminated appends terminated middleware identifiers.
func (b *CommandBuilder) OnTerminated(ids ...string) *CommandBuilder {
	b.stages.Terminated = append(b.stages.Terminated, ids...)
	return b
}

// Stages appends every stage of s.
func (b *CommandBuilder) Stages(s Stages) *CommandBuilder {
	b.stages = b.stages.Merge(s)
	return b
}

// Handler sets the dispatch target handler.
func (b *CommandBuilder) Handler(handler string) *CommandBuilder {
	b.target.Handler = handler
	return b
}

// Dependencies appends container identifiers injected into the handler.
func (b *CommandBuilder) Dependencies(ids ...string) *CommandBuilder {
	b.target.Dependencies = append(b.target.Dependencies, ids...)
	return b
}

// Build validates the descriptor and compiles its template.
func (b *CommandBuilder) Build() (*Command, error) {
	if b.target.Handler == "" {
		return nil, fmt.Errorf("command %q: %w", b.pattern, ErrNoHandler)
	}
	options, err := normalizeOptions(b.options)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", b.pattern, err)
	}

	m, err := compiler.Compile(b.pattern, commandOptions(b.opts)...)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w", b.pattern, err)
	}

	c := &Command{
		name:        b.name,
		pattern:     b.pattern,
		description: b.description,
		matcher:     m,
		options:     options,
		stages:      b.stages.Clone(),
		target:      b.target.Clone(),
	}
	if c.name == "" {
		c.name = defaultName(b.pattern)
	}

	return c, nil
}

// MustBuild is like Build but panics on error.
func (b *CommandBuilder) MustBuild() *Command {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// defaultName returns the words of pattern before its first parameter, or
// the first token when the template starts with one.
func defaultName(pattern string) string {
	fields := strings.Fields(pattern)
	n := 0
	for n < len(fields) && !strings.Contains(fields[n], "{") {
		n++
	}
	if n == 0 && len(fields) > 0 {
		return fields[0]
	}
	return strings.Join(fields[:n], " ")
}

func commandOptions(extra []compiler.Option) []compiler.Option {
	return append([]compiler.Option{
		compiler.WithSeparator(' '),
		compiler.WithDefaultRegex(CommandRegex),
	}, extra...)
}

func normalizeOptions(in []InputOption) ([]InputOption, error) {
	out := make([]InputOption, 0, len(in))
	seen := make(map[string]struct{}, len(in)*2)
	for _, o := range in {
		o = o.clone()
		if o.Mode == "" {
			o.Mode = OptionNone
		}
		if o.Name == "" || strings.HasPrefix(o.Name, "-") {
			return nil, fmt.Errorf("%w: name %q", ErrInvalidOption, o.Name)
		}
		if len(o.Short) > 1 {
			return nil, fmt.Errorf("%w: short alias %q of %q", ErrInvalidOption, o.Short, o.Name)
		}
		if !slices.Contains([]OptionMode{OptionNone, OptionRequired, OptionOptional}, o.Mode) {
			return nil, fmt.Errorf("%w: mode %q of %q", ErrInvalidOption, o.Mode, o.Name)
		}
		if o.Mode == OptionNone && o.Default != nil {
			return nil, fmt.Errorf("%w: flag %q cannot have a default", ErrInvalidOption, o.Name)
		}

		for _, key := range []string{"--" + o.Name, "-" + o.Short} {
			if key == "-" {
				continue
			}
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %s declared twice", ErrInvalidOption, key)
			}
			seen[key] = struct{}{}
		}
		out = append(out, o)
	}
	return out, nil
}
