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

package matcher

import (
	"slices"
	"strings"

	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/route"
)

// Built-in command names recognised by [CommandMatcher].
const (
	HelpCommand = "help"
	ListCommand = "list"
)

// HelpParameter is the parameter the help command receives the requested
// command name in.
const HelpParameter = "command"

// CommandResult is the outcome of [CommandMatcher.Match].
type CommandResult struct {
	Kind Kind

	// Match is set when Kind is Found.
	Match *route.CommandMatch

	// Err is an *argv.InputError when Kind is InvalidInput.
	Err error

	// Requested is the first positional token of the input.
	Requested string
}

// CommandOption configures a [CommandMatcher].
type CommandOption func(*CommandMatcher)

// WithHelpCommand sets the command that "--help" and "-h" redirect to.
// An empty name disables the redirect.
func WithHelpCommand(name string) CommandOption {
	return func(m *CommandMatcher) { m.help = name }
}

// WithDefaultCommand sets the command run when no command name is given.
// An empty name disables the fallback.
func WithDefaultCommand(name string) CommandOption {
	return func(m *CommandMatcher) { m.fallback = name }
}

// CommandMatcher matches parsed command lines against a command collection.
type CommandMatcher struct {
	commands *collection.Commands
	help     string
	fallback string
}

// NewCommandMatcher returns a matcher over commands. By default "--help"
// redirects to [HelpCommand] and empty input runs [ListCommand], when
// those commands are registered.
func NewCommandMatcher(commands *collection.Commands, opts ...CommandOption) *CommandMatcher {
	m := &CommandMatcher{
		commands: commands,
		help:     HelpCommand,
		fallback: ListCommand,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Commands returns the underlying collection.
func (m *CommandMatcher) Commands() *collection.Commands {
	return m.commands
}

// Match resolves in.
//
// The static index is tried first with the longest run of leading
// positional tokens that names a static command. Option values may sit
// between the words of a static command, so "cache --store redis clear"
// finds "cache clear" when that command declares store as valued. Tokens after the command
// name are reported in [route.CommandMatch.Remaining]. Dynamic commands are
// then scanned in registration order against the positional tokens joined
// by single spaces.
//
// Options are bound with the matched command's declarations, so
// "--name World" consumes "World" only when name takes a value.
func (m *CommandMatcher) Match(in *argv.Input) CommandResult {
	requested := in.Command()

	if m.help != "" && in.Has("help", "h") {
		if cmd := m.commands.Get(m.help); cmd != nil {
			return m.redirect(cmd, requested)
		}
	}

	if requested == "" && m.fallback != "" {
		if cmd := m.commands.Get(m.fallback); cmd != nil {
			return bindStatic(cmd, in, 0, requested)
		}
	}

	if cmd, n := m.static(in); cmd != nil {
		return bindStatic(cmd, in, n, requested)
	}

	for _, cmd := range m.commands.AllDynamic() {
		positional, options, err := bind(cmd, in)
		b, ok := cmd.Matcher().Match(strings.Join(positional, " "))
		if !ok {
			continue
		}
		if err != nil {
			return CommandResult{Kind: InvalidInput, Err: err, Requested: requested}
		}
		return CommandResult{
			Kind:      Found,
			Requested: requested,
			Match: &route.CommandMatch{
				Command: cmd,
				Params:  b.Values,
				Raw:     b.Raw,
				Options: options,
			},
		}
	}

	return CommandResult{Kind: NotFound, Requested: requested}
}

// static returns the static command for in and the number of positional
// tokens its template covers. A candidate is accepted when in binds to its
// declarations and the template leads the remaining positional tokens.
// Without such a candidate the raw longest-prefix lookup is returned so
// bindStatic reports the input error.
func (m *CommandMatcher) static(in *argv.Input) (*route.Command, int) {
	tokens := in.Positionals()
	if len(tokens) == 0 {
		return nil, 0
	}

	for _, cmd := range m.commands.StaticWithHead(tokens[0]) {
		positional, _, err := bind(cmd, in)
		if err != nil {
			continue
		}
		words := strings.Fields(cmd.Pattern())
		if len(positional) >= len(words) && slices.Equal(positional[:len(words)], words) {
			return cmd, len(words)
		}
	}

	return m.commands.Static(tokens)
}

func (m *CommandMatcher) redirect(help *route.Command, requested string) CommandResult {
	match := &route.CommandMatch{
		Command: help,
		Params:  map[string]any{HelpParameter: nil},
		Raw:     map[string]string{},
		Options: defaults(help),
	}
	if requested != "" && requested != help.Name() {
		match.Params[HelpParameter] = requested
		match.Raw[HelpParameter] = requested
	}
	return CommandResult{Kind: Found, Match: match, Requested: requested}
}

func bindStatic(cmd *route.Command, in *argv.Input, consumed int, requested string) CommandResult {
	positional, options, err := bind(cmd, in)
	if err != nil {
		return CommandResult{Kind: InvalidInput, Err: err, Requested: requested}
	}

	var remaining []string
	if consumed < len(positional) {
		remaining = positional[consumed:]
	}
	return CommandResult{
		Kind:      Found,
		Requested: requested,
		Match: &route.CommandMatch{
			Command:   cmd,
			Params:    map[string]any{},
			Raw:       map[string]string{},
			Options:   options,
			Remaining: remaining,
		},
	}
}

// defaults returns the option values of cmd before any input is applied:
// false for flags, the declared default or nil for valued options.
func defaults(cmd *route.Command) map[string]any {
	declared := cmd.Options()
	options := make(map[string]any, len(declared))
	for _, o := range declared {
		switch {
		case o.Mode == route.OptionNone:
			options[o.Name] = false
		case o.Default != nil:
			options[o.Name] = *o.Default
		default:
			options[o.Name] = nil
		}
	}
	return options
}

// bind splits in into positional tokens and option values according to
// cmd's declarations. Binding continues past errors so the positional
// tokens stay usable for structural matching; the first error is returned.
func bind(cmd *route.Command, in *argv.Input) ([]string, map[string]any, error) {
	options := defaults(cmd)

	var (
		positional []string
		firstErr   error
	)
	fail := func(tok argv.Token, err error) {
		if firstErr == nil {
			firstErr = &argv.InputError{Command: cmd.Name(), Token: tok.String(), Err: err}
		}
	}

	tokens := in.Tokens
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		var (
			opt route.InputOption
			ok  bool
		)
		switch tok.Kind {
		case argv.Long:
			opt, ok = cmd.Option(tok.Name)
		case argv.Short:
			opt, ok = cmd.OptionByShort(tok.Name)
		default:
			positional = append(positional, tok.Value)
			continue
		}
		if !ok {
			fail(tok, argv.ErrUnknownOption)
			continue
		}

		switch opt.Mode {
		case route.OptionNone:
			if tok.HasValue {
				fail(tok, argv.ErrUnexpectedValue)
				continue
			}
			options[opt.Name] = true

		case route.OptionRequired:
			switch {
			case tok.HasValue:
				options[opt.Name] = tok.Value
			case i+1 < len(tokens) && tokens[i+1].Kind == argv.Positional && !tokens[i+1].Literal:
				i++
				options[opt.Name] = tokens[i].Value
			default:
				fail(tok, argv.ErrMissingValue)
			}

		default:
			// Optional values must be attached with "=".
			if tok.HasValue {
				options[opt.Name] = tok.Value
			} else if opt.Default == nil {
				options[opt.Name] = ""
			}
		}
	}

	return positional, options, firstErr
}
