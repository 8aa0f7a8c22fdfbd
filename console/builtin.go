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

package console

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/route"
)

// Targets of the built-in commands. The console serves them before its
// configured dispatcher.
const (
	HelpTarget = "console.Help"
	ListTarget = "console.List"
)

// Builtins returns builders for the help and list commands.
func Builtins() []*route.CommandBuilder {
	return []*route.CommandBuilder{
		route.NewCommand(matcher.HelpCommand + " {" + matcher.HelpParameter + "?}").
			Name(matcher.HelpCommand).
			Description("Display help for a command").
			Handler(HelpTarget),
		route.NewCommand(matcher.ListCommand).
			Name(matcher.ListCommand).
			Description("List commands").
			Handler(ListTarget),
	}
}

// RegisterBuiltins adds the built-in commands that commands does not
// already define.
func RegisterBuiltins(commands *collection.Commands) error {
	for _, b := range Builtins() {
		cmd, err := b.Build()
		if err != nil {
			return err
		}
		if commands.Has(cmd.Name()) {
			continue
		}
		if err := commands.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) builtins() *dispatch.Registry {
	return dispatch.NewRegistry().
		Handle(HelpTarget, func(_ context.Context, args dispatch.Arguments) (any, error) {
			name, _ := dispatch.Arg[string](args, matcher.HelpParameter)
			if name == "" {
				return Success(c.list()), nil
			}
			cmd := c.commands.Get(name)
			if cmd == nil {
				return Failure(ExitNotFound, c.unknown(name)), nil
			}
			return Success(describe(cmd)), nil
		}).
		Handle(ListTarget, func(context.Context, dispatch.Arguments) (any, error) {
			return Success(c.list()), nil
		})
}

func (c *Console) list() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, name := range c.commands.Names() {
		fmt.Fprintf(tw, "  %s\t%s\n", name, c.commands.Get(name).Description())
	}
	_ = tw.Flush()
	return b.String()
}

// describe renders the help page of cmd.
func describe(cmd *route.Command) string {
	var b strings.Builder
	if d := cmd.Description(); d != "" {
		fmt.Fprintf(&b, "Description:\n  %s\n\n", d)
	}
	fmt.Fprintf(&b, "Usage:\n  %s\n", cmd.Usage())

	options := cmd.Options()
	if len(options) == 0 {
		return b.String()
	}

	b.WriteString("\nOptions:\n")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, o := range options {
		flag := "    --" + o.Name
		if o.Short != "" {
			flag = "-" + o.Short + ", --" + o.Name
		}
		switch o.Mode {
		case route.OptionRequired:
			flag += "=VALUE"
		case route.OptionOptional:
			flag += "[=VALUE]"
		}
		desc := o.Description
		if o.Default != nil {
			desc = strings.TrimSpace(desc + fmt.Sprintf(" [default: %q]", *o.Default))
		}
		fmt.Fprintf(tw, "  %s\t%s\n", flag, desc)
	}
	_ = tw.Flush()
	return b.String()
}
