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

package main

import (
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/urfave/cli/v2"

	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/matcher"
)

func (p *program) routesCommand() *cli.Command {
	return &cli.Command{
		Name:  "routes",
		Usage: "list HTTP routes",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			t, err := p.load(c)
			if err != nil {
				return err
			}
			renderRoutes(p.stdout, t.routes)
			return nil
		},
	}
}

func (p *program) commandsCommand() *cli.Command {
	return &cli.Command{
		Name:  "commands",
		Usage: "list console commands",
		Flags: sourceFlags(),
		Action: func(c *cli.Context) error {
			t, err := p.load(c)
			if err != nil {
				return err
			}
			renderCommands(p.stdout, t.commands)
			return nil
		},
	}
}

func (p *program) matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "match an HTTP request against the route table",
		ArgsUsage: "[METHOD] PATH",
		Flags: append(sourceFlags(),
			&cli.BoolFlag{Name: "secure", Usage: "treat the request as https"},
		),
		Action: func(c *cli.Context) error {
			method, target := http.MethodGet, c.Args().First()
			switch c.NArg() {
			case 1:
			case 2:
				method, target = strings.ToUpper(c.Args().Get(0)), c.Args().Get(1)
			default:
				return cli.Exit("match: expected [METHOD] PATH", 2)
			}
			u, err := url.Parse(target)
			if err != nil {
				return cli.Exit(fmt.Sprintf("match: %v", err), 2)
			}

			t, err := p.load(c)
			if err != nil {
				return err
			}

			res := matcher.New(t.routes).Match(method, u.Path, c.Bool("secure"))
			switch res.Kind {
			case matcher.Found:
				_, _ = fmt.Fprintf(p.stdout, "%s %s\n", res.Kind, res.Match.Route.Name())
				_, _ = fmt.Fprintf(p.stdout, "  handler: %s\n", res.Match.Route.Target().Handler)
				printValues(p.stdout, res.Match.Params)
				return nil
			case matcher.MethodNotAllowed:
				_, _ = fmt.Fprintf(p.stdout, "%s: allowed %s\n", res.Kind, strings.Join(res.Allowed, ", "))
			case matcher.Insecure:
				_, _ = fmt.Fprintf(p.stdout, "%s: %s requires a secure scheme\n", res.Kind, res.Route.Name())
			default:
				_, _ = fmt.Fprintf(p.stdout, "%s: %s %s\n", res.Kind, method, u.Path)
			}
			return cli.Exit("", 1)
		},
	}
}

func (p *program) resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "match console arguments against the command table",
		ArgsUsage: "-- COMMAND [ARGS...]",
		Flags:     sourceFlags(),
		Action: func(c *cli.Context) error {
			t, err := p.load(c)
			if err != nil {
				return err
			}

			res := matcher.NewCommandMatcher(t.commands).Match(argv.Parse(c.Args().Slice()))
			switch res.Kind {
			case matcher.Found:
				_, _ = fmt.Fprintf(p.stdout, "%s %s\n", res.Kind, res.Match.Command.Name())
				_, _ = fmt.Fprintf(p.stdout, "  handler: %s\n", res.Match.Command.Target().Handler)
				printValues(p.stdout, res.Match.Params)
				printValues(p.stdout, res.Match.Options)
				return nil
			case matcher.InvalidInput:
				_, _ = fmt.Fprintf(p.stdout, "%s: %v\n", res.Kind, res.Err)
				return cli.Exit("", 2)
			default:
				_, _ = fmt.Fprintf(p.stdout, "%s: %q\n", res.Kind, res.Requested)
				return cli.Exit("", 1)
			}
		},
	}
}

func printValues(w io.Writer, values map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(values)) {
		_, _ = fmt.Fprintf(w, "  %s = %v\n", k, values[k])
	}
}
