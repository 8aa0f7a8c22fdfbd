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

	"github.com/urfave/cli/v2"
)

func (p *program) cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "build or inspect the compiled route cache",
		Subcommands: []*cli.Command{
			{
				Name:  "build",
				Usage: "scan directories and write the route cache",
				Flags: append(sourceFlags(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to `FILE` instead of cache.path"},
					&cli.StringFlag{Name: "format", Usage: "json, yaml, toml or msgpack; defaults to the file extension"},
				),
				Action: p.buildCache,
			},
			{
				Name:   "show",
				Usage:  "print the cached tables",
				Action: p.showCache,
			},
		},
	}
}

func (p *program) buildCache(c *cli.Context) error {
	dirs := c.StringSlice("dir")
	if len(dirs) == 0 {
		return cli.Exit("cache build: at least one --dir is required", 2)
	}
	if c.IsSet("out") {
		p.settings.Cache.Path = c.String("out")
		p.settings.Cache.Redis = ""
	}
	if c.IsSet("format") {
		p.settings.Cache.Format = c.String("format")
	}

	t, err := scan(dirs, collectorOptions(c)...)
	if err != nil {
		return err
	}

	store, where, closeFn, err := p.store(c.Context)
	if err != nil {
		return err
	}
	defer closeFn()

	a := t.artifact()
	if err := store.Save(c.Context, a); err != nil {
		return fmt.Errorf("save %s: %w", where, err)
	}

	p.logger.Info("route cache written", "to", where, "format", p.settings.Cache.CodecType())
	_, _ = fmt.Fprintf(p.stdout, "Wrote %d routes and %d commands to %s\n", len(a.Routes), len(a.Commands), where)
	return nil
}

func (p *program) showCache(c *cli.Context) error {
	t, err := p.load(c)
	if err != nil {
		return err
	}
	renderRoutes(p.stdout, t.routes)
	renderCommands(p.stdout, t.commands)
	return nil
}
