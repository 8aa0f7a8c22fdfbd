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
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"rivaas.dev/dispatch/config"
	"rivaas.dev/dispatch/logging"
)

type program struct {
	stdout   io.Writer
	stderr   io.Writer
	settings *config.Settings
	logger   *slog.Logger
}

func newApp(stdout, stderr io.Writer) *cli.App {
	p := &program{stdout: stdout, stderr: stderr, logger: logging.Discard()}

	return &cli.App{
		Name:      "dispatch",
		Usage:     "inspect, cache and serve annotated route and command tables",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "settings file (json, yaml, toml or msgpack)",
				EnvVars: []string{"DISPATCH_CONFIG"},
			},
			&cli.BoolFlag{Name: "debug", Usage: "verbose logging and panic details in responses"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-format", Usage: "console, text or json"},
		},
		Before:         p.before,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			p.routesCommand(),
			p.commandsCommand(),
			p.matchCommand(),
			p.resolveCommand(),
			p.cacheCommand(),
			p.serveCommand(),
		},
	}
}

func (p *program) before(c *cli.Context) error {
	s, err := config.LoadSettings(c.Context, c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("debug") {
		s.Debug = c.Bool("debug")
	}
	if c.IsSet("log-level") {
		s.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		s.Log.Format = c.String("log-format")
	}

	level, err := logging.ParseLevel(s.Log.Level)
	if err != nil {
		return err
	}
	if s.Debug {
		level = logging.LevelDebug
	}

	logger, err := logging.New(
		logging.WithHandlerType(logging.HandlerType(s.Log.Format)),
		logging.WithOutput(p.stderr),
		logging.WithLevel(level),
		logging.WithServiceName("dispatch"),
		logging.WithServiceVersion(version),
	)
	if err != nil {
		return err
	}

	p.settings, p.logger = s, logger
	return nil
}

// sourceFlags select where route and command tables come from.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "dir", Aliases: []string{"d"}, Usage: "scan `DIR` for annotations instead of reading the cache"},
		&cli.StringFlag{Name: "package", Usage: "package name used in default handler names"},
		&cli.BoolFlag{Name: "tests", Usage: "include _test.go files"},
	}
}
