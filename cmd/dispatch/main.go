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

// Command dispatch inspects, caches and serves route and command tables
// declared with //dispatch: annotations.
//
//	dispatch routes --dir ./handlers
//	dispatch match --dir ./handlers GET /widgets/42
//	dispatch resolve --dir ./handlers -- make:widget gizmo --force
//	dispatch cache build --dir ./handlers --out routes.msgpack
//	dispatch serve --addr :8080
//
// Without --dir, tables are read from the cache configured by cache.path or
// cache.redis in the settings file or DISPATCH_ environment.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).RunContext(ctx, args)
	if err == nil {
		return 0
	}

	code := 1
	var exit cli.ExitCoder
	if errors.As(err, &exit) {
		code = exit.ExitCode()
	}
	if msg := err.Error(); msg != "" {
		_, _ = color.New(color.FgRed).Fprintf(stderr, "dispatch: %s\n", msg)
	}
	return code
}
