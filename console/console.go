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
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/logging"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/route"
)

const tracerName = "rivaas.dev/dispatch/console"

// Suggester proposes command names for an unknown requested name.
type Suggester interface {
	Suggest(requested string, names []string) []string
}

// SuggesterFunc adapts a function to [Suggester].
type SuggesterFunc func(requested string, names []string) []string

// Suggest calls f.
func (f SuggesterFunc) Suggest(requested string, names []string) []string {
	return f(requested, names)
}

type stageSet = middleware.Set[*argv.Input, *Output, *route.CommandMatch]

// Console dispatches command lines. It is safe for concurrent use once
// global middleware registration is done.
type Console struct {
	commands    *collection.Commands
	matcher     *matcher.CommandMatcher
	matcherOpts []matcher.CommandOption
	dispatcher  dispatch.Dispatcher
	container   container.Container
	suggester   Suggester

	debug    bool
	color    *bool
	errColor *color.Color

	logger         *slog.Logger
	metrics        *metrics.Recorder
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	stages *stageSet
}

// New creates a console over commands, freezing the collection. Command
// middleware identifiers are resolved through the container here, and
// command dependencies are checked against a dispatcher that implements
// [dispatch.Verifier]. The built-in help and list targets are served ahead
// of the configured dispatcher.
func New(commands *collection.Commands, opts ...Option) (*Console, error) {
	if commands == nil {
		return nil, ErrNilCollection
	}

	c := &Console{
		commands: commands,
		stages:   middleware.NewSet[*argv.Input, *Output, *route.CommandMatch](),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dispatcher == nil {
		return nil, ErrNoDispatcher
	}
	configured := c.dispatcher
	c.dispatcher = dispatch.Chain{c.builtins(), configured}

	if c.container == nil {
		c.container = container.New()
	}
	if c.logger == nil {
		c.logger = logging.Discard()
	}
	if c.tracerProvider == nil {
		c.tracerProvider = otel.GetTracerProvider()
	}
	c.tracer = c.tracerProvider.Tracer(tracerName)

	c.errColor = color.New(color.FgRed)
	switch {
	case c.color == nil:
		if color.NoColor {
			c.errColor = nil
		}
	case *c.color:
		c.errColor.EnableColor()
	default:
		c.errColor = nil
	}

	commands.Freeze()
	c.matcher = matcher.NewCommandMatcher(commands, c.matcherOpts...)

	for _, cmd := range commands.All() {
		if err := c.stages.Bind(c.container, cmd.Name(), cmd.Stages()); err != nil {
			return nil, fmt.Errorf("command %q: %w", cmd.Name(), err)
		}
		if err := dispatch.Verify(configured, cmd.Target()); err != nil {
			return nil, fmt.Errorf("command %q: %w", cmd.Name(), err)
		}
	}

	return c, nil
}

// MustNew is like [New] but panics on error.
func MustNew(commands *collection.Commands, opts ...Option) *Console {
	c, err := New(commands, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Commands returns the command collection.
func (c *Console) Commands() *collection.Commands {
	return c.commands
}

// Use resolves each identifier from the container and registers the
// service as global middleware for every stage interface it implements.
func (c *Console) Use(ids ...string) error {
	return c.stages.Use(c.container, ids...)
}

// OnRequestReceived adds global request-received middleware.
func (c *Console) OnRequestReceived(mw ...RequestReceived) *Console {
	c.stages.OnRequestReceived(mw...)
	return c
}

// OnRouteMatched adds global command-matched middleware.
func (c *Console) OnRouteMatched(mw ...RouteMatched) *Console {
	c.stages.OnRouteMatched(mw...)
	return c
}

// OnRouteNotMatched adds middleware for unknown commands and invalid
// input.
func (c *Console) OnRouteNotMatched(mw ...RouteNotMatched) *Console {
	c.stages.OnRouteNotMatched(mw...)
	return c
}

// OnRouteDispatched adds global command-dispatched middleware.
func (c *Console) OnRouteDispatched(mw ...RouteDispatched) *Console {
	c.stages.OnRouteDispatched(mw...)
	return c
}

// OnThrowableCaught adds global throwable-caught middleware.
func (c *Console) OnThrowableCaught(mw ...ThrowableCaught) *Console {
	c.stages.OnThrowableCaught(mw...)
	return c
}

// OnSendingResponse adds global middleware run before output is written.
func (c *Console) OnSendingResponse(mw ...SendingResponse) *Console {
	c.stages.OnSendingResponse(mw...)
	return c
}

// OnTerminated adds global terminated middleware.
func (c *Console) OnTerminated(mw ...Terminated) *Console {
	c.stages.OnTerminated(mw...)
	return c
}
