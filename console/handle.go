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
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"rivaas.dev/dispatch/argv"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/logging"
	"rivaas.dev/dispatch/matcher"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/middleware"
	"rivaas.dev/dispatch/route"
)

// ParseArgs tokenizes a command line without the program name.
func ParseArgs(args []string) *argv.Input {
	return argv.Parse(args)
}

// Run parses args, handles the command line and writes its output. It
// returns the exit code. In debug mode a failure panics with the original
// error.
func (c *Console) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	in := ParseArgs(args)
	ctx = Begin(ctx, in)

	out, err := c.Handle(ctx, in)
	if err != nil {
		panic(err)
	}
	if err := c.Send(ctx, out, stdout, stderr); err != nil {
		logging.FromContext(ctx, c.logger).Error("write output", "error", err)
	}
	c.Terminate(ctx, out)
	return out.ExitCode
}

// Handle runs in through matching, dispatch and the surrounding stages and
// returns the output to write. The error is non-nil only in debug mode,
// for a failure that is not an [OutputError].
func (c *Console) Handle(ctx context.Context, in *argv.Input) (out *Output, err error) {
	ctx = Begin(ctx, in)
	st := stateFrom(ctx)

	ctx, span := c.tracer.Start(ctx, "command "+in.Command(),
		trace.WithAttributes(attribute.StringSlice("cli.args", in.Raw)),
	)
	defer span.End()

	defer c.metrics.Begin(metrics.TransportCLI)()

	defer func() {
		if v := recover(); v != nil {
			out, err = c.fail(ctx, st, &PanicError{Value: v, Stack: debug.Stack()})
		}
		if out != nil {
			span.SetAttributes(attribute.Int("cli.exit_code", out.ExitCode))
		}
	}()

	out, err = c.handle(ctx, st)
	if err != nil {
		return c.fail(ctx, st, err)
	}
	return out, nil
}

func (c *Console) handle(ctx context.Context, st *state) (*Output, error) {
	log := logging.FromContext(ctx, c.logger)

	in, out, err := middleware.NewRequestReceivedHandler(c.stages.RequestReceived()...).Handle(ctx, st.in)
	if err != nil {
		return nil, err
	}
	if in != nil {
		st.in = in
	}
	if out != nil {
		return out, nil
	}
	in = st.in

	result := c.matcher.Match(in)
	c.metrics.ObserveMatch(metrics.TransportCLI, result.Kind.String())

	if result.Kind != matcher.Found {
		log.Debug("command not matched", "command", result.Requested, "outcome", result.Kind.String())
		return middleware.NewRouteNotMatchedHandler(c.stages.RouteNotMatched()...).
			Handle(ctx, in, c.notMatched(result))
	}

	match := result.Match
	st.match = match
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("cli.command", match.Command.Name()))
	log.Debug("command matched", "command", match.Command.Name())

	chains := c.stages.For(match.Command.Name())

	replaced, out, err := middleware.NewRouteMatchedHandler(chains.RouteMatched...).Handle(ctx, in, match)
	if err != nil {
		return nil, err
	}
	if replaced != nil && replaced != match {
		match = replaced
		st.match = match
		chains = c.stages.For(match.Command.Name())
	}
	if out != nil {
		return out, nil
	}

	start := time.Now()
	v, err := c.dispatcher.Dispatch(ctx, match.Command.Target(), arguments(match))
	if err != nil {
		return nil, err
	}
	out, ok := v.(*Output)
	if !ok || out == nil {
		return nil, fmt.Errorf("%w: command %q returned %T", ErrInvalidOutput, match.Command.Name(), v)
	}

	out, err = middleware.NewRouteDispatchedHandler(chains.RouteDispatched...).Handle(ctx, in, out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("%w: command-dispatched middleware returned nil", ErrInvalidOutput)
	}

	c.metrics.ObserveDispatch(metrics.TransportCLI, match.Command.Name(), out.ExitCode, time.Since(start))
	return out, nil
}

// arguments binds parameters and then options, so a parameter wins over an
// option of the same name.
func arguments(m *route.CommandMatch) dispatch.Arguments {
	args := make(dispatch.Arguments, len(m.Params)+len(m.Options))
	for k, v := range m.Options {
		args[k] = v
	}
	for k, v := range m.Params {
		args[k] = v
	}
	return args
}

func (c *Console) fail(ctx context.Context, st *state, err error) (out *Output, _ error) {
	kind := "error"
	var perr *PanicError
	if errors.As(err, &perr) {
		kind = "panic"
	}
	c.metrics.ObserveFailure(metrics.TransportCLI, kind)

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	log := logging.FromContext(ctx, c.logger)
	if perr != nil {
		log.Error("command panicked", "error", err, "stack", string(perr.Stack))
	} else {
		log.Error("command failed", "error", err)
	}

	fallback, carried := errorOutput(err)
	if c.debug && !carried {
		return nil, err
	}

	defer func() {
		if v := recover(); v != nil {
			log.Error("throwable-caught middleware panicked", "panic", v)
			out = fallback
		}
	}()

	chains := c.stages.For(st.commandName())
	out = middleware.NewThrowableCaughtHandler(chains.ThrowableCaught...).Handle(ctx, st.in, fallback, err)
	if out == nil {
		out = fallback
	}
	return out, nil
}

// errorOutput returns the output err carries, reporting true, or a generic
// failure for it.
func errorOutput(err error) (*Output, bool) {
	var oerr *OutputError
	if errors.As(err, &oerr) && oerr.Output != nil {
		return oerr.Output, true
	}
	return Failure(ExitFailure, "Error: "+err.Error()+"\n"), false
}

func (c *Console) notMatched(result matcher.CommandResult) *Output {
	if result.Kind == matcher.InvalidInput {
		var b strings.Builder
		fmt.Fprintf(&b, "Error: %v\n", result.Err)
		var ierr *argv.InputError
		if errors.As(result.Err, &ierr) {
			if cmd := c.commands.Get(ierr.Command); cmd != nil {
				fmt.Fprintf(&b, "Usage: %s\n", cmd.Usage())
			}
		}
		return Failure(ExitInvalidInput, b.String())
	}

	if result.Requested == "" {
		return Failure(ExitNotFound, "No command given.\n")
	}
	return Failure(ExitNotFound, c.unknown(result.Requested))
}

func (c *Console) unknown(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command %q is not defined.\n", name)
	if c.suggester != nil {
		if alts := c.suggester.Suggest(name, c.commands.Names()); len(alts) > 0 {
			b.WriteString("\nDid you mean one of these?\n")
			for _, alt := range alts {
				fmt.Fprintf(&b, "    %s\n", alt)
			}
		}
	}
	return b.String()
}

// Send runs the sending-response chain over out and writes the result.
func (c *Console) Send(ctx context.Context, out *Output, stdout, stderr io.Writer) (err error) {
	st := stateFrom(ctx)
	var in *argv.Input
	if st != nil {
		in = st.in
	}

	defer func() {
		if v := recover(); v != nil {
			logging.FromContext(ctx, c.logger).Error("sending-response middleware panicked", "panic", v)
			fallback, _ := errorOutput(&PanicError{Value: v, Stack: debug.Stack()})
			err = fallback.write(stdout, stderr, c.errColor)
		}
	}()

	chains := c.stages.For(st.commandName())
	res := middleware.NewSendingResponseHandler(chains.SendingResponse...).Handle(ctx, in, out)
	if res == nil {
		return fmt.Errorf("%w: sending-response middleware returned nil", ErrInvalidOutput)
	}
	return res.write(stdout, stderr, c.errColor)
}

// Terminate runs the terminated chain. Panics are logged and dropped.
func (c *Console) Terminate(ctx context.Context, out *Output) {
	st := stateFrom(ctx)
	var in *argv.Input
	if st != nil {
		in = st.in
	}

	defer func() {
		if v := recover(); v != nil {
			logging.FromContext(ctx, c.logger).Error("terminated middleware panicked", "panic", v)
		}
	}()

	chains := c.stages.For(st.commandName())
	middleware.NewTerminatedHandler(chains.Terminated...).Handle(ctx, in, out)
}
