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
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/dispatch"
	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/metrics"
	"rivaas.dev/dispatch/route"
	"rivaas.dev/dispatch/router"
)

// MetricsPath serves Prometheus metrics next to the mocked routes.
const MetricsPath = "/_dispatch/metrics"

const shutdownTimeout = 10 * time.Second

func (p *program) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the route table, answering every match with a JSON description",
		Flags: append(sourceFlags(),
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides http.addr"},
		),
		Action: func(c *cli.Context) error {
			if c.IsSet("addr") {
				p.settings.HTTP.Addr = c.String("addr")
			}

			t, err := p.load(c)
			if err != nil {
				return err
			}
			h, err := newServer(t, p.logger, p.settings.Debug)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              p.settings.HTTP.Addr,
				Handler:           h,
				ReadHeaderTimeout: p.settings.HTTP.Timeout,
				ErrorLog:          slog.NewLogLogger(p.logger.Handler(), slog.LevelError),
			}
			return p.listen(c.Context, srv)
		},
	}
}

func (p *program) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	p.logger.Info("serving routes", "addr", srv.Addr, "metrics", MetricsPath)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	p.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer builds a router over t.routes whose dispatcher describes the
// match instead of calling a handler. Middleware referenced by routes is
// replaced with pass-through stubs.
func newServer(t *tables, logger *slog.Logger, debug bool) (http.Handler, error) {
	c := container.New()
	for _, rt := range t.routes.All() {
		for _, id := range stageIDs(rt.Stages()) {
			if !c.Has(id) {
				c.Set(id, stub{id: id, logger: logger})
			}
		}
	}

	rec, err := metrics.New()
	if err != nil {
		return nil, err
	}

	rt, err := router.New(t.routes,
		router.WithContainer(c),
		router.WithDispatcher(dispatch.DispatcherFunc(describe)),
		router.WithLogger(logger),
		router.WithMetrics(rec),
		router.WithDebug(debug),
	)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+MetricsPath, rec.Handler())
	mux.Handle("/", rt)
	return mux, nil
}

type description struct {
	Route        string         `json:"route"`
	Handler      string         `json:"handler"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Params       map[string]any `json:"params"`
}

func describe(ctx context.Context, target route.Target, args dispatch.Arguments) (any, error) {
	d := description{
		Handler:      target.Handler,
		Dependencies: target.Dependencies,
		Params:       args,
	}
	if m := router.MatchFromContext(ctx); m != nil {
		d.Route = m.Route.Name()
	}
	return message.JSON(http.StatusOK, d), nil
}

func stageIDs(s route.Stages) []string {
	var ids []string
	for _, list := range [][]string{s.RouteMatched, s.RouteDispatched, s.ThrowableCaught, s.SendingResponse, s.Terminated} {
		ids = append(ids, list...)
	}
	return ids
}

// stub stands in for middleware that only exists in the application the
// routes were collected from.
type stub struct {
	id     string
	logger *slog.Logger
}

func (s stub) trace(ctx context.Context, stage string) {
	s.logger.DebugContext(ctx, "middleware stubbed", "middleware", s.id, "stage", stage)
}

func (s stub) RouteMatched(ctx context.Context, req *http.Request, m *route.Match, next *router.RouteMatchedHandler) (*route.Match, *message.Response, error) {
	s.trace(ctx, "route_matched")
	return next.Handle(ctx, req, m)
}

func (s stub) RouteDispatched(ctx context.Context, req *http.Request, res *message.Response, next *router.RouteDispatchedHandler) (*message.Response, error) {
	s.trace(ctx, "route_dispatched")
	return next.Handle(ctx, req, res)
}

func (s stub) ThrowableCaught(ctx context.Context, req *http.Request, res *message.Response, err error, next *router.ThrowableCaughtHandler) *message.Response {
	s.trace(ctx, "throwable_caught")
	return next.Handle(ctx, req, res, err)
}

func (s stub) SendingResponse(ctx context.Context, req *http.Request, res *message.Response, next *router.SendingResponseHandler) *message.Response {
	s.trace(ctx, "sending_response")
	res = next.Handle(ctx, req, res)
	if res != nil {
		res.Header.Add("X-Dispatch-Stub", s.id)
	}
	return res
}

func (s stub) Terminated(ctx context.Context, req *http.Request, res *message.Response, next *router.TerminatedHandler) {
	s.trace(ctx, "terminated")
	next.Handle(ctx, req, res)
}
