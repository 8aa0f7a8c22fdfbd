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

// Package metrics records match outcomes and dispatch latency with the
// Prometheus client.
//
// Series are labeled by transport ("http" or "cli"), outcome and route
// name. Route names come from the frozen collection, so cardinality is
// bounded by the number of registered descriptors; unmatched input is never
// used as a label.
//
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transport label values.
const (
	TransportHTTP = "http"
	TransportCLI  = "cli"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "dispatch"

// Recorder holds the collectors.
type Recorder struct {
	registry prometheus.Registerer
	gatherer prometheus.Gatherer

	matches  *prometheus.CounterVec
	dispatch *prometheus.HistogramVec
	failures *prometheus.CounterVec
	inflight *prometheus.GaugeVec
}

type config struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
}

// Option configures a [Recorder].
type Option func(*config)

// WithNamespace sets the metric name prefix.
func WithNamespace(ns string) Option {
	return func(c *config) { c.namespace = ns }
}

// WithBuckets sets the dispatch latency histogram buckets in seconds.
func WithBuckets(buckets ...float64) Option {
	return func(c *config) { c.buckets = buckets }
}

// WithRegistry registers the collectors with reg instead of a new registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// New creates a recorder and registers its collectors. Collectors already
// registered under the same names are reused.
func New(opts ...Option) (*Recorder, error) {
	c := &config{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = prometheus.NewRegistry()
	}

	r := &Recorder{registry: c.registry, gatherer: c.registry}

	var err error
	if r.matches, err = register(c.registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "matches_total",
		Help:      "Match outcomes by transport and kind.",
	}, []string{"transport", "outcome"})); err != nil {
		return nil, err
	}
	if r.dispatch, err = register(c.registry, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Time spent from match to dispatched response.",
		Buckets:   c.buckets,
	}, []string{"transport", "route", "status"})); err != nil {
		return nil, err
	}
	if r.failures, err = register(c.registry, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.namespace,
		Name:      "failures_total",
		Help:      "Failures routed through the throwable-caught stage.",
	}, []string{"transport", "kind"})); err != nil {
		return nil, err
	}
	if r.inflight, err = register(c.registry, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.namespace,
		Name:      "in_flight",
		Help:      "Requests or commands being handled.",
	}, []string{"transport"})); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

// Begin marks a request or command as in flight. Call the returned
// function when it completes.
func (r *Recorder) Begin(transport string) func() {
	if r == nil {
		return func() {}
	}
	g := r.inflight.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

// ObserveMatch counts a match outcome such as "found" or "not_found".
func (r *Recorder) ObserveMatch(transport, outcome string) {
	if r == nil {
		return
	}
	r.matches.WithLabelValues(transport, outcome).Inc()
}

// ObserveDispatch records how long the descriptor named route took. status
// is the HTTP status or exit code.
func (r *Recorder) ObserveDispatch(transport, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.dispatch.WithLabelValues(transport, route, fmt.Sprint(status)).Observe(d.Seconds())
}

// ObserveFailure counts a failure. kind is "error" or "panic".
func (r *Recorder) ObserveFailure(transport, kind string) {
	if r == nil {
		return
	}
	r.failures.WithLabelValues(transport, kind).Inc()
}

// Gatherer returns the registry the collectors live in.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.gatherer
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
