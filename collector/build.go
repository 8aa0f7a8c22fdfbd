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

package collector

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"rivaas.dev/dispatch/compiler"
	"rivaas.dev/dispatch/route"
)

var (
	stageKeys  = []string{"matched", "dispatched", "caught", "sending", "terminated"}
	commonKeys = append([]string{"name", "handler", "description", "deps", "cast", "default"}, stageKeys...)
	routeKeys  = commonKeys
	cmdKeys    = append(append([]string(nil), commonKeys...), "flag", "option", "optional")
)

// RouteBuilder converts a route annotation into a builder. handler is used
// when the annotation has no handler attribute.
func RouteBuilder(a *Annotation, handler string) (*route.Builder, error) {
	if a.Kind != KindRoute {
		return nil, fmt.Errorf("%w: %q is not a route annotation", ErrSyntax, a.Kind)
	}
	if err := checkKeys(a, routeKeys); err != nil {
		return nil, err
	}

	pattern := a.Words[1]
	methods := splitList(strings.ToUpper(a.Words[0]))

	var b *route.Builder
	if len(methods) == 1 && methods[0] == "ANY" {
		b = route.Any(pattern)
	} else {
		for _, m := range methods {
			if !validMethod(m) {
				return nil, fmt.Errorf("%w: method %q", ErrInvalidAttribute, m)
			}
		}
		b = route.New(pattern, methods...)
	}

	for _, flag := range append(a.Words[2:], a.Flags()...) {
		if flag != "secure" {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, flag)
		}
		b.Secure()
	}

	if v, ok := a.Get("name"); ok {
		b.Name(v)
	}
	if v, ok := a.Get("description"); ok {
		b.Description(v)
	}
	b.Handler(handlerOf(a, handler))
	b.Dependencies(a.List("deps")...)
	b.Stages(stagesOf(a))

	casts, err := pairs(a, "cast")
	if err != nil {
		return nil, err
	}
	for _, kv := range casts {
		b.Cast(kv[0], compiler.Cast(kv[1]))
	}
	defaults, err := pairs(a, "default")
	if err != nil {
		return nil, err
	}
	for _, kv := range defaults {
		b.Default(kv[0], kv[1])
	}

	return b, nil
}

// CommandBuilder converts a command annotation into a builder. handler is
// used when the annotation has no handler attribute.
func CommandBuilder(a *Annotation, handler string) (*route.CommandBuilder, error) {
	if a.Kind != KindCommand {
		return nil, fmt.Errorf("%w: %q is not a command annotation", ErrSyntax, a.Kind)
	}
	if err := checkKeys(a, cmdKeys); err != nil {
		return nil, err
	}
	if flags := a.Flags(); len(flags) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAttribute, flags[0])
	}

	b := route.NewCommand(strings.Join(a.Words, " "))
	if v, ok := a.Get("name"); ok {
		b.Name(v)
	}
	if v, ok := a.Get("description"); ok {
		b.Description(v)
	}
	b.Handler(handlerOf(a, handler))
	b.Dependencies(a.List("deps")...)
	b.Stages(stagesOf(a))

	for _, v := range a.All("flag") {
		parts := splitList(v)
		if len(parts) == 0 || len(parts) > 2 {
			return nil, fmt.Errorf("%w: flag=%q", ErrInvalidAttribute, v)
		}
		b.Option(route.InputOption{Name: parts[0], Short: at(parts, 1), Mode: route.OptionNone})
	}
	for _, v := range a.All("option") {
		parts := strings.SplitN(v, ",", 3)
		if parts[0] == "" {
			return nil, fmt.Errorf("%w: option=%q", ErrInvalidAttribute, v)
		}
		o := route.InputOption{Name: parts[0], Short: at(parts, 1), Mode: route.OptionRequired}
		if len(parts) == 3 {
			def := parts[2]
			o.Default = &def
		}
		b.Option(o)
	}
	for _, v := range a.All("optional") {
		parts := splitList(v)
		if len(parts) == 0 || len(parts) > 2 {
			return nil, fmt.Errorf("%w: optional=%q", ErrInvalidAttribute, v)
		}
		b.Option(route.InputOption{Name: parts[0], Short: at(parts, 1), Mode: route.OptionOptional})
	}

	casts, err := pairs(a, "cast")
	if err != nil {
		return nil, err
	}
	for _, kv := range casts {
		b.Cast(kv[0], compiler.Cast(kv[1]))
	}
	defaults, err := pairs(a, "default")
	if err != nil {
		return nil, err
	}
	for _, kv := range defaults {
		b.Default(kv[0], kv[1])
	}

	return b, nil
}

func checkKeys(a *Annotation, allowed []string) error {
	for _, k := range a.Keys() {
		if !slices.Contains(allowed, k) {
			return fmt.Errorf("%w: %s=", ErrUnknownAttribute, k)
		}
	}
	return nil
}

func handlerOf(a *Annotation, fallback string) string {
	if v, ok := a.Get("handler"); ok {
		return v
	}
	return fallback
}

func stagesOf(a *Annotation) route.Stages {
	return route.Stages{
		RouteMatched:    a.List("matched"),
		RouteDispatched: a.List("dispatched"),
		ThrowableCaught: a.List("caught"),
		SendingResponse: a.List("sending"),
		Terminated:      a.List("terminated"),
	}
}

// pairs splits "param:value" entries of every attribute named key.
func pairs(a *Annotation, key string) ([][2]string, error) {
	var out [][2]string
	for _, entry := range a.List(key) {
		param, value, ok := strings.Cut(entry, ":")
		if !ok || param == "" {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidAttribute, key, entry)
		}
		out = append(out, [2]string{param, value})
	}
	return out, nil
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return strings.TrimSpace(parts[i])
	}
	return ""
}

func validMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions,
		http.MethodConnect, http.MethodTrace:
		return true
	}
	return false
}
