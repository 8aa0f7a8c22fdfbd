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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"rivaas.dev/dispatch/codec"
)

// Env loads configuration from environment variables that start with a
// prefix. The prefix is stripped and the remainder is split on underscores,
// so with prefix "DISPATCH_" the variable DISPATCH_HTTP_ADDR becomes
// http.addr.
type Env struct {
	prefix  string
	environ func() []string
	decoder codec.Decoder
}

// NewEnv returns an Env source reading the process environment.
func NewEnv(prefix string) *Env {
	return &Env{prefix: prefix, environ: os.Environ, decoder: codec.EnvCodec{}}
}

// NewEnvFrom returns an Env source reading from environ instead of the
// process environment.
func NewEnvFrom(prefix string, environ []string) *Env {
	e := NewEnv(prefix)
	e.environ = func() []string { return environ }
	return e
}

// Load decodes the matching variables.
func (e *Env) Load(context.Context) (map[string]any, error) {
	vars := e.environ()
	matched := make([]string, 0, len(vars))
	for _, v := range vars {
		if rest, ok := strings.CutPrefix(v, e.prefix); ok {
			matched = append(matched, rest)
		}
	}

	var conf map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(matched, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}
