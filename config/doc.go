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

// Package config loads layered settings for the dispatch command and for
// applications embedding the router or console.
//
// Sources are loaded in registration order and merged with later sources
// taking precedence. Keys are case-insensitive and addressed with dot
// notation:
//
//	cfg := config.MustNew(
//		config.WithFile("dispatch.yaml"),
//		config.WithEnv("DISPATCH_"),
//		config.WithBinding(&settings),
//	)
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	addr := cfg.StringOr("http.addr", ":8080")
//
// A bound struct receives values through `config` tags, zero fields are
// filled from `default` tags, and the result is checked with the `validate`
// tags understood by go-playground/validator.
package config
