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

// Package compiler turns parameterized path and command templates into
// matchers.
//
// # Pattern Grammar
//
// A pattern is literal text interleaved with parameter placeholders:
//
//	{name}            required parameter, default regex
//	{name:regex}      required parameter with a constraint
//	{name?}           optional parameter
//	{name?:regex}     optional parameter with a constraint
//
// Constraints may contain balanced braces, so `{year:\d{4}}` is valid.
// Names must match [A-Za-z_][A-Za-z0-9_]*. Braces outside a placeholder and
// duplicate names are rejected with a [*PatternError].
//
// # Matching
//
// Every compiled regex is anchored at both ends, so a pattern never matches a
// prefix or suffix of the input. A pattern without parameters skips the regex
// engine and compares the input literally.
//
// An optional parameter that starts a segment also owns the separator in
// front of it:
//
//	m := compiler.MustCompile("/posts/{id}/{slug?}")
//	m.Match("/posts/5")       // slug absent, bound to its default or nil
//	m.Match("/posts/5/hello") // slug = "hello"
//
// # Casts
//
// Casts run after the regex matched. A value that fails its cast makes the
// whole match fail; malformed input is never handed to a handler:
//
//	m := compiler.MustCompile("/users/{id:\\d+}", compiler.WithCast("id", compiler.CastInt))
//	b, ok := m.Match("/users/42") // ok, b.Values["id"] == 42
//
// # Commands
//
// Command templates use a space separator and a wider default constraint:
//
//	compiler.Compile("make:widget {name} {kind?}",
//	    compiler.WithSeparator(' '),
//	    compiler.WithDefaultRegex(`\S+`),
//	)
package compiler
