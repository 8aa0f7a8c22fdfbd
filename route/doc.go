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

// Package route defines the immutable descriptors that the collection,
// matcher and router work with.
//
// This package contains:
//   - Route: an HTTP route with methods, pattern, middleware stages and target
//   - Command: the CLI counterpart with positional parameters and options
//   - Builder / CommandBuilder: fluent construction with typed constraints
//   - Data / CommandData: serializable mirrors used by the route cache
//   - Match / CommandMatch: per-request matching results
//
// # Route Definition
//
//	show := route.GET("/widgets/{id}").
//	    Name("widgets.show").
//	    WhereInt("id").
//	    OnRouteMatched("auth").
//	    Handler("widgets.Show").
//	    MustBuild()
//
// A route is immutable once built. Targets and middleware are referenced by
// identifier; the router resolves them through its dispatcher and container.
//
// # Commands
//
//	greet := route.NewCommand("greet {who?}").
//	    Default("who", "World").
//	    Flag("loud", "l", "shout the greeting").
//	    Handler("cli.Greet").
//	    MustBuild()
package route
