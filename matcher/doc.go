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

// Package matcher resolves a request or command line against a frozen
// collection.
//
// HTTP matching runs in two phases. The static index is consulted first
// with an exact path lookup, so a static route always beats a dynamic
// pattern that would also accept the path. Dynamic routes are then scanned
// in registration order and the first one that matches both the path and
// the method wins. Declaration order is the only tie-break.
//
// A path that matches structurally but fails a constraint is never
// reported as not found:
//
//   - a method mismatch yields [MethodNotAllowed] with the union of the
//     accepted methods in [Result.Allowed]
//   - a secure route reached over plain HTTP yields [Insecure]
//
// Command matching follows the same shape. See [Commands.Match].
package matcher
