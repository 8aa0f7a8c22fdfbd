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

// Package collection stores route and command descriptors and the indices
// the matcher reads.
//
// A [Collection] keeps three views of its routes:
//
//   - a name index for reverse lookup
//   - a static index from exact path to routes, fronted by a bloom filter
//   - the dynamic routes in registration order
//
// Collections are built once, either live by registering builders or from a
// cache artifact, then frozen. A frozen collection is read-only and safe for
// concurrent use.
//
//	coll := collection.New()
//	coll.MustAdd(route.GET("/widgets/{id}").Name("show").WhereInt("id").Handler("widgets.Show"))
//	coll.Freeze()
//
//	data, _ := cache.Encode(coll.Export(), codec.TypeJSON)
//
// [Commands] is the CLI counterpart.
package collection
