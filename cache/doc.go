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

// Package cache defines the precompiled route cache artifact and the stores
// that persist it.
//
// An [Artifact] holds the serialized form of every route and command in a
// collection, including compiled regexes, so a process can rebuild its
// collections without running registration code:
//
//	data, err := cache.Encode(coll.Export(), codec.TypeMsgPack)
//	...
//	a, err := cache.Decode(data, codec.TypeMsgPack)
//	coll, err := collection.FromArtifact(a)
//
// Decoding never yields a partially valid artifact. Unreadable data,
// entries that fail validation and version mismatches are all errors, so a
// broken cache fails at startup rather than turning every request into a
// not-found.
package cache
