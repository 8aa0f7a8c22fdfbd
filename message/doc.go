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

// Package message provides the response value that flows through the HTTP
// middleware chains, together with the RFC 9457 problem details formatter
// used for the router's default error responses.
//
// A Response is a plain value: handlers build one, middleware may replace or
// mutate it, and the router writes it to an http.ResponseWriter at the very
// end of the pipeline.
//
//	res := message.JSON(http.StatusOK, map[string]any{"id": 42})
//	res.Header.Set("Cache-Control", "no-store")
package message
