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

// Package logging builds the [slog.Logger] used by the router, the console
// and the dispatch tool.
//
// Three handlers are available: JSON for production, key=value text, and a
// colored console handler for development. Sensitive attribute keys such as
// "password" and "authorization" are redacted by every handler.
//
//	logger, err := logging.New(
//		logging.WithHandlerType(logging.ConsoleHandler),
//		logging.WithLevel(logging.LevelDebug),
//		logging.WithServiceName("widgets"),
//	)
//
// [FromContext] adds trace_id and span_id from an active OpenTelemetry span
// so request logs correlate with traces.
package logging
