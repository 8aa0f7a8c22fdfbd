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

package middleware

// Stage names a point in the dispatch pipeline.
type Stage string

// Pipeline stages in execution order.
const (
	StageRequestReceived Stage = "request_received"
	StageRouteMatched    Stage = "route_matched"
	StageRouteNotMatched Stage = "route_not_matched"
	StageRouteDispatched Stage = "route_dispatched"
	StageThrowableCaught Stage = "throwable_caught"
	StageSendingResponse Stage = "sending_response"
	StageTerminated      Stage = "terminated"
)

// String returns the stage name.
func (s Stage) String() string { return string(s) }

// cursor is the append-only list and position shared by every handler.
type cursor[T any] struct {
	items []T
	index int
}

// Add appends middleware to the end of the chain.
func (c *cursor[T]) Add(items ...T) {
	c.items = append(c.items, items...)
}

// Len returns the number of middleware in the chain.
func (c *cursor[T]) Len() int {
	return len(c.items)
}

// Remaining returns how many middleware have not run yet.
func (c *cursor[T]) Remaining() int {
	return len(c.items) - c.index
}

// Exhausted reports whether every middleware has been invoked.
func (c *cursor[T]) Exhausted() bool {
	return c.index >= len(c.items)
}

func (c *cursor[T]) next() (T, bool) {
	if c.index >= len(c.items) {
		var zero T
		return zero, false
	}
	item := c.items[c.index]
	c.index++
	return item, true
}
