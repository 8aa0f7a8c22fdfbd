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

import (
	"fmt"

	"rivaas.dev/dispatch/container"
)

// Resolve looks every identifier up in c and asserts it implements the
// stage interface T. The result keeps the order of ids.
//
//	mw, err := middleware.Resolve[middleware.Terminated[*http.Request, *message.Response]](c, r.Stages().Terminated)
func Resolve[T any](c container.Container, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		mw, err := container.Resolve[T](c, id)
		if err != nil {
			return nil, fmt.Errorf("middleware %q: %w", id, err)
		}
		out = append(out, mw)
	}
	return out, nil
}
