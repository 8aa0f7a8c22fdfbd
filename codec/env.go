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

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnv is the codec type for KEY=value environment lines.
const TypeEnv Type = "env"

// ErrEncodeUnsupported is returned by codecs that only decode.
var ErrEncodeUnsupported = errors.New("encoding not supported")

func init() {
	Register(TypeEnv, EnvCodec{})
}

// EnvCodec decodes newline separated KEY=value pairs into a nested
// map[string]any. Keys are lowercased and split on underscores, so
// HTTP_ADDR=:8080 becomes {"http": {"addr": ":8080"}}.
type EnvCodec struct{}

// Encode is not supported; environment variables are read-only.
func (EnvCodec) Encode(_ any) ([]byte, error) {
	return nil, fmt.Errorf("env: %w", ErrEncodeUnsupported)
}

// Decode decodes data into v, which must be a *map[string]any.
func (EnvCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("env: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		key, value, found := strings.Cut(string(line), "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		parts := make([]string, 0, 4)
		for part := range strings.SplitSeq(strings.ToLower(key), "_") {
			if part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, part := range parts[:len(parts)-1] {
			next, ok := current[part].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[part] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}

	*ptr = conf
	return nil
}
