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

package compiler

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Cast names the type a raw parameter value is converted to after matching.
type Cast string

// Supported casts. The zero value keeps the raw string.
const (
	CastNone   Cast = ""
	CastString Cast = "string"
	CastInt    Cast = "int"
	CastFloat  Cast = "float"
	CastBool   Cast = "bool"
	CastUUID   Cast = "uuid"
)

// Valid reports whether c is a known cast.
func (c Cast) Valid() bool {
	switch c {
	case CastNone, CastString, CastInt, CastFloat, CastBool, CastUUID:
		return true
	}
	return false
}

// Apply converts raw according to c.
//
//   - int: int
//   - float: float64
//   - bool: bool (strconv.ParseBool syntax)
//   - uuid: uuid.UUID
//   - string and none: string
func (c Cast) Apply(raw string) (any, error) {
	switch c {
	case CastNone, CastString:
		return raw, nil
	case CastInt:
		return strconv.Atoi(raw)
	case CastFloat:
		return strconv.ParseFloat(raw, 64)
	case CastBool:
		return strconv.ParseBool(raw)
	case CastUUID:
		return uuid.Parse(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCast, string(c))
	}
}

// Parameter describes one placeholder of a pattern, in the order it appears.
type Parameter struct {
	Name     string  `json:"name" yaml:"name" toml:"name" msgpack:"name" validate:"required"`
	Regex    string  `json:"regex" yaml:"regex" toml:"regex" msgpack:"regex" validate:"required"`
	Optional bool    `json:"optional,omitempty" yaml:"optional,omitempty" toml:"optional,omitempty" msgpack:"optional,omitempty"`
	Capture  bool    `json:"capture" yaml:"capture" toml:"capture" msgpack:"capture"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty" msgpack:"default,omitempty"`
	Cast     Cast    `json:"cast,omitempty" yaml:"cast,omitempty" toml:"cast,omitempty" msgpack:"cast,omitempty"`
}

func (p Parameter) clone() Parameter {
	if p.Default != nil {
		d := *p.Default
		p.Default = &d
	}
	return p
}

// Bindings holds the parameter values extracted by a successful match.
// Raw keeps the matched text, Values the cast result. An absent optional
// parameter without a default is present in Values with a nil value and
// missing from Raw.
type Bindings struct {
	Raw    map[string]string
	Values map[string]any
}
