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

package route

import (
	"regexp"
	"strings"

	"rivaas.dev/dispatch/compiler"
)

// ConstraintKind represents the type of constraint applied to a route parameter.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintInt
	ConstraintFloat
	ConstraintUUID
	ConstraintEnum
	ConstraintDate     // RFC3339 full-date
	ConstraintDateTime // RFC3339 date-time
	ConstraintAlpha
	ConstraintAlphaNum
)

// ParamConstraint is a typed constraint for a route parameter. Typed
// constraints translate to a regex plus, where it makes sense, a cast.
type ParamConstraint struct {
	Kind ConstraintKind
	Enum []string // for ConstraintEnum
}

// Regex returns the unanchored regex for the constraint, or "" for
// ConstraintNone.
func (pc ParamConstraint) Regex() string {
	switch pc.Kind {
	case ConstraintInt:
		return `\d+`
	case ConstraintFloat:
		return `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case ConstraintUUID:
		return `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	case ConstraintEnum:
		escaped := make([]string, 0, len(pc.Enum))
		for _, v := range pc.Enum {
			escaped = append(escaped, regexp.QuoteMeta(v))
		}
		return "(?:" + strings.Join(escaped, "|") + ")"
	case ConstraintDate:
		return `\d{4}-\d{2}-\d{2}`
	case ConstraintDateTime:
		return `\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})`
	case ConstraintAlpha:
		return `[A-Za-z]+`
	case ConstraintAlphaNum:
		return `[A-Za-z0-9]+`
	default:
		return ""
	}
}

// Cast returns the cast implied by the constraint.
func (pc ParamConstraint) Cast() compiler.Cast {
	switch pc.Kind {
	case ConstraintInt:
		return compiler.CastInt
	case ConstraintFloat:
		return compiler.CastFloat
	case ConstraintUUID:
		return compiler.CastUUID
	default:
		return compiler.CastNone
	}
}

// options translates the constraint into compiler options for param.
func (pc ParamConstraint) options(param string) []compiler.Option {
	re := pc.Regex()
	if re == "" {
		return nil
	}

	opts := []compiler.Option{compiler.WithRegex(param, re)}
	if c := pc.Cast(); c != compiler.CastNone {
		opts = append(opts, compiler.WithCast(param, c))
	}
	return opts
}
