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
	"errors"
	"fmt"
)

// Sentinel errors returned by the compiler.
var (
	ErrInvalidPattern     = errors.New("invalid pattern")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrUnknownParameter   = errors.New("unknown parameter")
	ErrUnknownCast        = errors.New("unknown cast")
	ErrMissingParameter   = errors.New("missing required parameter")
	ErrInvalidParameter   = errors.New("parameter does not satisfy its constraint")
)

// PatternError describes a pattern that failed to compile.
// Offset is the byte offset in Pattern where the problem was found, or -1
// when the problem is not tied to a position.
type PatternError struct {
	Pattern string
	Offset  int
	Reason  string
	Err     error
}

func (e *PatternError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("compile %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}

	return fmt.Sprintf("compile %q at offset %d: %s: %v", e.Pattern, e.Offset, e.Reason, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}
