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

// Package argv tokenizes command-line arguments.
//
// Parsing is schema-free: "--name World" yields a long option token followed
// by a positional token, and only the command's option declarations decide
// whether "World" is the option's value. Supported forms:
//
//	--name=value  --name value  -n value  -n=value  -abc  --
//
// Everything after "--" is positional. A lone "-" and negative numbers such
// as "-5" are positional too.
package argv

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a token.
type Kind uint8

const (
	// Positional is a plain argument.
	Positional Kind = iota
	// Long is a "--name" option.
	Long
	// Short is a one-letter "-n" option.
	Short
)

// Token is one parsed argument.
type Token struct {
	Kind     Kind
	Name     string // option name without dashes
	Value    string // positional text or "=value" part
	HasValue bool   // option written with "="
	// Literal marks positionals after "--"; they are never option values.
	Literal bool
}

// String renders the token the way it was written.
func (t Token) String() string {
	switch t.Kind {
	case Long:
		if t.HasValue {
			return "--" + t.Name + "=" + t.Value
		}
		return "--" + t.Name
	case Short:
		if t.HasValue {
			return "-" + t.Name + "=" + t.Value
		}
		return "-" + t.Name
	default:
		return t.Value
	}
}

// Input is a tokenized argument list. Raw keeps the original arguments.
type Input struct {
	Tokens []Token
	Raw    []string
}

// Parse tokenizes args. The program name must not be included.
func Parse(args []string) *Input {
	in := &Input{Raw: append([]string(nil), args...)}

	for i, arg := range args {
		switch {
		case arg == "--":
			for _, rest := range args[i+1:] {
				in.Tokens = append(in.Tokens, Token{Kind: Positional, Value: rest, Literal: true})
			}
			return in

		case strings.HasPrefix(arg, "--") && len(arg) > 2 && arg[2] != '=':
			name, value, hasValue := strings.Cut(arg[2:], "=")
			in.Tokens = append(in.Tokens, Token{Kind: Long, Name: name, Value: value, HasValue: hasValue})

		case strings.HasPrefix(arg, "-") && len(arg) > 1 && arg[1] != '-' && arg[1] != '=' && !isNumber(arg[1:]):
			letters, value, hasValue := strings.Cut(arg[1:], "=")
			for j, r := range letters {
				tok := Token{Kind: Short, Name: string(r)}
				if hasValue && j+len(string(r)) == len(letters) {
					tok.Value, tok.HasValue = value, true
				}
				in.Tokens = append(in.Tokens, tok)
			}

		default:
			in.Tokens = append(in.Tokens, Token{Kind: Positional, Value: arg})
		}
	}

	return in
}

// Positionals returns every positional token, ignoring option semantics.
func (in *Input) Positionals() []string {
	var out []string
	for _, t := range in.Tokens {
		if t.Kind == Positional {
			out = append(out, t.Value)
		}
	}
	return out
}

// Command returns the first positional token, or "".
func (in *Input) Command() string {
	for _, t := range in.Tokens {
		if t.Kind == Positional {
			return t.Value
		}
	}
	return ""
}

// Has reports whether the long option or the short alias was given before
// a "--" terminator.
func (in *Input) Has(long, short string) bool {
	for _, t := range in.Tokens {
		if (t.Kind == Long && t.Name == long) || (short != "" && t.Kind == Short && t.Name == short) {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	dot := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// Sentinel errors wrapped by InputError.
var (
	ErrUnknownOption   = errors.New("unknown option")
	ErrMissingValue    = errors.New("option requires a value")
	ErrUnexpectedValue = errors.New("option does not take a value")
)

// InputError reports arguments that do not fit the matched command.
type InputError struct {
	Command string
	Token   string
	Err     error
}

func (e *InputError) Error() string {
	if e.Command == "" {
		return fmt.Sprintf("%s: %v", e.Token, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Token, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }
