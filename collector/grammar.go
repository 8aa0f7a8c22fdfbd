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

package collector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Annotation kinds.
const (
	KindRoute   = "route"
	KindCommand = "command"
)

// Prefix starts every annotation line.
const Prefix = "//dispatch:"

var (
	// ErrSyntax is wrapped by annotation parse failures.
	ErrSyntax = errors.New("annotation syntax error")

	// ErrUnknownAttribute is returned for an attribute key the annotation
	// kind does not accept.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInvalidAttribute is returned for a malformed attribute value.
	ErrInvalidAttribute = errors.New("invalid attribute")
)

// Annotation is one parsed "//dispatch:" line.
type Annotation struct {
	Kind  string       `parser:"Prefix @('route' | 'command')"`
	Words []string     `parser:"@Word+"`
	Attrs []*Attribute `parser:"@@*"`
}

// Attribute is a key=value pair or a bare flag word.
type Attribute struct {
	Pair *Pair  `parser:"  @@"`
	Flag string `parser:"| @Word"`
}

// Pair is a key=value attribute. Quoted values are unquoted.
type Pair struct {
	Key   string `parser:"@Key"`
	Value string `parser:"(@String | @Word)"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Prefix", Pattern: `//\s*dispatch:`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Key", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*=`},
	{Name: "Word", Pattern: `[^\s"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var annotationParser = participle.MustBuild[Annotation](
	participle.Lexer(annotationLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
	participle.Map(func(t lexer.Token) (lexer.Token, error) {
		t.Value = strings.TrimSuffix(t.Value, "=")
		return t, nil
	}, "Key"),
)

// IsAnnotation reports whether a comment line is a dispatch annotation.
func IsAnnotation(line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(line, "//")), "dispatch:")
}

// Parse parses one annotation line.
func Parse(line string) (*Annotation, error) {
	a, err := annotationParser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	if a.Kind == KindRoute && len(a.Words) < 2 {
		return nil, fmt.Errorf("%w: route needs methods and a pattern", ErrSyntax)
	}
	return a, nil
}

// Get returns the value of the last attribute named key.
func (a *Annotation) Get(key string) (string, bool) {
	for i := len(a.Attrs) - 1; i >= 0; i-- {
		if p := a.Attrs[i].Pair; p != nil && p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// All returns the values of every attribute named key, in order.
func (a *Annotation) All(key string) []string {
	var out []string
	for _, attr := range a.Attrs {
		if attr.Pair != nil && attr.Pair.Key == key {
			out = append(out, attr.Pair.Value)
		}
	}
	return out
}

// Keys returns the attribute keys in order.
func (a *Annotation) Keys() []string {
	var out []string
	for _, attr := range a.Attrs {
		if attr.Pair != nil {
			out = append(out, attr.Pair.Key)
		}
	}
	return out
}

// Flags returns the bare words following the attributes.
func (a *Annotation) Flags() []string {
	var out []string
	for _, attr := range a.Attrs {
		if attr.Pair == nil {
			out = append(out, attr.Flag)
		}
	}
	return out
}

// List splits the comma separated values of every attribute named key.
func (a *Annotation) List(key string) []string {
	var out []string
	for _, v := range a.All(key) {
		out = append(out, splitList(v)...)
	}
	return out
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
