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
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// DefaultRegex is the constraint of a path parameter declared without one.
const DefaultRegex = `[^/]+`

var nameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Option configures compilation.
type Option func(*config)

type config struct {
	sep          byte
	defaultRegex string
	overrides    map[string]*override
	order        []string
}

type override struct {
	regex     *string
	cast      *Cast
	def       *string
	noCapture bool
}

func (c *config) override(name string) *override {
	if c.overrides == nil {
		c.overrides = make(map[string]*override)
	}
	o, ok := c.overrides[name]
	if !ok {
		o = &override{}
		c.overrides[name] = o
		c.order = append(c.order, name)
	}
	return o
}

// WithSeparator sets the byte that separates segments. Defaults to '/'.
func WithSeparator(sep byte) Option {
	return func(c *config) {
		c.sep = sep
	}
}

// WithDefaultRegex sets the constraint used by parameters declared without one.
func WithDefaultRegex(re string) Option {
	return func(c *config) {
		c.defaultRegex = re
	}
}

// WithRegex replaces the constraint of the named parameter.
func WithRegex(name, re string) Option {
	return func(c *config) {
		c.override(name).regex = &re
	}
}

// WithCast sets the cast applied to the named parameter after matching.
func WithCast(name string, cast Cast) Option {
	return func(c *config) {
		c.override(name).cast = &cast
	}
}

// WithDefault sets the value bound when the named parameter is absent.
// The parameter becomes optional.
func WithDefault(name, value string) Option {
	return func(c *config) {
		c.override(name).def = &value
	}
}

// WithoutCapture keeps the named parameter out of the match bindings.
// Its constraint and cast still have to hold for the input to match.
func WithoutCapture(name string) Option {
	return func(c *config) {
		c.override(name).noCapture = true
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		sep:          '/',
		defaultRegex: DefaultRegex,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// part is either literal text (param < 0) or a placeholder.
type part struct {
	literal string
	param   int
	offset  int
	// lead marks an optional parameter that owns the separator before it.
	lead bool
}

// Matcher is a compiled pattern. It is immutable and safe for concurrent use.
type Matcher struct {
	pattern     string
	source      string
	re          *regexp.Regexp
	sep         byte
	parts       []part
	params      []Parameter
	groups      []int
	defaults    []any
	constraints []*regexp.Regexp
}

// Compile parses pattern and builds its matcher.
func Compile(pattern string, opts ...Option) (*Matcher, error) {
	cfg := newConfig(opts)

	parts, params, err := parse(pattern, cfg.defaultRegex)
	if err != nil {
		return nil, err
	}
	if err := applyOverrides(pattern, params, cfg); err != nil {
		return nil, err
	}
	markLeads(parts, params, cfg.sep)

	m := &Matcher{
		pattern: pattern,
		sep:     cfg.sep,
		parts:   parts,
		params:  params,
	}
	if len(params) == 0 {
		return m, nil
	}

	m.source = buildRegex(parts, params, cfg.sep)
	re, err := regexp.Compile(m.source)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Offset: -1, Reason: "regex does not compile", Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
	}
	m.re = re

	if err := m.prepare(); err != nil {
		return nil, err
	}

	return m, nil
}

// MustCompile is like Compile but panics if the pattern is invalid.
func MustCompile(pattern string, opts ...Option) *Matcher {
	m, err := Compile(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return m
}

// FromRegex restores a matcher from a previously compiled regex source and
// its parameter list. The pattern only provides the layout used by
// [Matcher.Build]; matching uses source verbatim.
//
// Only the separator option is honored.
func FromRegex(pattern, source string, params []Parameter, opts ...Option) (*Matcher, error) {
	cfg := newConfig(opts)

	parts, parsed, err := parse(pattern, cfg.defaultRegex)
	if err != nil {
		return nil, err
	}
	if len(parsed) != len(params) {
		return nil, &PatternError{
			Pattern: pattern,
			Offset:  -1,
			Reason:  fmt.Sprintf("pattern declares %d parameters, %d given", len(parsed), len(params)),
			Err:     ErrInvalidPattern,
		}
	}

	m := &Matcher{
		pattern: pattern,
		sep:     cfg.sep,
		parts:   parts,
		params:  make([]Parameter, len(params)),
	}
	for i, p := range params {
		if p.Name != parsed[i].Name {
			return nil, &PatternError{Pattern: pattern, Offset: -1, Reason: fmt.Sprintf("parameter %d is %q, pattern declares %q", i, p.Name, parsed[i].Name), Err: ErrInvalidPattern}
		}
		m.params[i] = p.clone()
	}
	markLeads(parts, m.params, cfg.sep)

	if len(params) == 0 {
		return m, nil
	}
	if source == "" {
		return nil, &PatternError{Pattern: pattern, Offset: -1, Reason: "dynamic pattern without regex", Err: ErrInvalidPattern}
	}

	re, err := regexp.Compile(source)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Offset: -1, Reason: "regex does not compile", Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
	}
	m.source = source
	m.re = re

	if err := m.prepare(); err != nil {
		return nil, err
	}

	return m, nil
}

// prepare resolves capture groups, compiles per-parameter constraints and
// casts the declared defaults.
func (m *Matcher) prepare() error {
	m.groups = make([]int, len(m.params))
	m.defaults = make([]any, len(m.params))
	m.constraints = make([]*regexp.Regexp, len(m.params))

	for i, p := range m.params {
		idx := m.re.SubexpIndex(groupName(i))
		if idx < 0 {
			return &PatternError{Pattern: m.pattern, Offset: -1, Reason: fmt.Sprintf("no capture group for %q", p.Name), Err: ErrInvalidPattern}
		}
		m.groups[i] = idx

		if !p.Cast.Valid() {
			return &PatternError{Pattern: m.pattern, Offset: -1, Reason: fmt.Sprintf("parameter %q", p.Name), Err: fmt.Errorf("%w: %q", ErrUnknownCast, string(p.Cast))}
		}

		c, err := regexp.Compile("^(?:" + p.Regex + ")$")
		if err != nil {
			return &PatternError{Pattern: m.pattern, Offset: -1, Reason: fmt.Sprintf("constraint of %q", p.Name), Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
		}
		m.constraints[i] = c

		if p.Default != nil {
			v, err := p.Cast.Apply(*p.Default)
			if err != nil {
				return &PatternError{Pattern: m.pattern, Offset: -1, Reason: fmt.Sprintf("default of %q", p.Name), Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
			}
			m.defaults[i] = v
		}
	}

	return nil
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string { return m.pattern }

// Regex returns the anchored regex source, or "" for a static pattern.
func (m *Matcher) Regex() string { return m.source }

// IsDynamic reports whether the pattern declares parameters.
func (m *Matcher) IsDynamic() bool { return m.re != nil }

// Separator returns the segment separator.
func (m *Matcher) Separator() byte { return m.sep }

// Parameters returns a copy of the parameters in declaration order, or nil
// for a static pattern.
func (m *Matcher) Parameters() []Parameter {
	if len(m.params) == 0 {
		return nil
	}
	out := make([]Parameter, len(m.params))
	for i, p := range m.params {
		out[i] = p.clone()
	}
	return out
}

// Match reports whether input matches the whole pattern and returns the
// bound parameters.
func (m *Matcher) Match(input string) (Bindings, bool) {
	if m.re == nil {
		return Bindings{}, input == m.pattern
	}

	loc := m.re.FindStringSubmatchIndex(input)
	if loc == nil {
		return Bindings{}, false
	}

	b := Bindings{
		Raw:    make(map[string]string, len(m.params)),
		Values: make(map[string]any, len(m.params)),
	}
	for i, p := range m.params {
		start, end := loc[2*m.groups[i]], loc[2*m.groups[i]+1]
		if start < 0 {
			if !p.Capture {
				continue
			}
			if p.Default != nil {
				b.Raw[p.Name] = *p.Default
				b.Values[p.Name] = m.defaults[i]
			} else {
				b.Values[p.Name] = nil
			}
			continue
		}

		raw := input[start:end]
		v, err := p.Cast.Apply(raw)
		if err != nil {
			return Bindings{}, false
		}
		if !p.Capture {
			continue
		}
		b.Raw[p.Name] = raw
		b.Values[p.Name] = v
	}

	return b, true
}

// Build renders the pattern with params, the reverse of Match.
// Absent optional parameters are dropped together with the separator they
// own. Path patterns escape values with url.PathEscape.
func (m *Matcher) Build(params map[string]string) (string, error) {
	var buf strings.Builder
	for _, p := range m.parts {
		if p.param < 0 {
			buf.WriteString(p.literal)
			continue
		}

		prm := m.params[p.param]
		v, ok := params[prm.Name]
		if !ok || v == "" {
			if prm.Optional {
				continue
			}
			return "", fmt.Errorf("build %q: %w: %s", m.pattern, ErrMissingParameter, prm.Name)
		}
		if m.constraints != nil && !m.constraints[p.param].MatchString(v) {
			return "", fmt.Errorf("build %q: %w: %s=%q", m.pattern, ErrInvalidParameter, prm.Name, v)
		}

		if p.lead {
			buf.WriteByte(m.sep)
		}
		if m.sep == '/' {
			v = url.PathEscape(v)
		}
		buf.WriteString(v)
	}

	return buf.String(), nil
}

func groupName(i int) string {
	return "param" + strconv.Itoa(i)
}

// parse splits pattern into literal and placeholder parts.
func parse(pattern, defaultRegex string) ([]part, []Parameter, error) {
	var (
		parts    []part
		params   []Parameter
		seen     = make(map[string]struct{})
		lit      strings.Builder
		litStart int
	)

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, part{literal: lit.String(), param: -1, offset: litStart})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		switch c := pattern[i]; c {
		case '}':
			return nil, nil, &PatternError{Pattern: pattern, Offset: i, Reason: "unexpected '}'", Err: ErrInvalidPattern}

		case '{':
			end, err := closingBrace(pattern, i)
			if err != nil {
				return nil, nil, err
			}

			body := pattern[i+1 : end]
			name, re, hasRegex := strings.Cut(body, ":")
			optional := strings.HasSuffix(name, "?")
			name = strings.TrimSuffix(name, "?")

			if !nameRegex.MatchString(name) {
				return nil, nil, &PatternError{Pattern: pattern, Offset: i, Reason: fmt.Sprintf("invalid parameter name %q", name), Err: ErrInvalidPattern}
			}
			if hasRegex && re == "" {
				return nil, nil, &PatternError{Pattern: pattern, Offset: i, Reason: fmt.Sprintf("empty constraint for %q", name), Err: ErrInvalidPattern}
			}
			if _, dup := seen[name]; dup {
				return nil, nil, &PatternError{Pattern: pattern, Offset: i, Reason: fmt.Sprintf("parameter %q", name), Err: ErrDuplicateParameter}
			}
			seen[name] = struct{}{}

			if !hasRegex {
				re = defaultRegex
			}
			if _, err := regexp.Compile(re); err != nil {
				return nil, nil, &PatternError{Pattern: pattern, Offset: i, Reason: fmt.Sprintf("constraint of %q", name), Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
			}

			flush()
			params = append(params, Parameter{Name: name, Regex: re, Optional: optional, Capture: true})
			parts = append(parts, part{param: len(params) - 1, offset: i})
			i = end + 1

		default:
			if lit.Len() == 0 {
				litStart = i
			}
			lit.WriteByte(c)
			i++
		}
	}
	flush()

	return parts, params, nil
}

// closingBrace returns the index of the brace closing the one at open.
// Nested braces are balanced and a backslash escapes the next byte.
func closingBrace(pattern string, open int) (int, error) {
	depth := 0
	for j := open; j < len(pattern); j++ {
		switch pattern[j] {
		case '\\':
			j++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j, nil
			}
		}
	}

	return 0, &PatternError{Pattern: pattern, Offset: open, Reason: "unclosed '{'", Err: ErrInvalidPattern}
}

func applyOverrides(pattern string, params []Parameter, cfg *config) error {
	for _, name := range cfg.order {
		o := cfg.overrides[name]

		idx := -1
		for i := range params {
			if params[i].Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return &PatternError{Pattern: pattern, Offset: -1, Reason: fmt.Sprintf("option for %q", name), Err: ErrUnknownParameter}
		}

		p := &params[idx]
		if o.regex != nil {
			if _, err := regexp.Compile(*o.regex); err != nil {
				return &PatternError{Pattern: pattern, Offset: -1, Reason: fmt.Sprintf("constraint of %q", name), Err: fmt.Errorf("%w: %w", ErrInvalidPattern, err)}
			}
			p.Regex = *o.regex
		}
		if o.cast != nil {
			p.Cast = *o.cast
		}
		if o.def != nil {
			d := *o.def
			p.Default = &d
			p.Optional = true
		}
		if o.noCapture {
			p.Capture = false
		}
	}

	return nil
}

// markLeads moves the separator in front of an optional parameter into the
// parameter's optional group. A separator at offset 0 stays mandatory.
func markLeads(parts []part, params []Parameter, sep byte) {
	for k := 1; k < len(parts); k++ {
		cur := &parts[k]
		prev := &parts[k-1]
		if cur.param < 0 || !params[cur.param].Optional || prev.param >= 0 {
			continue
		}

		n := len(prev.literal)
		if n == 0 || prev.literal[n-1] != sep || prev.offset+n-1 == 0 {
			continue
		}
		prev.literal = prev.literal[:n-1]
		cur.lead = true
	}
}

func buildRegex(parts []part, params []Parameter, sep byte) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, p := range parts {
		if p.param < 0 {
			b.WriteString(regexp.QuoteMeta(p.literal))
			continue
		}

		prm := params[p.param]
		group := "(?P<" + groupName(p.param) + ">" + prm.Regex + ")"
		switch {
		case prm.Optional && p.lead:
			b.WriteString("(?:" + regexp.QuoteMeta(string(sep)) + group + ")?")
		case prm.Optional:
			b.WriteString(group + "?")
		default:
			b.WriteString(group)
		}
	}
	b.WriteByte('$')

	return b.String()
}
