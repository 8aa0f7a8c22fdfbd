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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/compiler"
)

func ptr(s string) *string { return &s }

func TestCommandBuilder_Build(t *testing.T) {
	t.Parallel()

	c, err := NewCommand("  make:widget {name:[a-z]+} {kind?} ").
		Description("Create a widget").
		Option(InputOption{Name: "force", Short: "f"}).
		Option(InputOption{Name: "dir", Short: "d", Mode: OptionRequired, Default: ptr("./widgets")}).
		OnRouteMatched("confirm").
		Handler("cli.MakeWidget").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "make:widget", c.Name())
	assert.Equal(t, "make:widget {name:[a-z]+} {kind?}", c.Pattern())
	assert.True(t, c.IsDynamic())
	assert.Equal(t, `^make:widget (?P<param0>[a-z]+)(?: (?P<param1>\S+))?$`, c.Regex())
	assert.Equal(t, "Create a widget", c.Description())
	assert.Equal(t, []string{"confirm"}, c.Stages().RouteMatched)

	force, ok := c.Option("force")
	require.True(t, ok)
	assert.Equal(t, OptionNone, force.Mode)

	dir, ok := c.OptionByShort("d")
	require.True(t, ok)
	assert.Equal(t, "dir", dir.Name)
	assert.Equal(t, "./widgets", *dir.Default)

	_, ok = c.OptionByShort("x")
	assert.False(t, ok)

	assert.Equal(t, "make:widget {name:[a-z]+} {kind?} [--force|-f] [--dir|-d=VALUE]", c.Usage())
}

func TestCommandBuilder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *CommandBuilder
		wantErr error
	}{
		{name: "no handler", builder: NewCommand("greet"), wantErr: ErrNoHandler},
		{name: "bad template", builder: NewCommand("greet {who").Handler("h"), wantErr: compiler.ErrInvalidPattern},
		{name: "dashed option name", builder: NewCommand("greet").Option(InputOption{Name: "--loud"}).Handler("h"), wantErr: ErrInvalidOption},
		{name: "long short alias", builder: NewCommand("greet").Option(InputOption{Name: "loud", Short: "ll"}).Handler("h"), wantErr: ErrInvalidOption},
		{name: "unknown mode", builder: NewCommand("greet").Option(InputOption{Name: "loud", Mode: "sometimes"}).Handler("h"), wantErr: ErrInvalidOption},
		{name: "flag with default", builder: NewCommand("greet").Option(InputOption{Name: "loud", Default: ptr("yes")}).Handler("h"), wantErr: ErrInvalidOption},
		{name: "duplicate short", builder: NewCommand("greet").Flag("loud", "l", "").Flag("lower", "l", "").Handler("h"), wantErr: ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCommandBuilder_DefaultName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "greet", want: "greet"},
		{pattern: "greet {who?}", want: "greet"},
		{pattern: "cache clear", want: "cache clear"},
		{pattern: "cache clear {store?}", want: "cache clear"},
		{pattern: "make:widget {name}", want: "make:widget"},
		{pattern: "{name} run", want: "{name}"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()

			c, err := NewCommand(tt.pattern).Handler("h").Build()
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name())
		})
	}

	named := NewCommand("cache clear").Name("cache:clear").Handler("h").MustBuild()
	assert.Equal(t, "cache:clear", named.Name())
}

func TestCommandData_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := NewCommand("greet {who?}").
		Name("greet").
		Default("who", "World").
		Flag("loud", "l", "shout").
		Option(InputOption{Name: "times", Mode: OptionOptional}).
		OnTerminated("flush").
		Handler("cli.Greet").
		Dependencies("clock").
		MustBuild()

	restored, err := CommandFromData(orig.Data())
	require.NoError(t, err)
	assert.Equal(t, orig.Data(), restored.Data())

	for _, input := range []string{"greet", "greet Ada", "greet a b"} {
		want, wantOK := orig.Matcher().Match(input)
		got, gotOK := restored.Matcher().Match(input)
		assert.Equal(t, wantOK, gotOK, input)
		assert.Equal(t, want, got, input)
	}

	url, err := restored.Matcher().Build(map[string]string{"who": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "greet Ada", url)
}

func TestCommandMatch_Accessors(t *testing.T) {
	t.Parallel()

	m := &CommandMatch{
		Params:  map[string]any{"who": "Ada"},
		Options: map[string]any{"loud": true, "times": "3", "quiet": false},
	}

	v, ok := m.Param("who")
	assert.True(t, ok)
	assert.Equal(t, "Ada", v)

	assert.True(t, m.Flag("loud"))
	assert.False(t, m.Flag("quiet"))
	assert.False(t, m.Flag("times"))

	v, ok = m.Option("times")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}
