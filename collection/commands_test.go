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

package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/route"
)

func TestCommands_Register(t *testing.T) {
	t.Parallel()

	c := NewCommands()
	clearCmd := c.MustAdd(route.NewCommand("cache clear").Name("cache:clear").Handler("h"))
	cacheCmd := c.MustAdd(route.NewCommand("cache").Handler("h"))
	greet := c.MustAdd(route.NewCommand("greet {who?}").Handler("h"))

	assert.Equal(t, 3, c.Len())
	assert.Same(t, greet, c.Get("greet"))
	assert.True(t, c.Has("cache:clear"))
	assert.Equal(t, []string{"cache", "cache:clear", "greet"}, c.Names())
	assert.Equal(t, []*route.Command{greet}, c.AllDynamic())

	cmd, n := c.Static([]string{"cache", "clear", "--all"})
	assert.Same(t, clearCmd, cmd)
	assert.Equal(t, 2, n)

	cmd, n = c.Static([]string{"cache", "warm"})
	assert.Same(t, cacheCmd, cmd)
	assert.Equal(t, 1, n)

	cmd, n = c.Static([]string{"greet"})
	assert.Nil(t, cmd)
	assert.Zero(t, n)
}

func TestCommands_Duplicates(t *testing.T) {
	t.Parallel()

	c := NewCommands()
	c.MustAdd(route.NewCommand("greet").Handler("h"))

	_, err := c.Add(route.NewCommand("greet").Name("hello").Handler("h"))
	require.ErrorIs(t, err, ErrDuplicateName, "same static template")

	_, err = c.Add(route.NewCommand("greet {who}").Handler("h"))
	require.ErrorIs(t, err, ErrDuplicateName, "same name")

	c.MustAdd(route.NewCommand("cache").Handler("h"))
	clearCmd, err := c.Add(route.NewCommand("cache clear").Handler("h"))
	require.NoError(t, err, "subcommand is named after every static word")
	assert.Equal(t, "cache clear", clearCmd.Name())

	c.Freeze()
	_, err = c.Add(route.NewCommand("other").Handler("h"))
	require.ErrorIs(t, err, ErrFrozen)
}

func TestCommands_ExportFromArtifact(t *testing.T) {
	t.Parallel()

	orig := NewCommands()
	orig.MustAdd(route.NewCommand("greet {who?}").Default("who", "World").Flag("loud", "l", "").Handler("cli.Greet"))
	orig.MustAdd(route.NewCommand("cache clear").Handler("cli.CacheClear"))

	routes := New()
	routes.MustAdd(route.GET("/").Handler("home"))

	a := routes.Export()
	orig.ExportTo(&a)
	require.Len(t, a.Routes, 1)
	require.Len(t, a.Commands, 2)

	data, err := cache.Encode(a, codec.TypeYAML)
	require.NoError(t, err)
	decoded, err := cache.Decode(data, codec.TypeYAML)
	require.NoError(t, err)

	restored, err := CommandsFromArtifact(decoded)
	require.NoError(t, err)
	assert.Equal(t, orig.Names(), restored.Names())

	for _, input := range []string{"greet", "greet Ada", "greet a b"} {
		want, wantOK := orig.Get("greet").Matcher().Match(input)
		got, gotOK := restored.Get("greet").Matcher().Match(input)
		assert.Equal(t, wantOK, gotOK, input)
		assert.Equal(t, want, got, input)
	}

	cmd, _ := restored.Static([]string{"cache", "clear"})
	require.NotNil(t, cmd)
	assert.Equal(t, "cli.CacheClear", cmd.Target().Handler)

	_, err = CommandsFromArtifact(orig.Export())
	require.NoError(t, err)
}
