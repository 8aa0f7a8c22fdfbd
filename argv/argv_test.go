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

package argv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want []Token
	}{
		{
			name: "long with equals",
			args: []string{"greet", "--name=World"},
			want: []Token{
				{Kind: Positional, Value: "greet"},
				{Kind: Long, Name: "name", Value: "World", HasValue: true},
			},
		},
		{
			name: "long with separate value",
			args: []string{"greet", "--name", "World"},
			want: []Token{
				{Kind: Positional, Value: "greet"},
				{Kind: Long, Name: "name"},
				{Kind: Positional, Value: "World"},
			},
		},
		{
			name: "empty value",
			args: []string{"--name="},
			want: []Token{{Kind: Long, Name: "name", HasValue: true}},
		},
		{
			name: "short with equals",
			args: []string{"-n=World"},
			want: []Token{{Kind: Short, Name: "n", Value: "World", HasValue: true}},
		},
		{
			name: "bundled shorts",
			args: []string{"-abc"},
			want: []Token{
				{Kind: Short, Name: "a"},
				{Kind: Short, Name: "b"},
				{Kind: Short, Name: "c"},
			},
		},
		{
			name: "bundle with value goes to last letter",
			args: []string{"-vo=out.txt"},
			want: []Token{
				{Kind: Short, Name: "v"},
				{Kind: Short, Name: "o", Value: "out.txt", HasValue: true},
			},
		},
		{
			name: "terminator",
			args: []string{"run", "--", "--not-an-option", "-x"},
			want: []Token{
				{Kind: Positional, Value: "run"},
				{Kind: Positional, Value: "--not-an-option", Literal: true},
				{Kind: Positional, Value: "-x", Literal: true},
			},
		},
		{
			name: "dash and negative numbers are positional",
			args: []string{"-", "-5", "-1.5"},
			want: []Token{
				{Kind: Positional, Value: "-"},
				{Kind: Positional, Value: "-5"},
				{Kind: Positional, Value: "-1.5"},
			},
		},
		{
			name: "no arguments",
			args: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := Parse(tt.args)
			assert.Equal(t, tt.want, in.Tokens)
			assert.Equal(t, len(tt.args), len(in.Raw))
		})
	}
}

func TestInput_Helpers(t *testing.T) {
	t.Parallel()

	in := Parse([]string{"--verbose", "make:widget", "gear", "-h", "--", "--help"})

	assert.Equal(t, "make:widget", in.Command())
	assert.Equal(t, []string{"make:widget", "gear", "--help"}, in.Positionals())
	assert.True(t, in.Has("help", "h"))
	assert.True(t, in.Has("verbose", ""))
	assert.False(t, in.Has("quiet", "q"))

	assert.False(t, Parse([]string{"--", "--help"}).Has("help", "h"))
	assert.Empty(t, Parse(nil).Command())
}

func TestToken_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "--name=x", Token{Kind: Long, Name: "name", Value: "x", HasValue: true}.String())
	assert.Equal(t, "--name", Token{Kind: Long, Name: "name"}.String())
	assert.Equal(t, "-n=x", Token{Kind: Short, Name: "n", Value: "x", HasValue: true}.String())
	assert.Equal(t, "-n", Token{Kind: Short, Name: "n"}.String())
	assert.Equal(t, "arg", Token{Value: "arg"}.String())
}

func TestInputError(t *testing.T) {
	t.Parallel()

	err := &InputError{Command: "greet", Token: "--nope", Err: ErrUnknownOption}
	assert.Equal(t, "greet: --nope: unknown option", err.Error())
	assert.ErrorIs(t, err, ErrUnknownOption)

	err = &InputError{Token: "-x", Err: ErrMissingValue}
	assert.Equal(t, "-x: option requires a value", err.Error())
}
