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

package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/container"
	"rivaas.dev/dispatch/route"
)

type greeter struct{ greeting string }

func (g greeter) Handle(_ context.Context, args Arguments) (any, error) {
	who, _ := Arg[string](args, "who")
	return g.greeting + " " + who, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	c := container.New().Set("clock", "noon")
	r := NewRegistry(WithContainer(c)).
		Handle("widgets.Show", func(_ context.Context, args Arguments) (any, error) {
			id, _ := Arg[int](args, "id")
			clock, _ := Arg[string](args, "clock")
			return map[string]any{"id": id, "clock": clock}, nil
		})

	args := Arguments{"id": 42}
	v, err := r.Dispatch(context.Background(), route.Target{Handler: "widgets.Show", Dependencies: []string{"clock"}}, args)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 42, "clock": "noon"}, v)
	assert.NotContains(t, args, "clock")

	_, err = r.Dispatch(context.Background(), route.Target{Handler: "missing"}, nil)
	require.ErrorIs(t, err, ErrNotDispatched)

	_, err = r.Dispatch(context.Background(), route.Target{Handler: "widgets.Show", Dependencies: []string{"db"}}, nil)
	require.ErrorIs(t, err, ErrDependency)
	require.ErrorIs(t, err, container.ErrNotFound)

	assert.True(t, r.Has("widgets.Show"))
	assert.Equal(t, []string{"widgets.Show"}, r.Names())
	require.ErrorIs(t, r.Register("widgets.Show", HandlerFunc(nil)), ErrDuplicateHandler)
	assert.Panics(t, func() { r.Handle("widgets.Show", nil) })
}

func TestRegistry_DependenciesWithoutContainer(t *testing.T) {
	t.Parallel()

	r := NewRegistry().Handle("h", func(context.Context, Arguments) (any, error) { return nil, nil })

	_, err := r.Dispatch(context.Background(), route.Target{Handler: "h", Dependencies: []string{"db"}}, nil)
	require.ErrorIs(t, err, ErrDependency)
}

func TestContainerDispatcher(t *testing.T) {
	t.Parallel()

	c := container.New().
		Set("greet", greeter{greeting: "Hello"}).
		Set("shout", func(_ context.Context, args Arguments) (any, error) {
			return args["who"].(string) + "!", nil
		}).
		Set("config", 12).
		Bind("broken", func(container.Container) (any, error) { return nil, errors.New("boom") })
	d := NewContainerDispatcher(c)
	ctx := context.Background()

	v, err := d.Dispatch(ctx, route.Target{Handler: "greet"}, Arguments{"who": "World"})
	require.NoError(t, err)
	assert.Equal(t, "Hello World", v)

	v, err = d.Dispatch(ctx, route.Target{Handler: "shout"}, Arguments{"who": "hey"})
	require.NoError(t, err)
	assert.Equal(t, "hey!", v)

	_, err = d.Dispatch(ctx, route.Target{Handler: "config"}, nil)
	require.ErrorIs(t, err, ErrNotDispatched)

	_, err = d.Dispatch(ctx, route.Target{Handler: "nope"}, nil)
	require.ErrorIs(t, err, ErrNotDispatched)

	_, err = d.Dispatch(ctx, route.Target{Handler: "broken"}, nil)
	require.ErrorIs(t, err, ErrDependency)
}

func TestChain_FallsThroughOnlyOnSentinel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	first := NewRegistry().Handle("zero", func(context.Context, Arguments) (any, error) {
		return 0, nil
	})
	second := NewRegistry().
		Handle("zero", func(context.Context, Arguments) (any, error) { return 1, nil }).
		Handle("fallback", func(context.Context, Arguments) (any, error) { return false, nil })
	chain := Chain{first, second}

	v, err := chain.Dispatch(ctx, route.Target{Handler: "zero"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	v, err = chain.Dispatch(ctx, route.Target{Handler: "fallback"}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = chain.Dispatch(ctx, route.Target{Handler: "none"}, nil)
	require.ErrorIs(t, err, ErrNotDispatched)

	boom := errors.New("boom")
	failing := Chain{
		DispatcherFunc(func(context.Context, route.Target, Arguments) (any, error) { return nil, boom }),
		second,
	}
	_, err = failing.Dispatch(ctx, route.Target{Handler: "zero"}, nil)
	require.ErrorIs(t, err, boom)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	c := container.New().
		Set("clock", "noon").
		Set("greet", greeter{greeting: "Hello"})
	noop := func(context.Context, Arguments) (any, error) { return nil, nil }
	withClock := NewRegistry(WithContainer(c)).Handle("show", noop)
	bare := NewRegistry().Handle("show", noop).Handle("list", noop)
	opaque := DispatcherFunc(func(context.Context, route.Target, Arguments) (any, error) { return nil, nil })

	tests := []struct {
		name       string
		dispatcher Dispatcher
		target     route.Target
		wantErr    error
	}{
		{name: "resolvable dependency", dispatcher: withClock, target: route.Target{Handler: "show", Dependencies: []string{"clock"}}},
		{name: "missing dependency", dispatcher: withClock, target: route.Target{Handler: "show", Dependencies: []string{"db"}}, wantErr: container.ErrNotFound},
		{name: "dependency without container", dispatcher: bare, target: route.Target{Handler: "list", Dependencies: []string{"db"}}, wantErr: ErrDependency},
		{name: "unregistered handler", dispatcher: withClock, target: route.Target{Handler: "later", Dependencies: []string{"db"}}},
		{name: "container handler", dispatcher: NewContainerDispatcher(c), target: route.Target{Handler: "greet", Dependencies: []string{"db"}}, wantErr: ErrDependency},
		{name: "dispatcher without verification", dispatcher: opaque, target: route.Target{Handler: "show", Dependencies: []string{"db"}}},
		{name: "chain verifies the handling dispatcher", dispatcher: Chain{NewRegistry(), withClock}, target: route.Target{Handler: "show", Dependencies: []string{"db"}}, wantErr: ErrDependency},
		{name: "chain stops at an opaque dispatcher", dispatcher: Chain{opaque, withClock}, target: route.Target{Handler: "show", Dependencies: []string{"db"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Verify(tt.dispatcher, tt.target)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, ErrDependency)
		})
	}
}

func TestArguments(t *testing.T) {
	t.Parallel()

	var nilArgs Arguments
	clone := nilArgs.Clone()
	require.NotNil(t, clone)
	clone["x"] = 1

	v, ok := clone.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = Arg[string](clone, "x")
	assert.False(t, ok)
}
