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

package matcher

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/compiler"
	"rivaas.dev/dispatch/route"
)

func widgetRoutes(t *testing.T) *collection.Collection {
	t.Helper()

	c := collection.New()
	c.MustAdd(route.GET("/users/me").Name("users.me").Handler("users.Me"))
	c.MustAdd(route.GET("/users/{id}").Name("users.show").Handler("users.Show"))
	c.MustAdd(route.GET("/widgets/{id:\\d+}").Name("show").Cast("id", compiler.CastInt).Handler("widgets.Show"))
	c.MustAdd(route.DELETE("/widgets/{id:\\d+}").Name("destroy").Handler("widgets.Destroy"))
	c.MustAdd(route.GET("/posts/{id}/{slug?}").Name("posts.show").Default("slug", "index").Handler("posts.Show"))
	c.MustAdd(route.GET("/files/{name}").Name("files.first").Handler("files.First"))
	c.MustAdd(route.GET("/files/{path:.+}").Name("files.second").Handler("files.Second"))
	c.MustAdd(route.POST("/login").Name("login").Secure().Handler("auth.Login"))
	c.MustAdd(route.PUT("/login").Name("login.update").Handler("auth.Update"))
	c.Freeze()

	return c
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	m := New(widgetRoutes(t))

	tests := []struct {
		name       string
		method     string
		path       string
		secure     bool
		wantKind   Kind
		wantRoute  string
		wantParams map[string]any
		wantAllow  []string
	}{
		{
			name:       "static route wins over dynamic",
			method:     http.MethodGet,
			path:       "/users/me",
			wantKind:   Found,
			wantRoute:  "users.me",
			wantParams: map[string]any{},
		},
		{
			name:       "dynamic route",
			method:     http.MethodGet,
			path:       "/users/42",
			wantKind:   Found,
			wantRoute:  "users.show",
			wantParams: map[string]any{"id": "42"},
		},
		{
			name:       "integer cast",
			method:     http.MethodGet,
			path:       "/widgets/42",
			wantKind:   Found,
			wantRoute:  "show",
			wantParams: map[string]any{"id": 42},
		},
		{
			name:     "constraint failure is not found",
			method:   http.MethodGet,
			path:     "/widgets/abc",
			wantKind: NotFound,
		},
		{
			name:      "wrong method on dynamic route",
			method:    http.MethodPost,
			path:      "/widgets/42",
			wantKind:  MethodNotAllowed,
			wantAllow: []string{http.MethodDelete, http.MethodGet, http.MethodHead},
		},
		{
			name:       "HEAD is implied by GET",
			method:     http.MethodHead,
			path:       "/widgets/7",
			wantKind:   Found,
			wantRoute:  "show",
			wantParams: map[string]any{"id": 7},
		},
		{
			name:       "optional parameter absent binds default",
			method:     http.MethodGet,
			path:       "/posts/5",
			wantKind:   Found,
			wantRoute:  "posts.show",
			wantParams: map[string]any{"id": "5", "slug": "index"},
		},
		{
			name:       "optional parameter present",
			method:     http.MethodGet,
			path:       "/posts/5/hello",
			wantKind:   Found,
			wantRoute:  "posts.show",
			wantParams: map[string]any{"id": "5", "slug": "hello"},
		},
		{
			name:       "first registered dynamic route wins",
			method:     http.MethodGet,
			path:       "/files/readme",
			wantKind:   Found,
			wantRoute:  "files.first",
			wantParams: map[string]any{"name": "readme"},
		},
		{
			name:       "later dynamic route reached when earlier does not match",
			method:     http.MethodGet,
			path:       "/files/docs/readme",
			wantKind:   Found,
			wantRoute:  "files.second",
			wantParams: map[string]any{"path": "docs/readme"},
		},
		{
			name:     "secure route over plain scheme",
			method:   http.MethodPost,
			path:     "/login",
			wantKind: Insecure,
		},
		{
			name:       "secure route over secure scheme",
			method:     http.MethodPost,
			path:       "/login",
			secure:     true,
			wantKind:   Found,
			wantRoute:  "login",
			wantParams: map[string]any{},
		},
		{
			name:      "static wrong method",
			method:    http.MethodGet,
			path:      "/login",
			wantKind:  MethodNotAllowed,
			wantAllow: []string{http.MethodPost, http.MethodPut},
		},
		{
			name:     "unknown path",
			method:   http.MethodGet,
			path:     "/nope",
			wantKind: NotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := m.Match(tt.method, tt.path, tt.secure)
			require.Equal(t, tt.wantKind, res.Kind, res.Kind.String())

			switch tt.wantKind {
			case Found:
				require.NotNil(t, res.Match)
				assert.Equal(t, tt.wantRoute, res.Match.Route.Name())
				assert.Equal(t, tt.wantParams, res.Match.Params)
			case MethodNotAllowed:
				assert.Equal(t, tt.wantAllow, res.Allowed)
				assert.Nil(t, res.Match)
			case Insecure:
				require.NotNil(t, res.Route)
				assert.Equal(t, "login", res.Route.Name())
			default:
				assert.Nil(t, res.Match)
				assert.Empty(t, res.Allowed)
			}
		})
	}
}

func TestMatcher_DeclarationOrder(t *testing.T) {
	t.Parallel()

	for _, order := range [][]string{{"a", "b"}, {"b", "a"}} {
		c := collection.New()
		for _, name := range order {
			c.MustAdd(route.GET("/x/{v}").Name(name).Handler("h." + name))
		}
		c.Freeze()

		res := New(c).Match(http.MethodGet, "/x/1", false)
		require.Equal(t, Found, res.Kind)
		assert.Equal(t, order[0], res.Match.Route.Name())
	}
}

func TestMatcher_ManyStaticRoutes(t *testing.T) {
	t.Parallel()

	c := collection.New()
	for _, p := range []string{"/a", "/b", "/c", "/d", "/e", "/f", "/g", "/h", "/i", "/j", "/k", "/l"} {
		c.MustAdd(route.GET(p).Handler("h"))
	}
	c.MustAdd(route.GET("/{any}").Name("fallback").Handler("h"))
	c.Freeze()

	m := New(c)
	assert.Equal(t, "GET,HEAD /k", m.Match(http.MethodGet, "/k", false).Match.Route.Name())
	assert.Equal(t, "fallback", m.Match(http.MethodGet, "/z", false).Match.Route.Name())
}

func TestMatcher_RoundTrip(t *testing.T) {
	t.Parallel()

	live := widgetRoutes(t)

	inputs := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/users/9"},
		{http.MethodGet, "/widgets/42"},
		{http.MethodGet, "/widgets/abc"},
		{http.MethodPost, "/widgets/42"},
		{http.MethodGet, "/posts/5"},
		{http.MethodGet, "/posts/5/hi"},
		{http.MethodGet, "/files/a/b"},
		{http.MethodPost, "/login"},
		{http.MethodGet, "/missing"},
	}

	for _, typ := range []codec.Type{codec.TypeJSON, codec.TypeYAML, codec.TypeTOML, codec.TypeMsgPack} {
		t.Run(string(typ), func(t *testing.T) {
			t.Parallel()

			data, err := cache.Encode(live.Export(), typ)
			require.NoError(t, err)
			a, err := cache.Decode(data, typ)
			require.NoError(t, err)
			restored, err := collection.FromArtifact(a)
			require.NoError(t, err)

			want, got := New(live), New(restored)
			for _, in := range inputs {
				for _, secure := range []bool{false, true} {
					w := want.Match(in.method, in.path, secure)
					g := got.Match(in.method, in.path, secure)

					require.Equal(t, w.Kind, g.Kind, "%s %s", in.method, in.path)
					assert.Equal(t, w.Allowed, g.Allowed, "%s %s", in.method, in.path)
					if w.Kind == Found {
						assert.Equal(t, w.Match.Route.Name(), g.Match.Route.Name())
						assert.Equal(t, w.Match.Params, g.Match.Params)
						assert.Equal(t, w.Match.Raw, g.Match.Raw)
						assert.Equal(t, w.Match.Route.Target(), g.Match.Route.Target())
					}
				}
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "method_not_allowed", MethodNotAllowed.String())
	assert.Equal(t, "insecure", Insecure.String())
	assert.Equal(t, "invalid_input", InvalidInput.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
