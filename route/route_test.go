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
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/compiler"
)

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	r, err := GET("/widgets/{id}").
		Name("widgets.show").
		Description("Show a widget").
		WhereInt("id").
		Secure().
		OnRouteMatched("auth").
		OnRouteDispatched("etag", "gzip").
		OnTerminated("audit").
		Handler("widgets.Show").
		Dependencies("db").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "widgets.show", r.Name())
	assert.Equal(t, "/widgets/{id}", r.Pattern())
	assert.Equal(t, "Show a widget", r.Description())
	assert.Equal(t, []string{http.MethodGet, http.MethodHead}, r.Methods())
	assert.True(t, r.IsSecure())
	assert.True(t, r.IsDynamic())
	assert.Equal(t, `^/widgets/(?P<param0>\d+)$`, r.Regex())
	assert.Equal(t, []string{"auth"}, r.Stages().RouteMatched)
	assert.Equal(t, []string{"etag", "gzip"}, r.Stages().RouteDispatched)
	assert.Equal(t, []string{"audit"}, r.Stages().Terminated)
	assert.Equal(t, Target{Handler: "widgets.Show", Dependencies: []string{"db"}}, r.Target())

	params := r.Parameters()
	require.Len(t, params, 1)
	assert.Equal(t, compiler.CastInt, params[0].Cast)
}

func TestBuilder_DefaultName(t *testing.T) {
	t.Parallel()

	r := New("/items", "post", "put", "POST").Handler("h").MustBuild()
	assert.Equal(t, "POST,PUT /items", r.Name())
	assert.Equal(t, []string{http.MethodPost, http.MethodPut}, r.Methods())
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		builder *Builder
		wantErr error
	}{
		{name: "no methods", builder: New("/x").Handler("h"), wantErr: ErrNoMethods},
		{name: "blank methods", builder: New("/x", " ").Handler("h"), wantErr: ErrNoMethods},
		{name: "no handler", builder: GET("/x"), wantErr: ErrNoHandler},
		{name: "invalid pattern", builder: GET("/x/{id").Handler("h"), wantErr: compiler.ErrInvalidPattern},
		{name: "duplicate parameter", builder: GET("/{a}/{a}").Handler("h"), wantErr: compiler.ErrDuplicateParameter},
		{name: "constraint on unknown parameter", builder: GET("/{a}").WhereInt("b").Handler("h"), wantErr: compiler.ErrUnknownParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.builder.Build()
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuilder_TypedConstraints(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name    string
		builder *Builder
		path    string
		want    any
		wantOK  bool
	}{
		{name: "int", builder: GET("/u/{v}").WhereInt("v"), path: "/u/12", want: 12, wantOK: true},
		{name: "int rejects letters", builder: GET("/u/{v}").WhereInt("v"), path: "/u/1a", wantOK: false},
		{name: "float", builder: GET("/u/{v}").WhereFloat("v"), path: "/u/-2.5", want: -2.5, wantOK: true},
		{name: "uuid", builder: GET("/u/{v}").WhereUUID("v"), path: "/u/" + id.String(), want: id, wantOK: true},
		{name: "enum", builder: GET("/u/{v}").WhereEnum("v", "a.b", "c"), path: "/u/a.b", want: "a.b", wantOK: true},
		{name: "enum quotes values", builder: GET("/u/{v}").WhereEnum("v", "a.b", "c"), path: "/u/axb", wantOK: false},
		{name: "date", builder: GET("/u/{v}").WhereDate("v"), path: "/u/2024-02-29", want: "2024-02-29", wantOK: true},
		{name: "datetime", builder: GET("/u/{v}").WhereDateTime("v"), path: "/u/2024-02-29T10:00:00Z", want: "2024-02-29T10:00:00Z", wantOK: true},
		{name: "alpha", builder: GET("/u/{v}").WhereConstraint("v", ParamConstraint{Kind: ConstraintAlpha}), path: "/u/abc1", wantOK: false},
		{name: "regex", builder: GET("/u/{v}").Where("v", `[a-z]{3}`), path: "/u/abc", want: "abc", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := tt.builder.Handler("h").Build()
			require.NoError(t, err)

			m, ok := NewMatch(r, tt.path)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, m.Params["v"])
			}
		})
	}
}

func TestBuilder_Prefix(t *testing.T) {
	t.Parallel()

	r := GET("/users/{id}").Prefix("/api/v1/").Handler("h").MustBuild()
	assert.Equal(t, "/api/v1/users/{id}", r.Pattern())
}

func TestRoute_URL(t *testing.T) {
	t.Parallel()

	r := GET("/posts/{id}/{slug?}").Handler("h").MustBuild()

	url, err := r.URL(map[string]string{"id": "5", "slug": "hello world"})
	require.NoError(t, err)
	assert.Equal(t, "/posts/5/hello%20world", url)

	url, err = r.URL(map[string]string{"id": "5"})
	require.NoError(t, err)
	assert.Equal(t, "/posts/5", url)

	_, err = r.URL(nil)
	require.ErrorIs(t, err, compiler.ErrMissingParameter)
}

func TestRoute_Immutable(t *testing.T) {
	t.Parallel()

	r := GET("/x").OnRouteMatched("a").Dependencies("db").Handler("h").MustBuild()

	r.Methods()[0] = "DELETE"
	r.Stages().RouteMatched[0] = "b"
	r.Target().Dependencies[0] = "cache"

	assert.True(t, r.AllowsMethod(http.MethodGet))
	assert.False(t, r.AllowsMethod(http.MethodDelete))
	assert.Equal(t, []string{"a"}, r.Stages().RouteMatched)
	assert.Equal(t, []string{"db"}, r.Target().Dependencies)
}

func TestMatch_Accessors(t *testing.T) {
	t.Parallel()

	r := GET("/posts/{id}/{slug?}").WhereInt("id").Handler("h").MustBuild()

	m, ok := NewMatch(r, "/posts/7")
	require.True(t, ok)
	assert.Same(t, r, m.Route)

	v, ok := m.Param("id")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.Equal(t, "7", m.Captured("id"))

	v, ok = m.Param("slug")
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Empty(t, m.Captured("slug"))

	_, ok = NewMatch(r, "/posts/x")
	assert.False(t, ok)
}

func TestData_RoundTrip(t *testing.T) {
	t.Parallel()

	orig := GET("/posts/{id}/{slug?}").
		Name("posts.show").
		Methods(http.MethodPost).
		WhereInt("id").
		Default("slug", "index").
		Secure().
		OnSendingResponse("cors").
		Handler("posts.Show").
		MustBuild()

	restored, err := FromData(orig.Data())
	require.NoError(t, err)

	assert.Equal(t, orig.Data(), restored.Data())
	for _, path := range []string{"/posts/1", "/posts/1/hi", "/posts/a", "/posts"} {
		want, wantOK := NewMatch(orig, path)
		got, gotOK := NewMatch(restored, path)
		require.Equal(t, wantOK, gotOK, path)
		if wantOK {
			assert.Equal(t, want.Params, got.Params, path)
			assert.Equal(t, want.Raw, got.Raw, path)
		}
	}
}

func TestFromData_Errors(t *testing.T) {
	t.Parallel()

	valid := GET("/users/{id}").Handler("h").MustBuild().Data()

	tests := []struct {
		name    string
		mutate  func(d *Data)
		wantErr error
	}{
		{name: "no methods", mutate: func(d *Data) { d.Methods = nil }, wantErr: ErrNoMethods},
		{name: "no handler", mutate: func(d *Data) { d.Target.Handler = "" }, wantErr: ErrNoHandler},
		{name: "broken regex", mutate: func(d *Data) { d.Regex = "^(" }, wantErr: compiler.ErrInvalidPattern},
		{name: "dynamic flag mismatch", mutate: func(d *Data) { d.Dynamic = false }, wantErr: compiler.ErrInvalidPattern},
		{name: "parameter list mismatch", mutate: func(d *Data) { d.Parameters = nil }, wantErr: compiler.ErrInvalidPattern},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := valid
			d.Methods = append([]string(nil), valid.Methods...)
			d.Parameters = append([]compiler.Parameter(nil), valid.Parameters...)
			tt.mutate(&d)

			_, err := FromData(d)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
