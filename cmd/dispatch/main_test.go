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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/logging"
)

const widgetsDir = "testdata/widgets"

func dispatchCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = run(context.Background(), append([]string{"dispatch"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	code, out, stderr := dispatchCLI(t, "routes", "--dir", widgetsDir)
	require.Equal(t, 0, code, stderr)

	for _, want := range []string{"Name", "widgets.show", "GET,HEAD", `/widgets/{id:\d+}`, "widgets.Show", "widgets.create", "yes", "health"} {
		assert.Contains(t, out, want)
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	code, out, stderr := dispatchCLI(t, "commands", "--dir", widgetsDir, "--package", "shop")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "make:widget")
	assert.Contains(t, out, "shop.Make")
	assert.Contains(t, out, "Create a widget")
}

func TestMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
		want []string
	}{
		{"found", []string{"/widgets/42?full=1"}, 0, []string{"found widgets.show", "handler: widgets.Show", "id = 42"}},
		{"explicit method", []string{"head", "/health"}, 0, []string{"found health"}},
		{"not found", []string{"/nope"}, 1, []string{"not_found: GET /nope"}},
		{"method not allowed", []string{"DELETE", "/widgets"}, 1, []string{"method_not_allowed: allowed POST"}},
		{"insecure", []string{"POST", "/widgets"}, 1, []string{"insecure: widgets.create requires a secure scheme"}},
		{"secure", []string{"--secure", "POST", "/widgets"}, 0, []string{"found widgets.create"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"match", "--dir", widgetsDir}, tt.args...)
			code, out, _ := dispatchCLI(t, args...)
			assert.Equal(t, tt.code, code)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestMatch_Usage(t *testing.T) {
	t.Parallel()

	code, _, stderr := dispatchCLI(t, "match", "--dir", widgetsDir)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "expected [METHOD] PATH")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
		want []string
	}{
		{"found", []string{"make:widget", "gizmo", "-f"}, 0, []string{"found make:widget", "handler: widgets.Make", "name = gizmo", "kind = plain", "force = true"}},
		{"unknown", []string{"destroy"}, 1, []string{`not_found: "destroy"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			args := append([]string{"resolve", "--dir", widgetsDir, "--"}, tt.args...)
			code, out, _ := dispatchCLI(t, args...)
			assert.Equal(t, tt.code, code)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestCache_BuildThenRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "routes.yaml")

	code, stdout, stderr := dispatchCLI(t, "cache", "build", "--dir", widgetsDir, "--out", out)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Wrote 3 routes and 1 commands to "+out)

	a, err := cache.NewFileStoreWithType(out, "yaml").Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, a.Routes, 3)
	assert.Len(t, a.Commands, 1)

	settings := filepath.Join(dir, "dispatch.toml")
	require.NoError(t, os.WriteFile(settings, []byte("[cache]\npath = \""+filepath.ToSlash(out)+"\"\n"), 0o600))

	code, stdout, stderr = dispatchCLI(t, "--config", settings, "match", "/widgets/7")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "id = 7")

	code, stdout, stderr = dispatchCLI(t, "--config", settings, "cache", "show")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "widgets.create")
	assert.Contains(t, stdout, "make:widget")
}

func TestCache_Errors(t *testing.T) {
	t.Parallel()

	code, _, stderr := dispatchCLI(t, "cache", "build", "--out", "routes.json")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "at least one --dir is required")

	code, _, stderr = dispatchCLI(t, "routes")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, errNoCache.Error())

	code, _, stderr = dispatchCLI(t, "routes", "--dir", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, stderr)
}

func TestSettingsErrors(t *testing.T) {
	t.Parallel()

	bad := filepath.Join(t.TempDir(), "dispatch.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"log": {"level": "loud"}}`), 0o600))

	code, _, stderr := dispatchCLI(t, "--config", bad, "routes", "--dir", widgetsDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Settings.Log.Level")

	code, _, stderr = dispatchCLI(t, "--log-format", "xml", "routes", "--dir", widgetsDir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid handler type")
}

func TestServer(t *testing.T) {
	t.Parallel()

	tbl, err := scan([]string{widgetsDir})
	require.NoError(t, err)

	h, err := newServer(tbl, logging.Discard(), false)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + "/widgets/42")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got description
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, "widgets.show", got.Route)
	assert.Equal(t, "widgets.Show", got.Handler)
	assert.Equal(t, []string{"db"}, got.Dependencies)
	assert.InDelta(t, 42, got.Params["id"], 0)

	res, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	_ = res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, err = http.Get(srv.URL + MetricsPath)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `dispatch_matches_total{outcome="found",transport="http"} 1`)
}

func TestServer_SecureRouteStubs(t *testing.T) {
	t.Parallel()

	tbl, err := scan([]string{widgetsDir})
	require.NoError(t, err)
	h, err := newServer(tbl, logging.Discard(), false)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "https://example.com/widgets", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"route":"widgets.create"`)
}
