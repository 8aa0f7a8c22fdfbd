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

package message

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codedError struct {
	msg    string
	code   string
	status int
}

func (e *codedError) Error() string   { return e.msg }
func (e *codedError) Code() string    { return e.code }
func (e *codedError) HTTPStatus() int { return e.status }

func TestResponse_Constructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		res         *Response
		wantStatus  int
		wantType    string
		wantBody    string
		wantHeaders map[string]string
	}{
		{
			name:       "text",
			res:        Text(http.StatusOK, "hello"),
			wantStatus: http.StatusOK,
			wantType:   ContentTypeText,
			wantBody:   "hello",
		},
		{
			name:       "json",
			res:        JSON(http.StatusCreated, map[string]int{"id": 42}),
			wantStatus: http.StatusCreated,
			wantType:   ContentTypeJSON,
			wantBody:   `{"id":42}`,
		},
		{
			name:       "json encode failure",
			res:        JSON(http.StatusOK, make(chan int)),
			wantStatus: http.StatusInternalServerError,
			wantType:   ContentTypeText,
		},
		{
			name:        "redirect",
			res:         Redirect(http.StatusFound, "/login"),
			wantStatus:  http.StatusFound,
			wantHeaders: map[string]string{"Location": "/login"},
		},
		{
			name:       "no content",
			res:        NoContent(),
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.wantStatus, tt.res.Status)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, tt.res.Header.Get("Content-Type"))
			}
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(tt.res.Body))
			}
			for k, v := range tt.wantHeaders {
				assert.Equal(t, v, tt.res.Header.Get(k))
			}
		})
	}
}

func TestResponse_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes status headers and body", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		res := Text(http.StatusAccepted, "queued").WithHeader("X-Job", "7")

		require.NoError(t, res.Write(rec, req))

		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "queued", rec.Body.String())
		assert.Equal(t, "7", rec.Header().Get("X-Job"))
		assert.Equal(t, "6", rec.Header().Get("Content-Length"))
	})

	t.Run("omits body for HEAD", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodHead, "/", nil)

		require.NoError(t, Text(http.StatusOK, "hello").Write(rec, req))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "5", rec.Header().Get("Content-Length"))
	})

	t.Run("zero status defaults to 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		require.NoError(t, (&Response{}).Write(rec, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestResponse_Clone(t *testing.T) {
	t.Parallel()

	orig := Text(http.StatusOK, "a")
	clone := orig.Clone()
	clone.Body[0] = 'b'
	clone.Header.Set("X-New", "1")

	assert.Equal(t, "a", string(orig.Body))
	assert.Empty(t, orig.Header.Get("X-New"))
}

func TestRFC9457_Format(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/widgets/1", nil)

	tests := []struct {
		name       string
		formatter  *RFC9457
		err        error
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name:       "plain error",
			formatter:  NewRFC9457("https://api.example.com/problems"),
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "about:blank",
			wantDetail: "boom",
		},
		{
			name:       "status and code",
			formatter:  NewRFC9457("https://api.example.com/problems/"),
			err:        &codedError{msg: "bad input", code: "invalid_input", status: http.StatusBadRequest},
			wantStatus: http.StatusBadRequest,
			wantType:   "https://api.example.com/problems/invalid_input",
			wantDetail: "bad input",
		},
		{
			name:       "with status wrapper",
			formatter:  NewRFC9457(""),
			err:        WithStatus(errors.New("gone"), http.StatusGone),
			wantStatus: http.StatusGone,
			wantType:   "about:blank",
			wantDetail: "gone",
		},
		{
			name:       "masked server error",
			formatter:  &RFC9457{MaskServerErrors: true},
			err:        errors.New("db password leaked"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "about:blank",
			wantDetail: "Internal Server Error",
		},
		{
			name: "custom status resolver",
			formatter: &RFC9457{
				StatusResolver: func(error) int { return http.StatusTeapot },
			},
			err:        errors.New("tea"),
			wantStatus: http.StatusTeapot,
			wantType:   "about:blank",
			wantDetail: "tea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := tt.formatter.Format(req, tt.err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Equal(t, ContentTypeProblem, res.Header.Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(res.Body, &body))
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantDetail, body["detail"])
			assert.Equal(t, "/widgets/1", body["instance"])
			assert.InDelta(t, float64(tt.wantStatus), body["status"], 0)
			assert.NotEmpty(t, body["error_id"])
		})
	}
}

func TestRFC9457_Extensions(t *testing.T) {
	t.Parallel()

	f := &RFC9457{
		DisableErrorID: true,
	}
	res := f.Format(nil, &codedError{msg: "x", code: "c", status: http.StatusConflict})

	var body map[string]any
	require.NoError(t, json.Unmarshal(res.Body, &body))
	assert.Equal(t, "c", body["code"])
	assert.NotContains(t, body, "error_id")
	assert.NotContains(t, body, "instance")
}

func TestProblemDetail_ReservedExtensions(t *testing.T) {
	t.Parallel()

	p := ProblemDetail{
		Type:   "about:blank",
		Title:  "Not Found",
		Status: http.StatusNotFound,
		Extensions: map[string]any{
			"status": 200,
			"hint":   "check the id",
		},
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.InDelta(t, float64(http.StatusNotFound), body["status"], 0)
	assert.Equal(t, "check the id", body["hint"])
}
