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
	"net/http"
	"strconv"
)

// Content types used by the constructors in this package.
const (
	ContentTypeText    = "text/plain; charset=utf-8"
	ContentTypeJSON    = "application/json; charset=utf-8"
	ContentTypeProblem = "application/problem+json; charset=utf-8"
)

// Response is an outbound HTTP response.
// It is a value produced by dispatch targets and middleware; nothing is
// written to the network until [Response.Write] is called.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New creates a response with the given status and raw body.
func New(status int, body []byte) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
		Body:   body,
	}
}

// Text creates a plain text response.
func Text(status int, body string) *Response {
	res := New(status, []byte(body))
	res.Header.Set("Content-Type", ContentTypeText)
	return res
}

// JSON creates a JSON response from v.
// If v cannot be marshaled, a 500 text response describing the failure is returned.
func JSON(status int, v any) *Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Text(http.StatusInternalServerError, "failed to encode response: "+err.Error())
	}

	res := New(status, body)
	res.Header.Set("Content-Type", ContentTypeJSON)
	return res
}

// NoContent creates an empty 204 response.
func NoContent() *Response {
	return New(http.StatusNoContent, nil)
}

// Redirect creates a redirect response to location.
func Redirect(status int, location string) *Response {
	res := New(status, nil)
	res.Header.Set("Location", location)
	return res
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Clone returns a deep copy of the response.
func (r *Response) Clone() *Response {
	out := &Response{
		Status: r.Status,
		Header: r.Header.Clone(),
	}
	if r.Body != nil {
		out.Body = append([]byte(nil), r.Body...)
	}
	if out.Header == nil {
		out.Header = make(http.Header)
	}
	return out
}

// Write sends the response to w. The body is omitted for HEAD requests and
// for statuses that do not permit one.
func (r *Response) Write(w http.ResponseWriter, req *http.Request) error {
	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}

	h := w.Header()
	for k, v := range r.Header {
		h[k] = v
	}

	if !bodyAllowed(status) || (req != nil && req.Method == http.MethodHead) {
		if bodyAllowed(status) && len(r.Body) > 0 {
			h.Set("Content-Length", strconv.Itoa(len(r.Body)))
		}
		w.WriteHeader(status)
		return nil
	}

	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(status)
	_, err := w.Write(r.Body)
	return err
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
