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
	"strings"

	"github.com/google/uuid"
)

// Formatter converts an error into a response.
// The router uses one to build the default error response that the
// throwable-caught chain starts from.
type Formatter interface {
	Format(req *http.Request, err error) *Response
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	type ValidationError struct{ Message string }
//
//	func (e ValidationError) Error() string   { return e.Message }
//	func (e ValidationError) HTTPStatus() int { return http.StatusBadRequest }
type ErrorType interface {
	error
	HTTPStatus() int
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	Code() string
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	Details() any
}

// WithStatus wraps an error with an explicit HTTP status code.
// If err is nil, the status text for the given status code is used as the error message.
//
// Example:
//
//	return nil, message.WithStatus(err, http.StatusConflict)
func WithStatus(err error, status int) error {
	return &statusError{err: err, status: status}
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string {
	if e.err == nil {
		return http.StatusText(e.status)
	}
	return e.err.Error()
}

func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// ProblemDetail represents an RFC 9457 problem detail.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// MarshalJSON merges extension members into the top-level object.
// Reserved member names cannot be overridden by extensions.
func (p ProblemDetail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   p.Type,
		"title":  p.Title,
		"status": p.Status,
	}
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	if p.Instance != "" {
		m["instance"] = p.Instance
	}
	for k, v := range p.Extensions {
		switch k {
		case "type", "title", "status", "detail", "instance":
		default:
			m[k] = v
		}
	}

	return json.Marshal(m)
}

// Problem creates an application/problem+json response from p.
func Problem(p ProblemDetail) *Response {
	res := JSON(p.Status, p)
	res.Header.Set("Content-Type", ContentTypeProblem)
	return res
}

// RFC9457 formats errors as RFC 9457 Problem Details.
type RFC9457 struct {
	// BaseURL is prepended to problem type slugs to create full URIs.
	BaseURL string

	// TypeResolver maps errors to problem type URIs.
	// If nil, the ErrorCode interface is used, falling back to "about:blank".
	TypeResolver func(err error) string

	// StatusResolver determines the status for an error.
	// If nil, the ErrorType interface is used, falling back to 500.
	StatusResolver func(err error) int

	// ErrorIDGenerator generates unique IDs for error tracking.
	// If nil, a random UUID is used.
	ErrorIDGenerator func() string

	// DisableErrorID disables the "error_id" extension member.
	DisableErrorID bool

	// MaskServerErrors replaces the detail of 5xx problems with the status
	// text so internal error messages never reach the client.
	MaskServerErrors bool
}

// NewRFC9457 creates a new RFC9457 formatter.
func NewRFC9457(baseURL string) *RFC9457 {
	return &RFC9457{BaseURL: baseURL}
}

// Format converts err into a problem details response.
func (f *RFC9457) Format(req *http.Request, err error) *Response {
	status := f.determineStatus(err)

	p := ProblemDetail{
		Type:       f.determineType(err),
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     err.Error(),
		Extensions: make(map[string]any),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.Path
	}
	if f.MaskServerErrors && status >= http.StatusInternalServerError {
		p.Detail = http.StatusText(status)
	}

	if !f.DisableErrorID {
		if f.ErrorIDGenerator != nil {
			p.Extensions["error_id"] = f.ErrorIDGenerator()
		} else {
			p.Extensions["error_id"] = uuid.NewString()
		}
	}

	var detailed ErrorDetails
	if errors.As(err, &detailed) {
		p.Extensions["errors"] = detailed.Details()
	}

	var coded ErrorCode
	if errors.As(err, &coded) {
		p.Extensions["code"] = coded.Code()
	}

	return Problem(p)
}

func (f *RFC9457) determineStatus(err error) int {
	if f.StatusResolver != nil {
		return f.StatusResolver(err)
	}

	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}

	return http.StatusInternalServerError
}

func (f *RFC9457) determineType(err error) string {
	if f.TypeResolver != nil {
		return f.TypeResolver(err)
	}

	var coded ErrorCode
	if errors.As(err, &coded) && f.BaseURL != "" {
		return strings.TrimRight(f.BaseURL, "/") + "/" + coded.Code()
	}

	return "about:blank"
}
