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

package router

import (
	"errors"
	"fmt"
	"net/http"

	"rivaas.dev/dispatch/message"
	"rivaas.dev/dispatch/middleware"
)

var (
	// ErrInvalidResponse is returned when a handler's result is not a
	// non-nil *message.Response.
	ErrInvalidResponse = errors.New("handler did not return a *message.Response")

	// ErrMiddlewareNotFound is returned when a middleware identifier cannot
	// be resolved from the container.
	ErrMiddlewareNotFound = middleware.ErrNotFound

	// ErrNotMiddleware is returned when a container service implements no
	// stage interface.
	ErrNotMiddleware = middleware.ErrNotMiddleware

	// ErrNoDispatcher is returned by New without a dispatcher.
	ErrNoDispatcher = errors.New("no dispatcher configured")

	// ErrNilCollection is returned by New with a nil collection.
	ErrNilCollection = errors.New("route collection is nil")

	// ErrRouteNotFound is returned by URL for an unknown route name.
	ErrRouteNotFound = errors.New("route not found")
)

// HTTPError is a failure that carries the response to send. The
// throwable-caught chain starts from that response instead of a problem
// document.
//
//	return nil, router.NewHTTPError(message.Text(http.StatusTeapot, "short and stout"), nil)
type HTTPError struct {
	Response *message.Response
	Err      error
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(res *message.Response, err error) *HTTPError {
	return &HTTPError{Response: res, Err: err}
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.HTTPStatus())
}

func (e *HTTPError) Unwrap() error { return e.Err }

// HTTPStatus returns the response status.
func (e *HTTPError) HTTPStatus() int {
	if e.Response == nil {
		return http.StatusInternalServerError
	}
	return e.Response.Status
}

// PanicError wraps a value recovered from a panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
