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

package console

import (
	"errors"
	"fmt"

	"rivaas.dev/dispatch/middleware"
)

var (
	// ErrInvalidOutput is returned when a command's result is not a
	// non-nil *Output.
	ErrInvalidOutput = errors.New("all commands must return an output")

	// ErrMiddlewareNotFound is returned when a middleware identifier cannot
	// be resolved from the container.
	ErrMiddlewareNotFound = middleware.ErrNotFound

	// ErrNotMiddleware is returned when a container service implements no
	// stage interface.
	ErrNotMiddleware = middleware.ErrNotMiddleware

	// ErrNoDispatcher is returned by New without a dispatcher.
	ErrNoDispatcher = errors.New("no dispatcher configured")

	// ErrNilCollection is returned by New with a nil command collection.
	ErrNilCollection = errors.New("command collection is nil")
)

// OutputError is a failure that carries the output to report.
//
//	return nil, console.NewOutputError(console.Failure(3, "lock held\n"), err)
type OutputError struct {
	Output *Output
	Err    error
}

// NewOutputError creates an OutputError.
func NewOutputError(out *Output, err error) *OutputError {
	return &OutputError{Output: out, Err: err}
}

func (e *OutputError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("command failed with exit code %d", e.ExitCode())
}

func (e *OutputError) Unwrap() error { return e.Err }

// ExitCode returns the exit code of the carried output.
func (e *OutputError) ExitCode() int {
	if e.Output == nil {
		return ExitFailure
	}
	return e.Output.ExitCode
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
