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
	"io"

	"github.com/fatih/color"
)

// Exit codes used by the console.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitInvalidInput = 2
	ExitNotFound     = 127
)

// Output is the result of a command.
type Output struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// NewOutput creates an output.
func NewOutput(code int, stdout, stderr string) *Output {
	return &Output{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

// Success creates an output with exit code 0.
func Success(stdout string) *Output {
	return &Output{Stdout: stdout}
}

// Failure creates an output that reports stderr with the given exit code.
func Failure(code int, stderr string) *Output {
	return &Output{ExitCode: code, Stderr: stderr}
}

// Clone returns a copy of the output.
func (o *Output) Clone() *Output {
	out := *o
	return &out
}

// Write copies the output streams to w and errw.
func (o *Output) Write(w, errw io.Writer) error {
	return o.write(w, errw, nil)
}

func (o *Output) write(w, errw io.Writer, errColor *color.Color) error {
	if o.Stdout != "" {
		if _, err := io.WriteString(w, o.Stdout); err != nil {
			return err
		}
	}
	if o.Stderr == "" {
		return nil
	}
	if errColor != nil {
		_, err := errColor.Fprint(errw, o.Stderr)
		return err
	}
	_, err := io.WriteString(errw, o.Stderr)
	return err
}
