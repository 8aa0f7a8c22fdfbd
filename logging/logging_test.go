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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(
		WithOutput(&buf),
		WithServiceName("widgets"),
		WithServiceVersion("1.2.3"),
		WithEnvironment("test"),
	)
	require.NoError(t, err)

	logger.Info("route matched", "route", "widgets.show", "password", "hunter2")
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "route matched", entry["msg"])
	assert.Equal(t, "widgets", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, "test", entry["env"])
	assert.Equal(t, "widgets.show", entry["route"])
	assert.Equal(t, redacted, entry["password"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(
		WithOutput(&buf),
		WithHandlerType(TextHandler),
		WithLevel(LevelDebug),
		WithReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "method" {
				a.Value = slog.StringValue("VERB")
			}
			return a
		}),
	)

	logger.Debug("matching", "method", "GET", "token", "abc")
	assert.Contains(t, buf.String(), "msg=matching")
	assert.Contains(t, buf.String(), "method=VERB")
	assert.Contains(t, buf.String(), "token="+redacted)
}

func TestNew_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithOutput(&buf), WithHandlerType(ConsoleHandler))

	logger.WithGroup("req").With("id", 7).Warn("slow dispatch", "route", "widgets.show", "secret", "x")
	out := buf.String()

	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "slow dispatch")
	assert.Contains(t, out, "req.id=")
	assert.Contains(t, out, "req.route=")
	assert.Contains(t, out, "widgets.show")
	assert.Contains(t, out, redacted)
	assert.NotContains(t, out, "=x")
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(WithHandlerType("xml"))
	require.ErrorIs(t, err, ErrInvalidHandler)

	_, err = New(WithOutput(nil))
	require.ErrorIs(t, err, ErrNilOutput)

	assert.Panics(t, func() { MustNew(WithHandlerType("xml")) })
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: " INFO ", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: "warning", want: LevelWarn},
		{in: "error", want: LevelError},
		{in: "loud", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLevel)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := MustNew(WithOutput(&buf))

	assert.Same(t, base, FromContext(context.Background(), base))

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "request")
	defer span.End()

	FromContext(ctx, base).Info("dispatched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, span.SpanContext().TraceID().String(), entry[fieldTraceID])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry[fieldSpanID])
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	assert.False(t, Discard().Enabled(context.Background(), LevelError))
}
