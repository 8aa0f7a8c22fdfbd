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

package config

import (
	"context"
	"errors"
	"time"

	"rivaas.dev/dispatch/codec"
)

// EnvPrefix is the environment variable prefix read by [LoadSettings].
const EnvPrefix = "DISPATCH_"

// Settings are the options understood by the dispatch command. Every field
// can be set from a file or from DISPATCH_ prefixed environment variables,
// e.g. DISPATCH_CACHE_FORMAT=yaml.
type Settings struct {
	Debug bool          `config:"debug"`
	Log   LogSettings   `config:"log"`
	HTTP  HTTPSettings  `config:"http"`
	Cache CacheSettings `config:"cache"`
}

type LogSettings struct {
	Level  string `config:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `config:"format" default:"console" validate:"oneof=json text console"`
}

type HTTPSettings struct {
	Addr    string        `config:"addr" default:":8080" validate:"required"`
	Timeout time.Duration `config:"timeout" default:"5s" validate:"gte=0"`
}

// CacheSettings locate the compiled route artifact. Path and Redis are
// alternatives; Redis wins when both are set.
type CacheSettings struct {
	Path   string        `config:"path"`
	Format string        `config:"format" validate:"omitempty,oneof=json yaml toml msgpack"`
	Redis  string        `config:"redis" validate:"omitempty,url"`
	Key    string        `config:"key" default:"dispatch:routes" validate:"required"`
	TTL    time.Duration `config:"ttl" validate:"gte=0"`
}

// ErrCacheFormatMismatch is returned when the cache path extension names a
// different codec than cache.format.
var ErrCacheFormatMismatch = errors.New("cache.path extension does not match cache.format")

// Validate checks constraints spanning several fields.
func (s *Settings) Validate() error {
	if s.Cache.Path == "" || s.Cache.Format == "" {
		return nil
	}
	typ, err := codec.TypeFromPath(s.Cache.Path)
	if err != nil {
		return err
	}
	if typ != codec.Type(s.Cache.Format) {
		return ErrCacheFormatMismatch
	}
	return nil
}

// CodecType returns the artifact codec: cache.format when set, else the
// codec implied by cache.path, else JSON.
func (c CacheSettings) CodecType() codec.Type {
	if c.Format != "" {
		return codec.Type(c.Format)
	}
	if c.Path != "" {
		if typ, err := codec.TypeFromPath(c.Path); err == nil {
			return typ
		}
	}
	return codec.TypeJSON
}

// LoadSettings is a convenience wrapper that reads the optional file at path and
// the DISPATCH_ environment into a Settings value.
func LoadSettings(ctx context.Context, path string) (*Settings, error) {
	var s Settings
	opts := make([]Option, 0, 3)
	if path != "" {
		opts = append(opts, WithFile(path))
	}
	opts = append(opts, WithEnv(EnvPrefix), WithBinding(&s))

	cfg, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Load(ctx); err != nil {
		return nil, err
	}
	return &s, nil
}
