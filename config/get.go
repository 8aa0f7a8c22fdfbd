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
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Get returns the value at a dot separated, case-insensitive key, or nil.
// A key containing dots that exists verbatim at the top level wins over
// nested traversal.
func (c *Config) Get(key string) any {
	if c == nil || key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	key = strings.ToLower(key)
	if v, ok := c.values[key]; ok {
		return v
	}

	var current any = c.values
	for segment := range strings.SplitSeq(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[segment]; !ok {
			return nil
		}
	}
	return current
}

// Has reports whether key resolves to a value.
func (c *Config) Has(key string) bool { return c.Get(key) != nil }

// String returns the value at key converted with spf13/cast. The other
// typed getters behave the same way and return the zero value for a
// missing key.
func (c *Config) String(key string) string { return cast.ToString(c.Get(key)) }

func (c *Config) Int(key string) int { return cast.ToInt(c.Get(key)) }

func (c *Config) Bool(key string) bool { return cast.ToBool(c.Get(key)) }

func (c *Config) Duration(key string) time.Duration { return cast.ToDuration(c.Get(key)) }

func (c *Config) StringSlice(key string) []string { return cast.ToStringSlice(c.Get(key)) }

func (c *Config) StringMap(key string) map[string]any { return cast.ToStringMap(c.Get(key)) }

// StringOr returns the value at key, or def when the key is missing.
func (c *Config) StringOr(key, def string) string {
	if v := c.Get(key); v != nil {
		return cast.ToString(v)
	}
	return def
}

// IntOr returns the value at key, or def when the key is missing.
func (c *Config) IntOr(key string, def int) int {
	if v := c.Get(key); v != nil {
		return cast.ToInt(v)
	}
	return def
}

// BoolOr returns the value at key, or def when the key is missing.
func (c *Config) BoolOr(key string, def bool) bool {
	if v := c.Get(key); v != nil {
		return cast.ToBool(v)
	}
	return def
}

// DurationOr returns the value at key, or def when the key is missing.
func (c *Config) DurationOr(key string, def time.Duration) time.Duration {
	if v := c.Get(key); v != nil {
		return cast.ToDuration(v)
	}
	return def
}
