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

// Package codec encodes and decodes the documents this module reads and
// writes: route cache artifacts and configuration files.
//
// Codecs are registered by [Type] and looked up with [GetEncoder] and
// [GetDecoder]. JSON, YAML, TOML and MessagePack are registered by default;
// the env codec decodes KEY=value lines into a nested map.
package codec

import (
	"errors"
	"path/filepath"
	"strings"
)

// Type represents a codec type identifier.
type Type string

// ErrUnknownType is returned for an unregistered codec type.
var ErrUnknownType = errors.New("unknown codec type")

// Encoder converts Go values into encoded byte representations.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded byte representations into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	Decode(data []byte, v any) error
}

// Codec is both an Encoder and a Decoder.
type Codec interface {
	Encoder
	Decoder
}

// TypeFromPath picks a codec type from a file extension.
// ".yml" maps to YAML and ".msgpack"/".mp" to MessagePack.
func TypeFromPath(path string) (Type, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "json":
		return TypeJSON, nil
	case "yaml", "yml":
		return TypeYAML, nil
	case "toml":
		return TypeTOML, nil
	case "msgpack", "mp":
		return TypeMsgPack, nil
	default:
		return "", &TypeError{Type: Type(ext), Path: path}
	}
}

// TypeError reports a codec type that cannot be resolved.
type TypeError struct {
	Type Type
	Path string
}

func (e *TypeError) Error() string {
	if e.Path != "" {
		return "codec: no codec for " + e.Path + " (extension " + string(e.Type) + ")"
	}
	return "codec: no codec registered for type " + string(e.Type)
}

func (e *TypeError) Unwrap() error { return ErrUnknownType }
