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

package cache

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"rivaas.dev/dispatch/codec"
	"rivaas.dev/dispatch/route"
)

// FormatVersion is the artifact layout version written by this package.
const FormatVersion = 1

// Sentinel errors.
var (
	ErrCorruptArtifact = errors.New("corrupt route cache artifact")
	ErrVersionMismatch = errors.New("route cache artifact version mismatch")
	ErrNotFound        = errors.New("route cache artifact not found")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Artifact is the portable form of a route and command collection.
type Artifact struct {
	Version  int                 `json:"version" yaml:"version" toml:"version" msgpack:"version"`
	Routes   []route.Data        `json:"routes,omitempty" yaml:"routes,omitempty" toml:"routes,omitempty" msgpack:"routes,omitempty" validate:"dive"`
	Commands []route.CommandData `json:"commands,omitempty" yaml:"commands,omitempty" toml:"commands,omitempty" msgpack:"commands,omitempty" validate:"dive"`
}

// Validate checks the version, every entry and name uniqueness.
func (a Artifact) Validate() error {
	if a.Version != FormatVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, a.Version, FormatVersion)
	}
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptArtifact, err)
	}

	seen := make(map[string]struct{}, len(a.Routes))
	for _, r := range a.Routes {
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: duplicate route name %q", ErrCorruptArtifact, r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	seen = make(map[string]struct{}, len(a.Commands))
	for _, c := range a.Commands {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: duplicate command name %q", ErrCorruptArtifact, c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	return nil
}

// Encode serializes a with the codec registered for typ.
func Encode(a Artifact, typ codec.Type) ([]byte, error) {
	enc, err := codec.GetEncoder(typ)
	if err != nil {
		return nil, err
	}

	data, err := enc.Encode(a)
	if err != nil {
		return nil, fmt.Errorf("encode route cache as %s: %w", typ, err)
	}
	return data, nil
}

// Decode parses and validates an artifact.
func Decode(data []byte, typ codec.Type) (Artifact, error) {
	dec, err := codec.GetDecoder(typ)
	if err != nil {
		return Artifact{}, err
	}
	if len(data) == 0 {
		return Artifact{}, fmt.Errorf("%w: empty %s document", ErrCorruptArtifact, typ)
	}

	var a Artifact
	if err := dec.Decode(data, &a); err != nil {
		return Artifact{}, fmt.Errorf("%w: decode %s: %w", ErrCorruptArtifact, typ, err)
	}
	if err := a.Validate(); err != nil {
		return Artifact{}, err
	}

	return a, nil
}
