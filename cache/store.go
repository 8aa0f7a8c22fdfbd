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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rivaas.dev/dispatch/codec"
)

// Store persists artifacts.
type Store interface {
	Load(ctx context.Context) (Artifact, error)
	Save(ctx context.Context, a Artifact) error
}

// FileStore keeps the artifact in a single file. The codec is chosen by the
// file extension. Saves replace the file atomically.
type FileStore struct {
	path string
	typ  codec.Type
}

// NewFileStore creates a store for path.
func NewFileStore(path string) (*FileStore, error) {
	typ, err := codec.TypeFromPath(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{path: path, typ: typ}, nil
}

// NewFileStoreWithType creates a store for path using an explicit codec.
func NewFileStoreWithType(path string, typ codec.Type) *FileStore {
	return &FileStore{path: path, typ: typ}
}

// Path returns the file path.
func (s *FileStore) Path() string { return s.path }

// Load reads and decodes the artifact. A missing file wraps ErrNotFound.
func (s *FileStore) Load(_ context.Context) (Artifact, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, fmt.Errorf("%w: %s", ErrNotFound, s.path)
		}
		return Artifact{}, fmt.Errorf("read route cache: %w", err)
	}

	a, err := Decode(data, s.typ)
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", s.path, err)
	}
	return a, nil
}

// Save encodes a into a temporary file next to the target and renames it
// into place, so readers never observe a partial artifact.
func (s *FileStore) Save(_ context.Context, a Artifact) error {
	data, err := Encode(a, s.typ)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create route cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create route cache temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write route cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write route cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace route cache: %w", err)
	}

	return nil
}
