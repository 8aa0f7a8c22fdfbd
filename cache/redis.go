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
	"time"

	"github.com/redis/go-redis/v9"

	"rivaas.dev/dispatch/codec"
)

// DefaultRedisKey is the key used when none is configured.
const DefaultRedisKey = "dispatch:routes"

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKey sets the key the artifact is stored under.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		s.key = key
	}
}

// WithCodec sets the codec used for the stored value. Defaults to MessagePack.
func WithCodec(typ codec.Type) RedisOption {
	return func(s *RedisStore) {
		s.typ = typ
	}
}

// WithTTL sets an expiration for the stored artifact. Zero keeps it forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// RedisStore shares one artifact between processes through Redis.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	typ    codec.Type
	ttl    time.Duration
}

// NewRedisStore creates a store on client.
//
// Example:
//
//	client, err := cache.OpenRedis(ctx, "redis://localhost:6379/0")
//	store := cache.NewRedisStore(client, cache.WithKey("shop:routes"))
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    DefaultRedisKey,
		typ:    codec.TypeMsgPack,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key.
func (s *RedisStore) Key() string { return s.key }

// Load fetches and decodes the artifact. A missing key wraps ErrNotFound.
func (s *RedisStore) Load(ctx context.Context) (Artifact, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Artifact{}, fmt.Errorf("%w: redis key %s", ErrNotFound, s.key)
		}
		return Artifact{}, fmt.Errorf("load route cache: %w", err)
	}

	return Decode(data, s.typ)
}

// Save encodes and stores a.
func (s *RedisStore) Save(ctx context.Context, a Artifact) error {
	data, err := Encode(a, s.typ)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save route cache: %w", err)
	}
	return nil
}

// OpenRedis connects to the Redis server at url and verifies the
// connection. Both redis:// and rediss:// URLs are supported.
func OpenRedis(ctx context.Context, url string) (redis.UniversalClient, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
