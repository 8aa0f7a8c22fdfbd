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

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/collector"
)

var errNoCache = errors.New("no route cache configured: pass --dir or set cache.path or cache.redis")

type tables struct {
	routes   *collection.Collection
	commands *collection.Commands
}

func (t *tables) freeze() {
	t.routes.Freeze()
	t.commands.Freeze()
}

func (t *tables) artifact() cache.Artifact {
	a := t.routes.Export()
	t.commands.ExportTo(&a)
	return a
}

// load scans --dir when given and reads the configured cache otherwise.
func (p *program) load(c *cli.Context) (*tables, error) {
	if dirs := c.StringSlice("dir"); len(dirs) > 0 {
		return scan(dirs, collectorOptions(c)...)
	}

	store, where, closeFn, err := p.store(c.Context)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	a, err := store.Load(c.Context)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", where, err)
	}
	p.logger.Debug("route cache loaded", "from", where, "routes", len(a.Routes), "commands", len(a.Commands))

	return fromArtifact(a)
}

func collectorOptions(c *cli.Context) []collector.Option {
	opts := []collector.Option{collector.WithTests(c.Bool("tests"))}
	if pkg := c.String("package"); pkg != "" {
		opts = append(opts, collector.WithPackageName(pkg))
	}
	return opts
}

func scan(dirs []string, opts ...collector.Option) (*tables, error) {
	col := collector.New(opts...)
	t := &tables{routes: collection.New(), commands: collection.NewCommands()}

	var mErr *multierror.Error
	for _, dir := range dirs {
		res, err := col.ParseDir(dir)
		if err != nil {
			mErr = multierror.Append(mErr, err)
			continue
		}
		if err := res.Register(t.routes, t.commands); err != nil {
			mErr = multierror.Append(mErr, fmt.Errorf("%s: %w", dir, err))
		}
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return nil, err
	}

	t.freeze()
	return t, nil
}

func fromArtifact(a cache.Artifact) (*tables, error) {
	routes, err := collection.FromArtifact(a)
	if err != nil {
		return nil, err
	}
	commands, err := collection.CommandsFromArtifact(a)
	if err != nil {
		return nil, err
	}
	return &tables{routes: routes, commands: commands}, nil
}

// store opens the configured cache. Redis wins over a file path.
func (p *program) store(ctx context.Context) (cache.Store, string, func(), error) {
	cs := p.settings.Cache

	switch {
	case cs.Redis != "":
		client, err := cache.OpenRedis(ctx, cs.Redis)
		if err != nil {
			return nil, "", nil, err
		}
		store := cache.NewRedisStore(client,
			cache.WithKey(cs.Key),
			cache.WithCodec(cs.CodecType()),
			cache.WithTTL(cs.TTL),
		)
		return store, "redis key " + store.Key(), func() { _ = client.Close() }, nil
	case cs.Path != "":
		store := cache.NewFileStoreWithType(cs.Path, cs.CodecType())
		return store, store.Path(), func() {}, nil
	default:
		return nil, "", nil, errNoCache
	}
}
