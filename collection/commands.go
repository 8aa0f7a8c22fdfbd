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

package collection

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"rivaas.dev/dispatch/cache"
	"rivaas.dev/dispatch/route"
)

// Commands is an indexed store of CLI command descriptors. Static commands
// are keyed by their full template, so "cache clear" is found from the
// tokens ["cache", "clear"].
type Commands struct {
	mu      sync.RWMutex
	frozen  bool
	names   map[string]*route.Command
	all     []*route.Command
	static  map[string]*route.Command
	dynamic []*route.Command
	// byHead holds static commands by first word, longest template first.
	byHead map[string][]*route.Command
	// maxStaticTokens is the longest static template, in tokens.
	maxStaticTokens int
}

// NewCommands creates an empty command collection.
func NewCommands() *Commands {
	return &Commands{
		names:  make(map[string]*route.Command),
		static: make(map[string]*route.Command),
		byHead: make(map[string][]*route.Command),
	}
}

// Register adds cmd to every index.
func (c *Commands) Register(cmd *route.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("register %q: %w", cmd.Name(), ErrFrozen)
	}
	if _, dup := c.names[cmd.Name()]; dup {
		return fmt.Errorf("register %q: %w", cmd.Name(), ErrDuplicateName)
	}
	if !cmd.IsDynamic() {
		if _, dup := c.static[cmd.Pattern()]; dup {
			return fmt.Errorf("register %q: %w: template %q", cmd.Name(), ErrDuplicateName, cmd.Pattern())
		}
	}

	c.names[cmd.Name()] = cmd
	c.all = append(c.all, cmd)
	if cmd.IsDynamic() {
		c.dynamic = append(c.dynamic, cmd)
	} else {
		words := strings.Fields(cmd.Pattern())
		c.static[cmd.Pattern()] = cmd
		c.maxStaticTokens = max(c.maxStaticTokens, len(words))

		if len(words) > 0 {
			head := append(c.byHead[words[0]], cmd)
			slices.SortStableFunc(head, func(a, b *route.Command) int {
				return len(strings.Fields(b.Pattern())) - len(strings.Fields(a.Pattern()))
			})
			c.byHead[words[0]] = head
		}
	}

	return nil
}

// Add builds b and registers the result.
func (c *Commands) Add(b *route.CommandBuilder) (*route.Command, error) {
	cmd, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := c.Register(cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

// MustAdd is like Add but panics on error.
func (c *Commands) MustAdd(b *route.CommandBuilder) *route.Command {
	cmd, err := c.Add(b)
	if err != nil {
		panic(err)
	}
	return cmd
}

// Freeze makes the collection read-only.
func (c *Commands) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Get returns the command named name, or nil.
func (c *Commands) Get(name string) *route.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[name]
}

// Has reports whether a command named name exists.
func (c *Commands) Has(name string) bool {
	return c.Get(name) != nil
}

// Static finds the static command whose template equals the longest prefix
// of tokens. It returns the command and the number of tokens it consumed.
func (c *Commands) Static(tokens []string) (*route.Command, int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for n := min(len(tokens), c.maxStaticTokens); n > 0; n-- {
		if cmd, ok := c.static[strings.Join(tokens[:n], " ")]; ok {
			return cmd, n
		}
	}
	return nil, 0
}

// StaticWithHead returns the static commands whose template starts with
// the word head, longest template first.
func (c *Commands) StaticWithHead(head string) []*route.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.byHead[head])
}

// AllDynamic returns the dynamic commands in registration order.
func (c *Commands) AllDynamic() []*route.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.dynamic)
}

// All returns every command in registration order.
func (c *Commands) All() []*route.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.all)
}

// Names returns every command name, sorted.
func (c *Commands) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.names))
	for name := range c.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of commands.
func (c *Commands) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// ExportTo adds every command to a, in registration order.
func (c *Commands) ExportTo(a *cache.Artifact) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cmd := range c.all {
		a.Commands = append(a.Commands, cmd.Data())
	}
}

// Export serializes every command.
func (c *Commands) Export() cache.Artifact {
	a := cache.Artifact{Version: cache.FormatVersion}
	c.ExportTo(&a)
	return a
}

// CommandsFromArtifact rebuilds a frozen command collection from the
// commands of a.
func CommandsFromArtifact(a cache.Artifact) (*Commands, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	c := NewCommands()
	for _, d := range a.Commands {
		cmd, err := route.CommandFromData(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cache.ErrCorruptArtifact, err)
		}
		if err := c.Register(cmd); err != nil {
			return nil, fmt.Errorf("%w: %w", cache.ErrCorruptArtifact, err)
		}
	}
	c.Freeze()

	return c, nil
}
