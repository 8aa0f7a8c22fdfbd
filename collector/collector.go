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

package collector

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"rivaas.dev/dispatch/collection"
	"rivaas.dev/dispatch/route"
)

// Error locates a failure in a source file.
type Error struct {
	Pos token.Position
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result holds the descriptors found by a [Collector], in source order.
type Result struct {
	Routes   []*route.Builder
	Commands []*route.CommandBuilder
}

// Register builds every descriptor into routes and commands. Either
// collection may be nil when the result holds no descriptors of its kind.
// Every failure is reported.
func (r *Result) Register(routes *collection.Collection, commands *collection.Commands) error {
	var mErr *multierror.Error

	for _, b := range r.Routes {
		if routes == nil {
			mErr = multierror.Append(mErr, fmt.Errorf("route %q: no route collection", b.Pattern()))
			continue
		}
		if _, err := routes.Add(b); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}
	for _, b := range r.Commands {
		if commands == nil {
			mErr = multierror.Append(mErr, fmt.Errorf("command %q: no command collection", b.Pattern()))
			continue
		}
		if _, err := commands.Add(b); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}

	return mErr.ErrorOrNil()
}

func (r *Result) merge(o *Result) {
	r.Routes = append(r.Routes, o.Routes...)
	r.Commands = append(r.Commands, o.Commands...)
}

// Option configures a [Collector].
type Option func(*Collector)

// WithPackageName replaces the package name in default handler names.
func WithPackageName(name string) Option {
	return func(c *Collector) { c.pkg = name }
}

// WithTests includes _test.go files in directory scans.
func WithTests(enabled bool) Option {
	return func(c *Collector) { c.tests = enabled }
}

// Collector scans Go sources for dispatch annotations.
type Collector struct {
	fset  *token.FileSet
	pkg   string
	tests bool
}

// New creates a collector.
func New(opts ...Option) *Collector {
	c := &Collector{fset: token.NewFileSet()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ParseDir scans the .go files of dir, not recursing, in name order.
func (c *Collector) ParseDir(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".go" {
			continue
		}
		if !c.tests && strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)

	res := &Result{}
	var mErr *multierror.Error
	for _, f := range files {
		r, err := c.ParseFile(f, nil)
		if err != nil {
			mErr = multierror.Append(mErr, err)
		}
		if r != nil {
			res.merge(r)
		}
	}
	return res, mErr.ErrorOrNil()
}

// ParseFile scans one file. src is passed to go/parser: nil reads
// filename. Descriptors from valid annotations are returned alongside the
// errors of invalid ones.
func (c *Collector) ParseFile(filename string, src any) (*Result, error) {
	f, err := parser.ParseFile(c.fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	pkg := c.pkg
	if pkg == "" {
		pkg = f.Name.Name
	}

	res := &Result{}
	var mErr *multierror.Error

	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}
		handler := pkg + "." + funcName(fn)

		for _, comment := range fn.Doc.List {
			if !IsAnnotation(comment.Text) {
				continue
			}
			pos := c.fset.Position(comment.Pos())
			if err := collect(res, comment.Text, handler); err != nil {
				mErr = multierror.Append(mErr, &Error{Pos: pos, Err: err})
			}
		}
	}

	return res, mErr.ErrorOrNil()
}

func collect(res *Result, line, handler string) error {
	a, err := Parse(line)
	if err != nil {
		return err
	}

	switch a.Kind {
	case KindRoute:
		b, err := RouteBuilder(a, handler)
		if err != nil {
			return err
		}
		res.Routes = append(res.Routes, b)
	case KindCommand:
		b, err := CommandBuilder(a, handler)
		if err != nil {
			return err
		}
		res.Commands = append(res.Commands, b)
	}
	return nil
}

// funcName returns "Func" or "Recv.Method".
func funcName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return fn.Name.Name
	}

	typ := fn.Recv.List[0].Type
	if star, ok := typ.(*ast.StarExpr); ok {
		typ = star.X
	}
	switch t := typ.(type) {
	case *ast.IndexExpr:
		typ = t.X
	case *ast.IndexListExpr:
		typ = t.X
	}
	if id, ok := typ.(*ast.Ident); ok {
		return id.Name + "." + fn.Name.Name
	}
	return fn.Name.Name
}
