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

// Package collector builds route and command descriptors from annotations
// in Go doc comments.
//
// A function is registered by one or more lines in its doc comment:
//
//	//dispatch:route GET,POST /widgets/{id:\d+} name=widgets.show secure matched=auth deps=db
//	func Show(ctx context.Context, args dispatch.Arguments) (any, error) { ... }
//
//	//dispatch:command greet {who?} default=who:World flag=loud,l description="Say hello"
//	func Greet(ctx context.Context, args dispatch.Arguments) (any, error) { ... }
//
// The handler defaults to "<package>.<Func>", or "<package>.<Recv>.<Method>"
// for methods, and can be overridden with handler=.
//
// Route attributes: name, handler, description, matched, dispatched,
// caught, sending, terminated, deps, cast, default and the bare word
// secure. Method lists are comma separated; ANY accepts every method.
//
// Command attributes: name, handler, description, matched, dispatched,
// caught, terminated, deps, cast, default, flag, option and optional. A
// flag or optional is "name[,short]"; an option is "name[,short[,default]]"
// and requires a value.
//
// List values are comma separated; cast and default entries are
// "param:value".
package collector
