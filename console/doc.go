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

// Package console dispatches command lines through the same stage pipeline
// the router uses for HTTP requests.
//
// A command line is tokenized with [ParseArgs], matched against a
// [collection.Commands], and the matched command's target is dispatched.
// Every command must produce an [*Output]; its exit code becomes the
// process status.
//
//	cmds := collection.NewCommands()
//	cmds.MustAdd(route.NewCommand("greet {who?}").Default("who", "World").Handler("greet"))
//	_ = console.RegisterBuiltins(cmds)
//
//	c := console.MustNew(cmds, console.WithDispatcher(dispatch.NewRegistry().
//		Handle("greet", func(_ context.Context, args dispatch.Arguments) (any, error) {
//			who, _ := dispatch.Arg[string](args, "who")
//			return console.Success("Hello, " + who + "!\n"), nil
//		})))
//	os.Exit(c.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
//
// Unknown commands exit with [ExitNotFound], malformed options with
// [ExitInvalidInput] and failures with [ExitFailure].
package console
