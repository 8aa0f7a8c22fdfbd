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

// Package router runs HTTP requests through the dispatch pipeline.
//
// A [Router] owns a frozen route collection, a dispatcher and the global
// middleware for every stage. For each request [Router.Handle]:
//
//  1. runs the request-received chain; a response ends the request before
//     matching
//  2. matches the method and path; on failure the route-not-matched chain
//     runs over a default 404, 405 (with an Allow header) or 308 redirect
//     to https
//  3. runs the route-matched chain, which may replace the match or answer
//     directly
//  4. dispatches the route's target with the bound parameters; the result
//     must be a *message.Response
//  5. runs the route-dispatched chain
//
// Any error or panic along the way goes to the throwable-caught chain,
// which starts from an RFC 9457 problem response. In debug mode the
// original error is returned instead.
//
// [Router.Send] runs the sending-response chain and writes the response.
// [Router.Terminate] runs the terminated chain. [Router.ServeHTTP] does all
// three.
//
// Route middleware is declared by identifier on each descriptor and
// resolved through the container when the router is created, so a missing
// middleware fails at startup rather than on the first request.
//
// Example:
//
//	routes := collection.New()
//	routes.MustAdd(route.GET("/widgets/{id}").WhereInt("id").Name("show").Handler("widgets.Show"))
//
//	handlers := dispatch.NewRegistry().Handle("widgets.Show",
//		func(ctx context.Context, args dispatch.Arguments) (any, error) {
//			id, _ := dispatch.Arg[int](args, "id")
//			return message.JSON(http.StatusOK, map[string]int{"id": id}), nil
//		})
//
//	r := router.MustNew(routes, router.WithDispatcher(handlers))
//	http.ListenAndServe(":8080", r)
package router
