// Copyright 2025 The Tight Authors
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

// Package router provides the pattern router of the Tight framework.
//
// Routes are registered with a path template, an optional middleware chain
// and a handler. The last function passed to a registration method is the
// handler; any functions before it are middleware, run in the order given:
//
//	r := router.MustNew("/")
//	r.Get("/hello/:name", authenticate, func(c *route.Context, args ...string) (string, error) {
//	    return "Hello " + args[0], nil
//	})
//
// # Dispatch
//
// Dispatch scans routes in registration order and picks the first one whose
// pattern matches the path and whose method set contains the request method.
// A route that matches the path but not the method does not stop the scan.
// When nothing matches, the not-found handler runs:
//
//	out, err := r.Dispatch("/hello/world", "GET") // "Hello world"
//	out, err = r.Dispatch("/nope", "GET")         // "Page not found"
//
// # Base path
//
// When an application is not served from the host root, the base path passed
// to New is prepended to every template:
//
//	r := router.MustNew("/blog")
//	r.Get("/posts/:id", handler) // registered as /blog/posts/:id
//
// # HTTP
//
// Router implements http.Handler. Matched output is written with status 200,
// not-found output with 404, and handler errors go through the configured
// ErrorHandler.
//
// # Concurrency
//
// Registration and dispatch may run concurrently. Match results are carried in
// a per-dispatch route.Context and never stored on shared state.
package router
