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

// Package route provides the Route type used by the Tight router.
//
// A Route ties a compiled template to a set of allowed HTTP methods, an
// ordered middleware chain and a main handler.
//
// # Handlers
//
// Middleware and handlers share one signature:
//
//	func(c *route.Context, args ...string) (string, error)
//
// args holds the captured placeholder values in template order, so a handler
// for "/books/:id/:chapter" can be written as:
//
//	func(c *route.Context, args ...string) (string, error) {
//	    return "book " + args[0] + " chapter " + args[1], nil
//	}
//
// # Dispatch
//
// Dispatch runs every middleware in registration order, then the handler.
// The returned string is the concatenation of all outputs in that order.
// The first error stops the chain.
//
// # Concurrency
//
// Match is pure: bindings live in the returned Params and in the per-dispatch
// Context, never on the Route. A Route is safe for concurrent Match and
// Dispatch once registration is complete.
package route
