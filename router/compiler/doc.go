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

// Package compiler turns route templates into anchored matchers.
//
// A template is a path such as "/books/:id/:chapter". Every occurrence of the
// placeholder marker ':' followed by one or more word characters
// ([A-Za-z0-9_]) declares a named capture. Everything else is literal.
//
// # Compilation
//
// Compile scans the template left to right and:
//
//  1. Records each placeholder name in order of appearance
//  2. Quotes every literal run so that '/', '.', '+' and friends match themselves
//  3. Replaces each placeholder with the capture group `(\w+)`
//  4. Anchors the expression with ^ and $ so partial matches are rejected
//
// Example:
//
//	p := compiler.MustCompile("/books/:id/:chapter")
//	p.String() // ^/books/(\w+)/(\w+)$
//	p.Names()  // [id chapter]
//
// # Matching
//
// Match never mutates the Pattern. Each call returns a fresh, immutable
// Params value, so one Pattern can be shared by any number of goroutines:
//
//	params, ok := p.Match("/books/42/7")
//	params.Value("id")      // "42"
//	params.Values()         // [42 7]
//
// # Duplicate names
//
// A template that reuses a placeholder name ("/:id/:id") is rejected with
// ErrDuplicateParam. Silently keeping only the last capture hides routing
// mistakes that are hard to diagnose later.
package compiler
