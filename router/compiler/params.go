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

package compiler

import "iter"

// Params is an ordered, immutable set of placeholder bindings produced by a
// successful match. The zero value is an empty binding.
type Params struct {
	names  []string // shared with the Pattern, never written
	values []string // owned by this binding
}

// Len returns the number of bindings.
func (p Params) Len() int {
	return len(p.values)
}

// Get returns the value bound to name.
func (p Params) Get(name string) (string, bool) {
	for i, n := range p.names {
		if n == name {
			return p.values[i], true
		}
	}
	return "", false
}

// Value returns the value bound to name, or "" when name is not bound.
func (p Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Names returns the bound names in placeholder order.
func (p Params) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Values returns the captured values in placeholder order.
// This is the positional argument list passed to route handlers.
func (p Params) Values() []string {
	out := make([]string, len(p.values))
	copy(out, p.values)
	return out
}

// Map returns the bindings as a new map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p.values))
	for i, n := range p.names {
		m[n] = p.values[i]
	}
	return m
}

// All iterates over the bindings in placeholder order.
func (p Params) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, n := range p.names {
			if !yield(n, p.values[i]) {
				return
			}
		}
	}
}
