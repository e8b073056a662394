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

package source

import (
	"context"
	"maps"
)

// Map is a source backed by an in-memory map.
type Map struct {
	values map[string]any
}

// NewMap creates a Map source. The map is copied one level deep.
func NewMap(values map[string]any) *Map {
	return &Map{values: maps.Clone(values)}
}

// Load returns a copy of the map.
func (m *Map) Load(context.Context) (map[string]any, error) {
	return maps.Clone(m.values), nil
}

// String identifies the source in errors.
func (m *Map) String() string {
	return "map"
}
