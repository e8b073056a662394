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

package mvc

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/AlejandroPF/tight/render"
)

// Identifier suffixes appended to a resource name.
const (
	ControllerSuffix = "Controller"
	ModelSuffix      = "Model"
	ViewSuffix       = "View"
)

// Resource describes how to build the triple for one resource.
// Nil factories fall back to BaseModel, BaseView and BaseController.
type Resource struct {
	Name       string
	Model      func() Model
	View       func(template string, engine render.Engine) View
	Controller func(m Model, v View) Controller
}

// ControllerName returns the controller identifier, e.g. "BooksController".
func (r Resource) ControllerName() string { return r.Name + ControllerSuffix }

// ModelName returns the model identifier, e.g. "BooksModel".
func (r Resource) ModelName() string { return r.Name + ModelSuffix }

// ViewName returns the view identifier, e.g. "BooksView".
func (r Resource) ViewName() string { return r.Name + ViewSuffix }

func (r Resource) newModel() Model {
	if r.Model != nil {
		if m := r.Model(); m != nil {
			return m
		}
	}
	return NewBaseModel()
}

func (r Resource) newView(template string, engine render.Engine) View {
	if r.View != nil {
		if v := r.View(template, engine); v != nil {
			return v
		}
	}
	return NewBaseView(template, engine)
}

func (r Resource) newController(m Model, v View) Controller {
	if r.Controller != nil {
		if c := r.Controller(m, v); c != nil {
			return c
		}
	}
	return NewBaseController(m, v)
}

// Registry maps resource names to their factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	resources map[string]Resource
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{resources: make(map[string]Resource)}
}

// Register adds res. The name is capitalized before it is stored.
//
// Errors:
//   - [ErrInvalidResource] if the name is empty or contains "/"
//   - [ErrDuplicateResource] if the name is already registered
func (g *Registry) Register(res Resource) error {
	name := strings.TrimSpace(res.Name)
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%w: name %q", ErrInvalidResource, res.Name)
	}
	res.Name = Capitalize(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.resources[res.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateResource, res.Name)
	}
	g.resources[res.Name] = res
	return nil
}

// MustRegister registers res and panics on error.
func (g *Registry) MustRegister(res Resource) *Registry {
	if err := g.Register(res); err != nil {
		panic("mvc: " + err.Error())
	}
	return g
}

// Lookup returns the resource registered as name. name is capitalized first.
func (g *Registry) Lookup(name string) (Resource, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	res, ok := g.resources[Capitalize(name)]
	return res, ok
}

// Names returns the registered names in sorted order.
func (g *Registry) Names() []string {
	g.mu.RLock()
	names := make([]string, 0, len(g.resources))
	for name := range g.resources {
		names = append(names, name)
	}
	g.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Len returns the number of registered resources.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.resources)
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
