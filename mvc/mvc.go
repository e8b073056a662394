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
	"io"
	"maps"
	"strings"

	"github.com/AlejandroPF/tight/render"
)

// Model holds the variables a controller exposes to its view.
type Model interface {
	Set(key string, value any)
	Get(key string) any
	Vars() map[string]any
}

// View renders a template with assigned variables.
type View interface {
	// OnLoad runs before the controller's OnRender hook.
	OnLoad() error
	Assign(key string, value any)
	Render(w io.Writer) error
	Template() string
}

// Action is a controller sub-action invoked with the remaining path segments.
type Action func(args ...string) error

// Controller binds a model to a view and exposes actions.
type Controller interface {
	Model() Model
	View() View

	// Action returns the action registered as name. Names are case-insensitive.
	Action(name string) (Action, bool)

	// OnLoad runs once the controller is constructed.
	OnLoad() error
	// OnRender runs before model variables are assigned to the view.
	OnRender() error
	// OnFinish runs after the view has rendered.
	OnFinish() error
}

// BaseModel is a map-backed Model.
type BaseModel struct {
	vars map[string]any
}

// NewBaseModel returns an empty model.
func NewBaseModel() *BaseModel {
	return &BaseModel{vars: make(map[string]any)}
}

// Set stores value under key.
func (m *BaseModel) Set(key string, value any) {
	if m.vars == nil {
		m.vars = make(map[string]any)
	}
	m.vars[key] = value
}

// Get returns the value stored under key, or nil.
func (m *BaseModel) Get(key string) any {
	return m.vars[key]
}

// Vars returns a copy of every stored variable.
func (m *BaseModel) Vars() map[string]any {
	return maps.Clone(m.vars)
}

// BaseView renders one template through a render.Engine.
type BaseView struct {
	template string
	engine   render.Engine
	vars     map[string]any
}

// NewBaseView returns a view for template rendered by engine.
func NewBaseView(template string, engine render.Engine) *BaseView {
	return &BaseView{
		template: template,
		engine:   engine,
		vars:     make(map[string]any),
	}
}

// OnLoad does nothing.
func (v *BaseView) OnLoad() error { return nil }

// Assign binds value to key for the next render.
func (v *BaseView) Assign(key string, value any) {
	v.vars[key] = value
}

// Vars returns a copy of the assigned variables.
func (v *BaseView) Vars() map[string]any {
	return maps.Clone(v.vars)
}

// Template returns the template id.
func (v *BaseView) Template() string { return v.template }

// Engine returns the render engine.
func (v *BaseView) Engine() render.Engine { return v.engine }

// Render executes the template with the assigned variables.
func (v *BaseView) Render(w io.Writer) error {
	return v.engine.Render(w, v.template, v.vars)
}

// BaseController stores the model and view and a table of actions.
// Embed it and override the lifecycle hooks as needed.
type BaseController struct {
	model   Model
	view    View
	actions map[string]Action
}

// NewBaseController returns a controller for m and v.
func NewBaseController(m Model, v View) *BaseController {
	return &BaseController{
		model:   m,
		view:    v,
		actions: make(map[string]Action),
	}
}

// Model returns the model.
func (c *BaseController) Model() Model { return c.model }

// View returns the view.
func (c *BaseController) View() View { return c.view }

// HandleAction registers fn as the action called name.
func (c *BaseController) HandleAction(name string, fn Action) {
	if c.actions == nil {
		c.actions = make(map[string]Action)
	}
	c.actions[strings.ToLower(name)] = fn
}

// Action returns the action registered as name.
func (c *BaseController) Action(name string) (Action, bool) {
	fn, ok := c.actions[strings.ToLower(name)]
	return fn, ok && fn != nil
}

// OnLoad does nothing.
func (c *BaseController) OnLoad() error { return nil }

// OnRender does nothing.
func (c *BaseController) OnRender() error { return nil }

// OnFinish does nothing.
func (c *BaseController) OnFinish() error { return nil }
