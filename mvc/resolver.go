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
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tighterrors "github.com/AlejandroPF/tight/errors"
	"github.com/AlejandroPF/tight/render"
)

// Default resolver settings.
const (
	DefaultIndexName = "Root"
	DefaultViewDir   = "./templates"
	DefaultViewExt   = ".html"
)

// Status is the outcome of a resolution.
type Status int

const (
	// Resolved means the triple was built and can be executed.
	Resolved Status = iota
	// NotFound means the path does not name a renderable resource.
	NotFound
	// Failed means the resource exists but the request cannot be served.
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Resolution is the result of resolving a request path.
type Resolution struct {
	Status Status

	// Resource is the capitalized resource name.
	Resource string
	// Action is the requested action name, empty when none was given.
	Action string
	// Args are the path segments after the action.
	Args []string

	// Err explains a NotFound or Failed status. It wraps [ErrNotFound] for
	// NotFound.
	Err error

	controller Controller
	action     Action
}

// Controller returns the resolved controller, or nil.
func (r *Resolution) Controller() Controller {
	return r.controller
}

// Execute runs the action and the render lifecycle, then copies the rendered
// output to w. Nothing is written when any step fails.
//
// Errors:
//   - [ErrNotResolved] joined with Err if Status is not Resolved
//   - the action or lifecycle hook error, with the stack of the failing step
//   - [render.ErrRender] wrapping a view render failure
func (r *Resolution) Execute(w io.Writer) error {
	if r.Status != Resolved || r.controller == nil {
		return errors.Join(ErrNotResolved, r.Err)
	}

	c := r.controller
	if r.action != nil {
		if err := r.action(r.Args...); err != nil {
			return tighterrors.Capture(fmt.Errorf("action %s.%s: %w", r.Resource, r.Action, err))
		}
	}

	view := c.View()
	if err := view.OnLoad(); err != nil {
		return tighterrors.Capture(fmt.Errorf("%s%s.OnLoad: %w", r.Resource, ViewSuffix, err))
	}
	if err := c.OnRender(); err != nil {
		return tighterrors.Capture(fmt.Errorf("%s%s.OnRender: %w", r.Resource, ControllerSuffix, err))
	}
	for key, value := range c.Model().Vars() {
		view.Assign(key, value)
	}

	var buf bytes.Buffer
	if err := view.Render(&buf); err != nil {
		if errors.Is(err, render.ErrRender) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", render.ErrRender, view.Template(), err)
	}
	if err := c.OnFinish(); err != nil {
		return tighterrors.Capture(fmt.Errorf("%s%s.OnFinish: %w", r.Resource, ControllerSuffix, err))
	}

	_, err := buf.WriteTo(w)
	return err
}

// ResolverOption configures a Resolver.
type ResolverOption func(r *Resolver)

// WithIndexName sets the resource used for "/".
func WithIndexName(name string) ResolverOption {
	return func(r *Resolver) {
		if name != "" {
			r.indexName = name
		}
	}
}

// WithViewDir sets the directory that must hold the view templates.
func WithViewDir(dir string) ResolverOption {
	return func(r *Resolver) {
		if dir != "" {
			r.viewDir = dir
		}
	}
}

// WithViewExt sets the template file extension, including the dot.
func WithViewExt(ext string) ResolverOption {
	return func(r *Resolver) { r.viewExt = ext }
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver turns request paths into resolutions.
// It is safe for concurrent use; every resolution builds a fresh triple.
type Resolver struct {
	registry  *Registry
	engine    render.Engine
	indexName string
	viewDir   string
	viewExt   string
	logger    *slog.Logger
}

// NewResolver returns a Resolver over registry rendering through engine.
// engine should read templates from the configured view directory.
func NewResolver(registry *Registry, engine render.Engine, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry:  registry,
		engine:    engine,
		indexName: DefaultIndexName,
		viewDir:   DefaultViewDir,
		viewExt:   DefaultViewExt,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IndexName returns the resource used for "/".
func (r *Resolver) IndexName() string { return r.indexName }

// Resolve resolves urn, a request path relative to the base path.
func (r *Resolver) Resolve(urn string) *Resolution {
	name, action, args := splitURN(urn)
	if name == "" {
		name = r.indexName
	}
	res := &Resolution{Resource: Capitalize(name), Action: action, Args: args}

	info, err := os.Stat(r.viewDir)
	if err != nil || !info.IsDir() {
		return r.notFound(res, "view directory %q is not a directory", r.viewDir)
	}

	resource, ok := r.registry.Lookup(res.Resource)
	if !ok {
		return r.notFound(res, "resource %q is not registered", res.Resource)
	}

	template := resource.Name + r.viewExt
	if r.engine == nil || !r.engine.Exists(template) {
		return r.notFound(res, "template %q for %s is missing", template, resource.ViewName())
	}

	model := resource.newModel()
	view := resource.newView(template, r.engine)
	c := resource.newController(model, view)
	if err := c.OnLoad(); err != nil {
		return r.failed(res, fmt.Errorf("%s.OnLoad: %w", resource.ControllerName(), err))
	}

	if action != "" {
		fn, ok := c.Action(action)
		if !ok {
			return r.failed(res, fmt.Errorf("%w: %s has no action %q", ErrUnknownAction, resource.ControllerName(), action))
		}
		res.action = fn
	}

	res.Status = Resolved
	res.controller = c
	r.logger.Debug("mvc resolved",
		"controller", resource.ControllerName(),
		"action", action,
		"args", len(args),
	)
	return res
}

func (r *Resolver) notFound(res *Resolution, format string, args ...any) *Resolution {
	res.Status = NotFound
	res.Err = fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
	r.logger.Debug("mvc not found", "resource", res.Resource, "reason", res.Err)
	return res
}

func (r *Resolver) failed(res *Resolution, err error) *Resolution {
	res.Status = Failed
	res.Err = tighterrors.Capture(err)
	r.logger.Warn("mvc resolution failed", "resource", res.Resource, "error", err)
	return res
}

// splitURN splits "/resource/action/arg1/arg2" into its parts.
// Empty segments are ignored.
func splitURN(urn string) (name, action string, args []string) {
	if i := strings.IndexAny(urn, "?#"); i >= 0 {
		urn = urn[:i]
	}
	var parts []string
	for seg := range strings.SplitSeq(urn, "/") {
		if seg != "" {
			parts = append(parts, seg)
		}
	}

	switch len(parts) {
	case 0:
		return "", "", nil
	case 1:
		return parts[0], "", nil
	}
	return parts[0], parts[1], parts[2:]
}
