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

package route

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	tighterrors "github.com/AlejandroPF/tight/errors"
	"github.com/AlejandroPF/tight/router/compiler"
)

// HTTP method tokens understood by the router. Methods are stored lowercase.
const (
	MethodGet    = "get"
	MethodPost   = "post"
	MethodUpdate = "update"
	MethodDelete = "delete"
)

// ErrInvalidArgument indicates an invalid template, handler or middleware.
// It is returned at registration time, never during dispatch.
var ErrInvalidArgument = errors.New("invalid argument")

// HandlerFunc is the signature shared by handlers and middleware.
// args holds the captured placeholder values in template order.
type HandlerFunc func(c *Context, args ...string) (string, error)

// Route represents one registered endpoint.
type Route struct {
	pattern    *compiler.Pattern
	handler    HandlerFunc
	methods    []string      // lowercase, insertion order
	middleware []HandlerFunc // run before handler, in order

	mu sync.RWMutex // Protects methods and middleware during registration
}

// New creates a Route for template with the given handler.
// The template is compiled immediately.
//
// Errors:
//   - [ErrInvalidArgument] if handler is nil or the template cannot be compiled
func New(template string, handler HandlerFunc) (*Route, error) {
	if handler == nil {
		return nil, fmt.Errorf("%w: route handler must not be nil", ErrInvalidArgument)
	}

	p, err := compiler.Compile(template)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return &Route{
		pattern: p,
		handler: handler,
	}, nil
}

// Pattern returns the compiled pattern.
func (r *Route) Pattern() *compiler.Pattern {
	return r.pattern
}

// Template returns the registered template (base path included).
func (r *Route) Template() string {
	return r.pattern.Template()
}

// SetMethods replaces the allowed methods.
func (r *Route) SetMethods(methods ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.methods = r.methods[:0:0]
	r.methods = appendMethods(r.methods, methods)
}

// AppendMethods adds methods to the allowed set.
func (r *Route) AppendMethods(methods ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.methods = appendMethods(r.methods, methods)
}

func appendMethods(dst, methods []string) []string {
	for _, m := range methods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || slices.Contains(dst, m) {
			continue
		}
		dst = append(dst, m)
	}
	return dst
}

// Methods returns the allowed methods in registration order.
func (r *Route) Methods() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.methods)
}

// Allows reports whether method is allowed. The comparison ignores case.
func (r *Route) Allows(method string) bool {
	method = strings.ToLower(method)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Contains(r.methods, method)
}

// Use appends middleware to the route.
// Nothing is appended if any entry is nil.
func (r *Route) Use(middleware ...HandlerFunc) error {
	for i, mw := range middleware {
		if mw == nil {
			return fmt.Errorf("%w: middleware %d of %q is nil", ErrInvalidArgument, i, r.Template())
		}
	}

	r.mu.Lock()
	r.middleware = append(r.middleware, middleware...)
	r.mu.Unlock()

	return nil
}

// Middleware returns the middleware chain in execution order.
func (r *Route) Middleware() []HandlerFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.middleware)
}

// Match reports whether uri matches the route pattern and returns the bindings.
func (r *Route) Match(uri string) (Params, bool) {
	return r.pattern.Match(uri)
}

// Dispatch runs the middleware chain and the handler.
// c.Route is set to r. Outputs are concatenated in execution order; on error
// the output produced so far is returned along with the error, which carries
// the stack of the failing dispatch.
func (r *Route) Dispatch(c *Context) (string, error) {
	c.Route = r
	args := c.Params.Values()

	r.mu.RLock()
	chain := r.middleware
	r.mu.RUnlock()

	var out strings.Builder
	for _, mw := range chain {
		s, err := mw(c, args...)
		out.WriteString(s)
		if err != nil {
			return out.String(), tighterrors.Capture(err)
		}
	}

	s, err := r.handler(c, args...)
	out.WriteString(s)

	return out.String(), tighterrors.Capture(err)
}
