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
	"context"
	"net/http"

	"github.com/AlejandroPF/tight/router/compiler"
)

// Params is the immutable binding produced by a successful match.
type Params = compiler.Params

// Context carries the state of a single dispatch.
// A new Context is built for every dispatch and is never shared between requests.
type Context struct {
	context.Context

	// Route is the matched route. It is nil for not-found dispatches.
	Route *Route

	// Params holds the bindings captured for this dispatch.
	Params Params

	// Path and Method are the dispatched request path and method (lowercase).
	Path   string
	Method string

	// Request and Writer are set when dispatching over HTTP.
	Request *http.Request
	Writer  http.ResponseWriter
}

// NewContext returns a Context for the given path and method.
// A nil ctx is replaced with context.Background.
func NewContext(ctx context.Context, path, method string) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context: ctx,
		Path:    path,
		Method:  method,
	}
}

// Param returns the value bound to name for this dispatch.
func (c *Context) Param(name string) string {
	return c.Params.Value(name)
}
