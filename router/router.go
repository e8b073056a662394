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

package router

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlejandroPF/tight/router/route"
)

// DefaultNotFoundMessage is the output of the default not-found handler.
const DefaultNotFoundMessage = "Page not found"

// Router holds the ordered route table and dispatches requests against it.
//
// Routes are matched in registration order; the first route whose pattern
// matches the path and whose method set contains the request method wins.
type Router struct {
	basePath     string
	documentRoot string

	mu     sync.RWMutex // Protects routes
	routes []*route.Route

	notFound atomic.Pointer[route.HandlerFunc]

	logger       *slog.Logger
	recorder     Recorder
	errorHandler ErrorHandler
}

// New creates a Router rooted at basePath.
//
// The base path is normalized: backslashes become slashes, a trailing slash is
// added, the first occurrence of the document root (see [WithDocumentRoot]) is
// removed and duplicate separators are collapsed. An empty base path yields "/".
//
// Example:
//
//	r, err := router.New("/blog")
//	if err != nil {
//	    log.Fatal(err)
//	}
func New(basePath string, opts ...Option) (*Router, error) {
	r := &Router{
		logger:       noopLogger,
		recorder:     noopRecorder{},
		errorHandler: DefaultErrorHandler,
	}

	var notFound route.HandlerFunc = defaultNotFound
	r.notFound.Store(&notFound)

	for _, opt := range opts {
		if opt == nil {
			return nil, fmt.Errorf("%w: nil option", ErrInvalidArgument)
		}
		opt(r)
	}

	r.basePath = normalizeBasePath(basePath, r.documentRoot)

	return r, nil
}

// MustNew creates a Router and panics on error.
//
// Example:
//
//	r := router.MustNew("/")
func MustNew(basePath string, opts ...Option) *Router {
	r, err := New(basePath, opts...)
	if err != nil {
		panic("router: " + err.Error())
	}
	return r
}

func defaultNotFound(*route.Context, ...string) (string, error) {
	return DefaultNotFoundMessage, nil
}

// BasePath returns the normalized base path.
func (r *Router) BasePath() string {
	return r.basePath
}

// Logger returns the router logger.
func (r *Router) Logger() *slog.Logger {
	return r.logger
}

// AddRoute registers a route for methods.
//
// The last function in chain is the handler; the others are middleware run in
// the given order. The base path is prepended to pattern and duplicate
// separators are collapsed.
//
// Errors:
//   - [ErrInvalidArgument] if methods or chain is empty, any entry of chain is
//     nil, or the pattern cannot be compiled
//
// Nothing is registered when an error is returned.
func (r *Router) AddRoute(methods []string, pattern string, chain ...route.HandlerFunc) (*route.Route, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: route %q has no handler", ErrInvalidArgument, pattern)
	}
	if !hasMethod(methods) {
		return nil, fmt.Errorf("%w: route %q has no methods", ErrInvalidArgument, pattern)
	}

	last := len(chain) - 1
	rt, err := route.New(joinPath(r.basePath, pattern), chain[last])
	if err != nil {
		return nil, err
	}
	if err := rt.Use(chain[:last]...); err != nil {
		return nil, err
	}
	rt.SetMethods(methods...)

	r.mu.Lock()
	r.routes = append(r.routes, rt)
	r.mu.Unlock()

	r.logger.Debug("route registered",
		"template", rt.Template(),
		"methods", rt.Methods(),
		"middleware", last,
	)

	return rt, nil
}

func hasMethod(methods []string) bool {
	for _, m := range methods {
		if strings.TrimSpace(m) != "" {
			return true
		}
	}
	return false
}

// mustAdd registers a route and panics on error.
// Registration errors are programming errors caught at startup.
func (r *Router) mustAdd(methods []string, pattern string, chain []route.HandlerFunc) *Router {
	if _, err := r.AddRoute(methods, pattern, chain...); err != nil {
		panic("router: " + err.Error())
	}
	return r
}

// Get registers a GET route and returns the router for chaining.
// It panics if the route is invalid.
//
// Example:
//
//	r.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
//	    return "Hello " + args[0], nil
//	})
func (r *Router) Get(pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd([]string{route.MethodGet}, pattern, chain)
}

// Post registers a POST route. It panics if the route is invalid.
func (r *Router) Post(pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd([]string{route.MethodPost}, pattern, chain)
}

// Update registers an UPDATE route. It panics if the route is invalid.
func (r *Router) Update(pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd([]string{route.MethodUpdate}, pattern, chain)
}

// Delete registers a DELETE route. It panics if the route is invalid.
func (r *Router) Delete(pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd([]string{route.MethodDelete}, pattern, chain)
}

// Map registers a route for several methods. It panics if the route is invalid.
//
// Example:
//
//	r.Map([]string{"get", "post"}, "/map/", handler)
func (r *Router) Map(methods []string, pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd(methods, pattern, chain)
}

// Handle registers a route for a single method. It panics if the route is invalid.
func (r *Router) Handle(method, pattern string, chain ...route.HandlerFunc) *Router {
	return r.mustAdd([]string{method}, pattern, chain)
}

// NotFound replaces the not-found handler.
// It may be called while the router is serving.
//
// Errors:
//   - [ErrInvalidArgument] if h is nil
func (r *Router) NotFound(h route.HandlerFunc) error {
	if h == nil {
		return fmt.Errorf("%w: not-found handler must not be nil", ErrInvalidArgument)
	}
	r.notFound.Store(&h)
	return nil
}

// NotFoundHandler returns the current not-found handler.
func (r *Router) NotFoundHandler() route.HandlerFunc {
	return *r.notFound.Load()
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*route.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.routes)
}

// Lookup returns the first route matching uri and method with its bindings.
// Lookup does not run any handler.
func (r *Router) Lookup(uri, method string) (*route.Route, route.Params, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rt := range r.routes {
		params, ok := rt.Match(uri)
		if !ok || !rt.Allows(method) {
			continue
		}
		return rt, params, true
	}
	return nil, route.Params{}, false
}

// Dispatch runs the first route matching uri and method and returns its output.
// When no route matches, the not-found handler output is returned.
//
// Example:
//
//	out, err := r.Dispatch("/hello/world", "GET")
func (r *Router) Dispatch(uri, method string) (string, error) {
	return r.DispatchContext(context.Background(), uri, method)
}

// DispatchContext is like Dispatch but carries ctx into the route.Context.
func (r *Router) DispatchContext(ctx context.Context, uri, method string) (string, error) {
	c := route.NewContext(ctx, uri, strings.ToLower(method))
	out, _, err := r.dispatch(c)
	return out, err
}

// dispatch runs the matching chain, or the not-found handler.
// matched reports whether a route was found.
func (r *Router) dispatch(c *route.Context) (out string, matched bool, err error) {
	start := time.Now()

	rt, params, ok := r.Lookup(c.Path, c.Method)
	if !ok {
		out, err = (*r.notFound.Load())(c)
		r.record(c, NotFoundTemplate, OutcomeNotFound, err, start)
		r.logger.Debug("no route matched", "path", c.Path, "method", c.Method)
		return out, false, err
	}

	c.Params = params
	out, err = rt.Dispatch(c)
	r.record(c, rt.Template(), OutcomeMatched, err, start)
	if err != nil {
		r.logger.Error("dispatch failed",
			"template", rt.Template(),
			"method", c.Method,
			"error", err,
		)
	}
	return out, true, err
}

func (r *Router) record(c *route.Context, template string, outcome Outcome, err error, start time.Time) {
	if err != nil {
		outcome = OutcomeError
	}
	r.recorder.RecordDispatch(c, template, c.Method, outcome, time.Since(start))
}

// RequestURN returns the part of requestPath below the base path.
//
// The query string is dropped, the base path prefix is stripped and the result
// always starts and ends with '/':
//
//	r := router.MustNew("/blog")
//	r.RequestURN("/blog/posts/12?x=1") // "/posts/12/"
func (r *Router) RequestURN(requestPath string) string {
	if i := strings.IndexByte(requestPath, '?'); i >= 0 {
		requestPath = requestPath[:i]
	}
	requestPath = CollapseSlashes("/" + requestPath)

	base := strings.TrimSuffix(r.basePath, "/")
	if base != "" && (requestPath == base || strings.HasPrefix(requestPath, base+"/")) {
		requestPath = requestPath[len(base):]
	}

	return CollapseSlashes("/" + AddTrailingSlash(requestPath))
}
