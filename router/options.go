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
	"log/slog"

	"github.com/AlejandroPF/tight/router/route"
)

// Option configures a Router.
type Option func(r *Router)

// WithDocumentRoot sets the server document root.
//
// The first occurrence of the document root is removed from the base path,
// so a filesystem-style base path can be passed unchanged:
//
//	r := router.MustNew(`C:\www\blog`, router.WithDocumentRoot(`C:\www`))
//	r.BasePath() // "/blog/"
func WithDocumentRoot(root string) Option {
	return func(r *Router) {
		r.documentRoot = root
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
// A nil logger disables logging.
//
// Example:
//
//	r := router.MustNew("/", router.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger == nil {
			logger = noopLogger
		}
		r.logger = logger
	}
}

// WithRecorder sets the dispatch recorder, typically a metrics recorder.
// A nil recorder disables recording.
func WithRecorder(rec Recorder) Option {
	return func(r *Router) {
		if rec == nil {
			rec = noopRecorder{}
		}
		r.recorder = rec
	}
}

// WithErrorHandler sets the handler ServeHTTP uses when a middleware or
// handler returns an error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Router) {
		if h != nil {
			r.errorHandler = h
		}
	}
}

// WithNotFound sets the not-found handler at construction time.
// A nil handler is ignored.
//
// Example:
//
//	r := router.MustNew("/", router.WithNotFound(func(*route.Context, ...string) (string, error) {
//	    return "Error 404", nil
//	}))
func WithNotFound(h route.HandlerFunc) Option {
	return func(r *Router) {
		if h != nil {
			r.notFound.Store(&h)
		}
	}
}
