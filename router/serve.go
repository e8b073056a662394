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
	"io"
	"net/http"
	"strings"

	tighterrors "github.com/AlejandroPF/tight/errors"
	"github.com/AlejandroPF/tight/router/route"
)

// ErrorHandler writes the response for a dispatch that returned an error.
// partial is the output produced before the error.
type ErrorHandler func(w http.ResponseWriter, req *http.Request, partial string, err error)

var simpleFormatter = tighterrors.NewSimple()

// DefaultErrorHandler discards partial output and writes a JSON error body
// using the simple error formatter.
func DefaultErrorHandler(w http.ResponseWriter, req *http.Request, _ string, err error) {
	_ = tighterrors.Write(w, simpleFormatter.Format(req, err))
}

// ServeHTTP implements http.Handler.
//
// The request path and method are dispatched as with [Router.Dispatch].
// Matched output is written with status 200 and not-found output with 404,
// as text/html unless a handler set another Content-Type. A handler that
// writes through [route.Context.Writer] owns the response and its returned
// output is dropped. Errors are passed to the configured [ErrorHandler].
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tw := &trackingWriter{ResponseWriter: w}
	c := route.NewContext(req.Context(), req.URL.Path, lowerMethod(req.Method))
	c.Request = req
	c.Writer = tw

	out, matched, err := r.dispatch(c)
	if tw.wrote {
		if err != nil {
			r.logger.Error("dispatch failed after the response was written",
				"path", req.URL.Path, "error", err)
		}
		return
	}
	if err != nil {
		r.errorHandler(w, req, out, err)
		return
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	if matched {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusNotFound)
	}
	if _, err := io.WriteString(w, out); err != nil {
		r.logger.Debug("response write failed", "path", req.URL.Path, "error", err)
	}
}

// trackingWriter records whether a handler started the response.
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// lowerMethod lowercases the common HTTP methods without allocating.
func lowerMethod(m string) string {
	switch m {
	case http.MethodGet:
		return route.MethodGet
	case http.MethodPost:
		return route.MethodPost
	case http.MethodDelete:
		return route.MethodDelete
	}
	return strings.ToLower(m)
}
