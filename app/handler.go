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

package app

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	tighterrors "github.com/AlejandroPF/tight/errors"
	"github.com/AlejandroPF/tight/mvc"
	"github.com/AlejandroPF/tight/render"
	"github.com/AlejandroPF/tight/router"
	"github.com/AlejandroPF/tight/router/route"
	"github.com/AlejandroPF/tight/tracing"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds incoming request ids that are reused.
const maxRequestIDLength = 128

const htmlContentType = "text/html; charset=utf-8"

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// buildHandler wraps dispatch, innermost first, with panic recovery,
// request metrics, the request span and the request id.
func (a *App) buildHandler() http.Handler {
	var h http.Handler = http.HandlerFunc(a.dispatch)
	h = a.recoverer(h)
	if a.recorder != nil {
		h = a.measure(h)
	}
	if a.tracer != nil {
		h = tracing.Middleware(a.tracer)(h)
	}
	return a.requestID(h)
}

func (a *App) dispatch(w http.ResponseWriter, r *http.Request) {
	if a.scrapeHandler != nil && r.URL.Path == a.settings.Metrics.Path {
		a.scrapeHandler.ServeHTTP(w, r)
		return
	}
	if a.settings.MVC.Enabled {
		a.RunMVC(w, r)
		return
	}
	a.router.ServeHTTP(w, r)
}

// requestID reuses a well-formed incoming X-Request-ID or assigns a UUIDv7.
func (a *App) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			v7, err := uuid.NewV7()
			if err != nil {
				v7 = uuid.New()
			}
			id = v7.String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a panic into a diagnostic response.
func (a *App) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				a.handleError(w, r, "", tighterrors.Recovered(v))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *App) measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		a.recorder.RecordRequest(r.Context(), r.Method, sw.status, time.Since(start))
	})
}

// RunMVC dispatches r as an MVC request.
//
// The path below the base path is resolved to a resource. A resolved resource
// is executed and its rendered view written with status 200. Unresolved
// resources and render failures are answered by the not-found handler. Any
// other failure goes to the diagnostic handler.
func (a *App) RunMVC(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	urn := a.router.RequestURN(r.URL.Path)
	res := a.resolver.Resolve(urn)

	controller := res.Resource + mvc.ControllerSuffix

	switch res.Status {
	case mvc.Resolved:
		var buf bytes.Buffer
		err := res.Execute(&buf)
		switch {
		case err == nil:
			a.recordMVC(r, controller, router.OutcomeMatched, start)
			w.Header().Set("Content-Type", htmlContentType)
			w.WriteHeader(http.StatusOK)
			if _, err := buf.WriteTo(w); err != nil {
				a.logger.Debug("response write failed", "path", r.URL.Path, "error", err)
			}
		case errors.Is(err, render.ErrRender):
			a.logger.Warn("view render failed", "controller", controller, "error", err)
			a.recordMVC(r, router.NotFoundTemplate, router.OutcomeNotFound, start)
			a.notFound(w, r)
		default:
			a.recordMVC(r, controller, router.OutcomeError, start)
			a.handleError(w, r, "", err)
		}

	case mvc.NotFound:
		a.recordMVC(r, router.NotFoundTemplate, router.OutcomeNotFound, start)
		a.notFound(w, r)

	default:
		a.recordMVC(r, controller, router.OutcomeError, start)
		a.handleError(w, r, "", res.Err)
	}
}

func (a *App) recordMVC(r *http.Request, template string, outcome router.Outcome, start time.Time) {
	if a.recorder == nil {
		return
	}
	a.recorder.RecordDispatch(r.Context(), template, strings.ToLower(r.Method), outcome, time.Since(start))
}

// notFound writes the router's not-found output with status 404.
func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	c := route.NewContext(r.Context(), r.URL.Path, strings.ToLower(r.Method))
	c.Request = r
	c.Writer = w

	out, err := a.router.NotFoundHandler()(c)
	if err != nil {
		a.handleError(w, r, out, err)
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusNotFound)
	if _, err := io.WriteString(w, out); err != nil {
		a.logger.Debug("response write failed", "path", r.URL.Path, "error", err)
	}
}

// handleError is the process-wide diagnostic handler. Partial output is discarded.
func (a *App) handleError(w http.ResponseWriter, r *http.Request, _ string, err error) {
	a.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get(RequestIDHeader),
		"error", err,
	)
	if err := tighterrors.Write(w, a.diagnostics.Format(r, err)); err != nil {
		a.logger.Debug("error response write failed", "path", r.URL.Path, "error", err)
	}
}

// statusWriter remembers the first status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
