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
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/metrics"
	"github.com/AlejandroPF/tight/modules/api"
	"github.com/AlejandroPF/tight/mvc"
	"github.com/AlejandroPF/tight/render"
	"github.com/AlejandroPF/tight/router/route"
)

var quiet = slog.New(slog.DiscardHandler)

// newTestApp builds an App from values layered over the defaults.
func newTestApp(t *testing.T, values map[string]any, opts ...Option) *App {
	t.Helper()

	cfg := config.MustNew(config.WithValues(values))
	require.NoError(t, cfg.Load(t.Context()))

	a, err := New(append([]Option{WithConfig(cfg), WithLogger(quiet), WithOutput(io.Discard)}, opts...)...)
	require.NoError(t, err)
	return a
}

func serve(a *App, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func hello(_ *route.Context, args ...string) (string, error) {
	return "Hello " + args[0], nil
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	a, err := New(WithLogger(quiet))
	require.NoError(t, err)

	assert.Equal(t, "/", a.Router().BasePath())
	assert.False(t, a.Settings().MVC.Enabled)
	assert.IsType(t, &render.HTML{}, a.Engine())
	assert.Equal(t, "Root", a.Resolver().IndexName())
	assert.Zero(t, a.Registry().Len())
	assert.Zero(t, a.Modules().Len())
	assert.Nil(t, a.Metrics())
	assert.Nil(t, a.Tracer())
	assert.Equal(t, DefaultServiceVersion, a.ServiceVersion())
	assert.Same(t, quiet, a.Logger())
	assert.NotNil(t, a.Config())
}

func TestNew_BuildsFromSettings(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, map[string]any{
		"base_path": "/blog",
		"log":       map[string]any{"level": "debug"},
		"templates": map[string]any{"engine": "text"},
		"metrics":   map[string]any{"enabled": true},
		"tracing":   map[string]any{"enabled": true},
	}, WithServiceVersion("1.4.0"))

	assert.Equal(t, "/blog/", a.Router().BasePath())
	assert.IsType(t, &render.Text{}, a.Engine())
	require.NotNil(t, a.Metrics())
	assert.Equal(t, metrics.PrometheusProvider, a.Metrics().Provider())
	require.NotNil(t, a.Tracer())
	assert.Equal(t, "1.4.0", a.ServiceVersion())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.ErrorIs(t, err, ErrInvalidOption)

	_, err = New(WithLogger(quiet), WithModules(api.New(), api.New()))
	require.Error(t, err)

	assert.Panics(t, func() { MustNew(nil) })
}

func TestNew_BuildsLogger(t *testing.T) {
	t.Parallel()

	cfg := config.MustNew(config.WithValues(map[string]any{
		"log": map[string]any{"level": "warn", "format": "text"},
	}))
	require.NoError(t, cfg.Load(t.Context()))

	a := MustNew(WithConfig(cfg))
	require.NotNil(t, a.Logger())
	assert.False(t, a.Logger().Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, a.Logger().Enabled(t.Context(), slog.LevelWarn))
}

func TestServeHTTP_Router(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)
	a.Get("/hello/:name", hello).
		Post("/posts/", func(*route.Context, ...string) (string, error) { return "created", nil })

	rec := serve(a, http.MethodGet, "/hello/ana")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello ana", rec.Body.String())

	rec = serve(a, http.MethodPost, "/posts/")
	assert.Equal(t, "created", rec.Body.String())

	rec = serve(a, http.MethodGet, "/posts/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Page not found", rec.Body.String())
}

func TestServeHTTP_RequestID(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)
	a.Get("/", func(c *route.Context, _ ...string) (string, error) {
		return c.Request.Header.Get(RequestIDHeader), nil
	})

	rec := serve(a, http.MethodGet, "/")
	id, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Equal(t, id.String(), rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	assert.Equal(t, "upstream-42", rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestServeHTTP_Errors(t *testing.T) {
	t.Parallel()

	failing := func(*route.Context, ...string) (string, error) {
		return "partial", errors.New("database unreachable")
	}
	panicking := func(*route.Context, ...string) (string, error) {
		panic("nil map")
	}

	t.Run("production", func(t *testing.T) {
		t.Parallel()

		a := newTestApp(t, nil)
		a.Get("/fail", failing).Get("/panic", panicking)

		rec := serve(a, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		assert.NotContains(t, rec.Body.String(), "partial")

		rec = serve(a, http.MethodGet, "/panic")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "app_test.go")
	})

	t.Run("development", func(t *testing.T) {
		t.Parallel()

		a := newTestApp(t, map[string]any{"development": true})
		a.Get("/fail", failing).Get("/panic", panicking)

		rec := serve(a, http.MethodGet, "/fail")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Tight Framework Exception")
		assert.Contains(t, rec.Body.String(), "database unreachable")
		assert.Contains(t, rec.Body.String(), `class="origin">in `)
		assert.Contains(t, rec.Body.String(), "Stack trace")

		rec = serve(a, http.MethodGet, "/panic")
		assert.Contains(t, rec.Body.String(), "panic: nil map")
		assert.Contains(t, rec.Body.String(), "app_test.go")
	})
}

func TestServeHTTP_AbortHandlerPropagates(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)
	a.Get("/abort", func(*route.Context, ...string) (string, error) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		serve(a, http.MethodGet, "/abort")
	})
}

func TestApp_CustomNotFound(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)
	require.NoError(t, a.NotFound(func(c *route.Context, _ ...string) (string, error) {
		return "nothing at " + c.Path, nil
	}))
	require.Error(t, a.NotFound(nil))

	rec := serve(a, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "nothing at /nowhere", rec.Body.String())
}

// postsController renders one post through its show action.
type postsController struct {
	*mvc.BaseController
}

func newPostsController(m mvc.Model, v mvc.View) mvc.Controller {
	c := &postsController{BaseController: mvc.NewBaseController(m, v)}
	c.HandleAction("show", func(args ...string) error {
		if len(args) == 0 {
			return errors.New("missing post id")
		}
		c.Model().Set("id", args[0])
		return nil
	})
	return c
}

func newMVCApp(t *testing.T, values map[string]any, opts ...Option) *App {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"Root.html":   `<h1>home</h1>`,
		"Posts.html":  `<p>post {{.id}}</p>`,
		"Broken.html": `{{.title.missing}}`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}

	mvcValues := map[string]any{"enabled": true, "view_dir": dir}
	all := map[string]any{"mvc": mvcValues, "base_path": "/site"}
	for k, v := range values {
		all[k] = v
	}

	a := newTestApp(t, all, opts...)
	require.NoError(t, a.Register(mvc.Resource{Name: "root"}))
	require.NoError(t, a.Register(mvc.Resource{Name: "posts", Controller: newPostsController}))
	require.NoError(t, a.Register(mvc.Resource{
		Name: "broken",
		Model: func() mvc.Model {
			m := mvc.NewBaseModel()
			m.Set("title", 7)
			return m
		},
	}))
	require.NoError(t, a.Register(mvc.Resource{Name: "draft"}))
	return a
}

func TestRunMVC(t *testing.T) {
	t.Parallel()

	a := newMVCApp(t, nil)

	tests := []struct {
		name   string
		target string
		status int
		body   string
	}{
		{"index", "/site/", http.StatusOK, "<h1>home</h1>"},
		{"index without slash", "/site", http.StatusOK, "<h1>home</h1>"},
		{"action with argument", "/site/posts/show/12", http.StatusOK, "<p>post 12</p>"},
		{"action name ignores case", "/site/posts/SHOW/3/", http.StatusOK, "<p>post 3</p>"},
		{"unregistered resource", "/site/users/", http.StatusNotFound, "Page not found"},
		{"missing template", "/site/draft/", http.StatusNotFound, "Page not found"},
		{"render failure", "/site/broken/", http.StatusNotFound, "Page not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := serve(a, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestRunMVC_Failures(t *testing.T) {
	t.Parallel()

	a := newMVCApp(t, map[string]any{"development": true})

	rec := serve(a, http.MethodGet, "/site/posts/delete/")
	body := rec.Body.String()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body, "Tight Framework Exception")
	assert.Contains(t, body, "PostsController")
	assert.Regexp(t, `class="origin">in \S*resolver\.go at line \d+`, body)
	assert.Contains(t, body, "Stack trace")

	rec = serve(a, http.MethodGet, "/site/posts/show/")
	body = rec.Body.String()
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body, "missing post id")
	assert.Contains(t, body, `class="origin">in `)
	assert.Contains(t, body, "Stack trace")
}

func TestRunMVC_MissingViewDir(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, map[string]any{
		"mvc": map[string]any{"enabled": true, "view_dir": filepath.Join(t.TempDir(), "absent")},
	})
	require.NoError(t, a.Register(mvc.Resource{Name: "root"}))

	rec := serve(a, http.MethodGet, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	a := newMVCApp(t, map[string]any{"metrics": map[string]any{"enabled": true, "path": "/_metrics"}})

	serve(a, http.MethodGet, "/site/posts/show/1")
	serve(a, http.MethodGet, "/site/nope/")

	rec := serve(a, http.MethodGet, "/_metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "tight_http_requests_total")
	assert.Contains(t, body, `route="PostsController"`)
	assert.Contains(t, body, `route="_not_found"`)
	assert.NotContains(t, body, `route="/site/nope/"`)
}

func TestMetrics_CallerOwnedRecorder(t *testing.T) {
	t.Parallel()

	rec := metrics.MustNew(metrics.WithNamespace("blog"))
	a := newTestApp(t, nil, WithRecorder(rec))
	a.Get("/hello/:name", hello)

	serve(a, http.MethodGet, "/hello/ana")

	body := serve(a, http.MethodGet, "/metrics").Body.String()
	assert.Contains(t, body, `blog_dispatch_total{`)
	assert.Contains(t, body, `route="/hello/:name"`)

	a.shutdownObservability(t.Context())
	families, err := rec.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestTracing_RecordsRequestSpans(t *testing.T) {
	t.Parallel()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	a := newTestApp(t, nil, WithTracerProvider(tp))
	a.Get("/hello/:name", hello)

	serve(a, http.MethodGet, "/hello/ana")
	serve(a, http.MethodGet, "/missing")

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /hello/ana", spans[0].Name())
	assert.Equal(t, "GET /missing", spans[1].Name())
}

func TestModules(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil, WithModules(api.New()))
	assert.Equal(t, 1, a.Modules().Len())

	_, ok := a.Modules().Get(api.ModuleName)
	assert.True(t, ok)
	require.Error(t, a.AddModule(api.New()))

	a.shutdownModules()
	assert.Zero(t, a.Modules().Len())
}

func TestBanner(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	a := newTestApp(t, map[string]any{
		"development": true,
		"metrics":     map[string]any{"enabled": true},
	}, WithOutput(&buf), WithModules(api.New()))
	a.Get("/hello/:name", hello).Map([]string{"get", "post"}, "/map/", hello)

	a.printStartupBanner(":8080", "HTTP/1.1")

	out := buf.String()
	assert.Contains(t, out, "Service")
	assert.Contains(t, out, "http://0.0.0.0:8080")
	assert.Contains(t, out, "http://0.0.0.0:8080/metrics")
	assert.Contains(t, out, "ApiModule")
	assert.Contains(t, out, "Template")
	assert.Contains(t, out, "/hello/:name")
	assert.Contains(t, out, "GET,POST")
}

func TestBanner_ProductionStripsColors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	a := newTestApp(t, nil, WithOutput(&buf))
	a.Get("/", hello)

	a.printStartupBanner("127.0.0.1:9000", "h2c")

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "http://127.0.0.1:9000")
	assert.Contains(t, out, "Disabled")
	assert.NotContains(t, out, "Template")
}

func TestPrintRoutes(t *testing.T) {
	t.Parallel()

	a := newTestApp(t, nil)

	var buf bytes.Buffer
	a.PrintRoutes(&buf)
	assert.Equal(t, "No routes registered\n", buf.String())

	a.Get("/a/", hello).Delete("/a/:id", hello)
	buf.Reset()
	a.PrintRoutes(&buf)
	assert.Contains(t, buf.String(), "Methods")
	assert.Contains(t, buf.String(), "DELETE")
	assert.Contains(t, buf.String(), "/a/:id")
}
