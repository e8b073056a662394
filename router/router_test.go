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
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlejandroPF/tight/router/compiler"
	"github.com/AlejandroPF/tight/router/route"
)

func text(s string) route.HandlerFunc {
	return func(*route.Context, ...string) (string, error) { return s, nil }
}

// newDemoRouter builds the route table used by most dispatch tests.
func newDemoRouter(t *testing.T) *Router {
	t.Helper()

	r := MustNew("/")
	r.Get("/hello/", text("Hello")).
		Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
			return "Hello " + args[0], nil
		}).
		Post("/world/:name", func(_ *route.Context, args ...string) (string, error) {
			return args[0] + " world", nil
		}).
		Map([]string{"get", "post"}, "/map/", text("map")).
		Update("/upd/", text("update")).
		Delete("/del/", text("delete")).
		Get("/middle/", text("mid1 "), text("mid2 "), text("end"))
	return r
}

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	r := newDemoRouter(t)

	tests := []struct {
		name   string
		uri    string
		method string
		want   string
	}{
		{"static get", "/hello/", "get", "Hello"},
		{"method mismatch", "/hello/", "post", DefaultNotFoundMessage},
		{"placeholder", "/hello/world", "GET", "Hello world"},
		{"post placeholder", "/world/hello", "POST", "hello world"},
		{"map get", "/map/", "get", "map"},
		{"map post", "/map/", "post", "map"},
		{"map options", "/map/", "options", DefaultNotFoundMessage},
		{"update", "/upd/", "update", "update"},
		{"delete", "/del/", "delete", "delete"},
		{"middleware chain", "/middle/", "get", "mid1 mid2 end"},
		{"unknown path", "/nope/", "get", DefaultNotFoundMessage},
		{"placeholder rejects slash", "/hello/a/b", "get", DefaultNotFoundMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := r.Dispatch(tt.uri, tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRouter_NotFound(t *testing.T) {
	t.Parallel()

	r := newDemoRouter(t)
	require.NoError(t, r.NotFound(text("Error 404")))

	out, err := r.Dispatch("/missing/", "get")
	require.NoError(t, err)
	assert.Equal(t, "Error 404", out)

	require.ErrorIs(t, r.NotFound(nil), ErrInvalidArgument)

	out, err = r.Dispatch("/missing/", "get")
	require.NoError(t, err)
	assert.Equal(t, "Error 404", out, "failed replacement keeps the previous handler")
}

func TestRouter_WithNotFound(t *testing.T) {
	t.Parallel()

	r := MustNew("/", WithNotFound(func(c *route.Context, args ...string) (string, error) {
		assert.Nil(t, c.Route)
		assert.Empty(t, args)
		return "missing " + c.Path, nil
	}))

	out, err := r.Dispatch("/x/", "get")
	require.NoError(t, err)
	assert.Equal(t, "missing /x/", out)
}

// TestRouter_FirstRegisteredWins verifies overlapping routes resolve to the earliest.
func TestRouter_FirstRegisteredWins(t *testing.T) {
	t.Parallel()

	r := MustNew("/")
	r.Get("/items/:id", text("first")).
		Get("/items/:slug", text("second")).
		Post("/items/:id", text("post"))

	out, err := r.Dispatch("/items/7", "get")
	require.NoError(t, err)
	assert.Equal(t, "first", out)

	// a path match with the wrong method does not stop the scan
	out, err = r.Dispatch("/items/7", "post")
	require.NoError(t, err)
	assert.Equal(t, "post", out)
}

func TestRouter_AddRoute_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		methods []string
		pattern string
		chain   []route.HandlerFunc
		wantErr error
	}{
		{"no chain", []string{"get"}, "/x", nil, ErrInvalidArgument},
		{"nil handler", []string{"get"}, "/x", []route.HandlerFunc{nil}, ErrInvalidArgument},
		{"nil middleware", []string{"get"}, "/x", []route.HandlerFunc{nil, text("x")}, ErrInvalidArgument},
		{"no methods", nil, "/x", []route.HandlerFunc{text("x")}, ErrInvalidArgument},
		{"blank methods", []string{" ", ""}, "/x", []route.HandlerFunc{text("x")}, ErrInvalidArgument},
		{"duplicate placeholder", []string{"get"}, "/:a/:a", []route.HandlerFunc{text("x")}, compiler.ErrDuplicateParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := MustNew("/")
			rt, err := r.AddRoute(tt.methods, tt.pattern, tt.chain...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, rt)
			assert.Empty(t, r.Routes(), "nothing registered on error")
		})
	}
}

func TestRouter_FluentPanics(t *testing.T) {
	t.Parallel()

	r := MustNew("/")
	assert.Panics(t, func() { r.Get("/x") })
	assert.Panics(t, func() { r.Map(nil, "/x", text("x")) })
	assert.NotPanics(t, func() { r.Handle("PATCH", "/x", text("x")) })

	out, err := r.Dispatch("/x", "patch")
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestRouter_BasePath(t *testing.T) {
	t.Parallel()

	r := MustNew("/blog")
	assert.Equal(t, "/blog/", r.BasePath())

	r.Get("/posts/:id", func(_ *route.Context, args ...string) (string, error) {
		return "post " + args[0], nil
	})
	require.Len(t, r.Routes(), 1)
	assert.Equal(t, "/blog/posts/:id", r.Routes()[0].Template())

	out, err := r.Dispatch("/blog/posts/12", "get")
	require.NoError(t, err)
	assert.Equal(t, "post 12", out)

	out, err = r.Dispatch("/posts/12", "get")
	require.NoError(t, err)
	assert.Equal(t, DefaultNotFoundMessage, out)
}

func TestRouter_DispatchError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := MustNew("/")
	r.Get("/fail/", text("before "), func(*route.Context, ...string) (string, error) {
		return "", boom
	})

	out, err := r.Dispatch("/fail/", "get")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "before ", out)
}

func TestRouter_DispatchContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	r := MustNew("/")
	r.Get("/ctx/", func(c *route.Context, _ ...string) (string, error) {
		v, _ := c.Value(key{}).(string)
		return v, nil
	})

	ctx := context.WithValue(context.Background(), key{}, "carried")
	out, err := r.DispatchContext(ctx, "/ctx/", "GET")
	require.NoError(t, err)
	assert.Equal(t, "carried", out)
}

func TestRouter_Lookup(t *testing.T) {
	t.Parallel()

	r := newDemoRouter(t)

	rt, params, ok := r.Lookup("/hello/world", "get")
	require.True(t, ok)
	assert.Equal(t, "/hello/:name", rt.Template())
	assert.Equal(t, "world", params.Value("name"))

	_, _, ok = r.Lookup("/hello/world", "delete")
	assert.False(t, ok)
}

func TestRouter_Recorder(t *testing.T) {
	t.Parallel()

	type call struct {
		template, method string
		outcome          Outcome
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	rec := RecorderFunc(func(_ context.Context, template, method string, outcome Outcome, elapsed time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		assert.GreaterOrEqual(t, elapsed, time.Duration(0))
		calls = append(calls, call{template, method, outcome})
	})

	r := MustNew("/", WithRecorder(rec))
	r.Get("/ok/", text("ok")).
		Get("/err/", func(*route.Context, ...string) (string, error) { return "", errors.New("x") })

	_, _ = r.Dispatch("/ok/", "GET")
	_, _ = r.Dispatch("/err/", "get")
	_, _ = r.Dispatch("/none/", "get")

	assert.Equal(t, []call{
		{"/ok/", "get", OutcomeMatched},
		{"/err/", "get", OutcomeError},
		{NotFoundTemplate, "get", OutcomeNotFound},
	}, calls)
}

func TestRouter_NilOption(t *testing.T) {
	t.Parallel()

	r, err := New("/", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Nil(t, r)
	assert.Panics(t, func() { MustNew("/", nil) })
}

// TestRouter_ConcurrentDispatch verifies concurrent dispatches and registrations are safe.
func TestRouter_ConcurrentDispatch(t *testing.T) {
	t.Parallel()

	r := MustNew("/")
	r.Get("/echo/:v", func(_ *route.Context, args ...string) (string, error) {
		return args[0], nil
	})

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%10 == 0 {
				r.Get(fmt.Sprintf("/late%d/", n), text("late"))
				return
			}
			v := fmt.Sprintf("v%d", n)
			out, err := r.Dispatch("/echo/"+v, "get")
			if err != nil {
				errs <- err
				return
			}
			if out != v {
				errs <- fmt.Errorf("got %q, want %q", out, v)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, r.Routes(), 11)
}
