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
	"testing"

	"github.com/AlejandroPF/tight/router/route"
)

var benchRoutes = []string{
	"/",
	"/users/",
	"/users/:id",
	"/users/:id/posts",
	"/users/:id/posts/:post_id",
	"/users/:id/posts/:post_id/comments",
	"/users/:id/posts/:post_id/comments/:comment_id",
	"/articles/:slug",
	"/articles/:slug/edit",
	"/tags/:tag/page/:page",
	"/search/:query",
	"/api/v1/orders/:order",
	"/api/v1/orders/:order/items/:item",
	"/api/v1/products/:sku",
	"/api/v1/products/:sku/reviews",
	"/static/css/site",
	"/about",
	"/contact",
	"/archive/:year/:month",
	"/archive/:year/:month/:day",
}

var benchPaths = []string{
	"/",
	"/users/42",
	"/users/42/posts/7/comments/99",
	"/articles/hello_world/edit",
	"/api/v1/orders/1001/items/3",
	"/archive/2025/06/21",
}

func newBenchRouter(b *testing.B) *Router {
	b.Helper()

	r := MustNew("/")
	h := func(_ *route.Context, args ...string) (string, error) {
		return "ok", nil
	}
	for _, p := range benchRoutes {
		r.Get(p, h)
	}
	return r
}

func BenchmarkRouter_Dispatch(b *testing.B) {
	r := newBenchRouter(b)

	for _, path := range benchPaths {
		b.Run(path, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := r.Dispatch(path, route.MethodGet); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRouter_NotFound(b *testing.B) {
	r := newBenchRouter(b)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Dispatch("/nowhere/at/all", route.MethodGet)
	}
}

func BenchmarkRouter_Parallel(b *testing.B) {
	r := newBenchRouter(b)

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = r.Dispatch(benchPaths[i%len(benchPaths)], route.MethodGet)
			i++
		}
	})
}
