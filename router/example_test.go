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

package router_test

import (
	"fmt"

	"github.com/AlejandroPF/tight/router"
	"github.com/AlejandroPF/tight/router/route"
)

// ExampleRouter_Dispatch demonstrates registration and dispatch.
func ExampleRouter_Dispatch() {
	r := router.MustNew("/")
	r.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
		return "Hello " + args[0], nil
	})
	r.Map([]string{"get", "post"}, "/map/", func(*route.Context, ...string) (string, error) {
		return "map", nil
	})

	for _, req := range [][2]string{
		{"/hello/world", "GET"},
		{"/map/", "POST"},
		{"/map/", "OPTIONS"},
	} {
		out, _ := r.Dispatch(req[0], req[1])
		fmt.Println(out)
	}
	// Output:
	// Hello world
	// map
	// Page not found
}

// ExampleRouter_Get_middleware demonstrates a middleware chain.
func ExampleRouter_Get_middleware() {
	mw := func(s string) route.HandlerFunc {
		return func(*route.Context, ...string) (string, error) { return s, nil }
	}

	r := router.MustNew("/")
	r.Get("/middle/", mw("mid1 "), mw("mid2 "), mw("end"))

	out, _ := r.Dispatch("/middle/", "get")
	fmt.Println(out)
	// Output: mid1 mid2 end
}

// ExampleRouter_RequestURN demonstrates stripping the base path.
func ExampleRouter_RequestURN() {
	r := router.MustNew("/blog")
	fmt.Println(r.RequestURN("/blog/posts/12?page=2"))
	// Output: /posts/12/
}
