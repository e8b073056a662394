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

// Package mvc resolves request paths into model, view and controller
// triples and renders them.
//
// Resources are registered explicitly with factories:
//
//	reg := mvc.NewRegistry()
//	reg.MustRegister(mvc.Resource{
//	    Name:       "books",
//	    Controller: NewBooksController,
//	})
//
// A request path is split into a resource name, an optional action and
// positional arguments:
//
//	/                      -> index resource (Root by default)
//	/books                 -> Books
//	/books/show/42         -> Books, action "show", args ["42"]
//
// [Resolver.Resolve] returns a [Resolution] whose Status tells the caller
// whether the path resolved, is unknown, or failed:
//
//	res := resolver.Resolve(urn)
//	switch res.Status {
//	case mvc.Resolved:
//	    err = res.Execute(w)
//	case mvc.NotFound:
//	    // not-found page
//	case mvc.Failed:
//	    // res.Err describes the failure
//	}
//
// Execute runs the action, then the render lifecycle: View.OnLoad,
// Controller.OnRender, model variables assigned to the view, View.Render,
// Controller.OnFinish. Output is buffered and written only when the whole
// lifecycle succeeds.
package mvc
