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

package app_test

import (
	"fmt"
	"log/slog"
	"net/http/httptest"

	"github.com/AlejandroPF/tight/app"
	"github.com/AlejandroPF/tight/router/route"
)

func ExampleApp_ServeHTTP() {
	a := app.MustNew(app.WithLogger(slog.New(slog.DiscardHandler)))
	a.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
		return "Hello " + args[0], nil
	})

	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, httptest.NewRequest("GET", "/hello/world", nil))
	fmt.Println(rec.Code, rec.Body.String())
	// Output: 200 Hello world
}
