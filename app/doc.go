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

// Package app is the Tight application context.
//
// An [App] owns everything a Tight site needs: the loaded configuration, the
// router, the MVC registry and resolver, the template engine, the module loader
// and the optional metrics and tracing providers. Applications create one App
// and pass it explicitly instead of reaching for a process-wide instance.
//
// # Dispatch
//
// [App.ServeHTTP] assigns a request id, starts a span when tracing is enabled,
// recovers panics and then dispatches in one of two modes:
//
//   - router mode (default): the request path and method are matched against
//     the routes registered with [App.Get], [App.Post], [App.Map] and friends
//   - MVC mode (mvc.enabled): the path below the base path names a resource,
//     an optional action and its arguments, and [App.RunMVC] resolves and
//     renders it
//
// Errors nobody handled reach the diagnostic handler. In development it
// renders an HTML page with the error type, message, origin and stack;
// otherwise it writes a JSON error body.
//
// # Example
//
//	cfg := config.MustNew(config.WithOptionalFile("tight.yaml"), config.WithEnv("TIGHT_"))
//	cfg.MustLoad(ctx)
//
//	a := app.MustNew(app.WithConfig(cfg))
//	a.Get("/hello/:name", func(_ *route.Context, args ...string) (string, error) {
//	    return "Hello " + args[0], nil
//	})
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := a.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Lifecycle
//
// [App.Run] runs OnStart hooks, starts the server, prints the banner, runs
// OnReady hooks and waits for ctx. On cancellation it runs OnShutdown hooks in
// reverse order, shuts the server down within server.shutdown_timeout, stops
// the modules and observability providers and finally runs OnStop hooks.
package app
