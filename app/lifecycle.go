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
	"context"
	"fmt"
	"slices"
	"sync"
)

// Hooks holds the lifecycle callbacks of an App.
type Hooks struct {
	mu         sync.Mutex
	onStart    []func(context.Context) error // sequential, first error aborts Run
	onReady    []func()                      // asynchronous
	onShutdown []func(context.Context)       // reverse registration order
	onStop     []func()                      // best effort
}

func (a *App) mustNotRun(kind string) {
	if a.running.Load() {
		panic("cannot register " + kind + " hook while the app is running")
	}
}

// OnStart registers a hook run before the server starts listening.
// Hooks run in order and the first error aborts [App.Run].
//
// Example:
//
//	a.OnStart(func(ctx context.Context) error {
//	    return loc.SetLocale("es")
//	})
func (a *App) OnStart(fn func(context.Context) error) {
	a.mustNotRun("OnStart")
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStart = append(a.hooks.onStart, fn)
}

// OnReady registers a hook run in its own goroutine once the server listens.
// A panicking hook is logged and does not stop the server.
func (a *App) OnReady(fn func()) {
	a.mustNotRun("OnReady")
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onReady = append(a.hooks.onReady, fn)
}

// OnShutdown registers a hook run during graceful shutdown. Hooks run in
// reverse registration order with a context bounded by server.shutdown_timeout.
func (a *App) OnShutdown(fn func(context.Context)) {
	a.mustNotRun("OnShutdown")
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onShutdown = append(a.hooks.onShutdown, fn)
}

// OnStop registers a hook run after the server stopped. Panics are logged.
func (a *App) OnStop(fn func()) {
	a.mustNotRun("OnStop")
	a.hooks.mu.Lock()
	defer a.hooks.mu.Unlock()
	a.hooks.onStop = append(a.hooks.onStop, fn)
}

func (h *Hooks) snapshot() (start []func(context.Context) error, ready []func(), shutdown []func(context.Context), stop []func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.onStart), slices.Clone(h.onReady), slices.Clone(h.onShutdown), slices.Clone(h.onStop)
}

func (a *App) executeStartHooks(ctx context.Context) error {
	hooks, _, _, _ := a.hooks.snapshot()
	for i, hook := range hooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("OnStart hook %d failed: %w", i, err)
		}
	}
	return nil
}

func (a *App) executeReadyHooks() {
	_, hooks, _, _ := a.hooks.snapshot()
	for _, hook := range hooks {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("OnReady hook panic", "error", r)
				}
			}()
			hook()
		}()
	}
}

func (a *App) executeShutdownHooks(ctx context.Context) {
	_, _, hooks, _ := a.hooks.snapshot()
	for _, hook := range slices.Backward(hooks) {
		hook(ctx)
	}
}

func (a *App) executeStopHooks() {
	_, _, _, hooks := a.hooks.snapshot()
	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					a.logger.Warn("OnStop hook panic", "error", r)
				}
			}()
			hook()
		}()
	}
}
