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
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Run listens on server.addr and serves until ctx is canceled, then shuts
// down gracefully.
//
// Signal handling belongs to the caller:
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	if err := a.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Errors:
//   - [ErrAlreadyRunning] if Run is already active
//   - the first failing OnStart hook
//   - listen, serve and forced shutdown failures
func (a *App) Run(ctx context.Context) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", a.settings.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.settings.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is like [App.Run] but accepts connections on ln. ln is closed on return.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if !a.running.CompareAndSwap(false, true) {
		_ = ln.Close()
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.executeStartHooks(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("startup failed: %w", err)
	}

	var handler http.Handler = a
	protocol := "HTTP/1.1"
	if a.settings.Server.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
		protocol = "h2c"
	}

	server := &http.Server{
		Handler:      handler,
		ReadTimeout:  a.settings.Server.ReadTimeout,
		WriteTimeout: a.settings.Server.WriteTimeout,
	}
	return a.runServer(ctx, server, ln, protocol)
}

// runServer serves on ln until ctx is done or the server fails.
func (a *App) runServer(ctx context.Context, server *http.Server, ln net.Listener, protocol string) error {
	addr := ln.Addr().String()

	serverErr := make(chan error, 1)
	serverReady := make(chan struct{})
	go func() {
		if a.settings.Server.Banner {
			a.printStartupBanner(addr, protocol)
		}
		a.logger.Info("server starting",
			"address", addr,
			"protocol", protocol,
			"base_path", a.router.BasePath(),
			"mvc", a.settings.MVC.Enabled,
			"metrics", a.recorder != nil,
			"tracing", a.tracer != nil,
		)
		close(serverReady)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("%s server failed: %w", protocol, err)
		}
	}()

	<-serverReady
	a.executeReadyHooks()

	select {
	case err := <-serverErr:
		a.teardown()
		return err
	case <-ctx.Done():
		a.logger.Info("server shutting down", "reason", context.Cause(ctx))
	}

	// ctx is already done; shutdown gets its own deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.Server.ShutdownTimeout)
	defer cancel()

	a.executeShutdownHooks(shutdownCtx)

	err := server.Shutdown(shutdownCtx)
	a.teardown()
	if err != nil {
		a.logger.Warn("server forced to shutdown", "address", addr, "error", err)
		return fmt.Errorf("%s server forced to shutdown: %w", protocol, err)
	}

	a.logger.Info("server exited", "address", addr)
	return nil
}

// teardown removes modules, flushes owned providers and runs the OnStop hooks.
// It runs on every exit path of a started server.
func (a *App) teardown() {
	ctx, cancel := context.WithTimeout(context.Background(), a.settings.Server.ShutdownTimeout)
	defer cancel()

	a.shutdownModules()
	a.shutdownObservability(ctx)
	a.executeStopHooks()
}

// shutdownModules removes every loaded module so that OnRemove runs.
func (a *App) shutdownModules() {
	for _, m := range a.loader.Modules() {
		if _, err := a.loader.Remove(m.Name()); err != nil {
			a.logger.Warn("module removal failed", "module", m.Name(), "error", err)
		}
	}
}

// shutdownObservability stops the providers owned by the app.
func (a *App) shutdownObservability(ctx context.Context) {
	if a.recorder != nil && a.ownsRecorder {
		if err := a.recorder.Shutdown(ctx); err != nil {
			a.logger.Warn("metrics shutdown failed", "error", err)
		}
	}
	if a.tracer != nil && a.ownsTracer {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracing shutdown failed", "error", err)
		}
	}
}
