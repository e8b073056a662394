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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/metrics"
	"github.com/AlejandroPF/tight/modules"
	"github.com/AlejandroPF/tight/mvc"
	"github.com/AlejandroPF/tight/render"
)

// options collects the values passed to [New].
type options struct {
	cfg            *config.Config
	logger         *slog.Logger
	engine         render.Engine
	recorder       *metrics.Recorder
	tracerProvider trace.TracerProvider
	output         io.Writer
	modules        []modules.Module
	registry       *mvc.Registry
	serviceVersion string
}

// Option configures an App during [New].
type Option func(*options)

// WithConfig uses cfg as the application configuration.
// cfg should already be loaded; an unloaded Config yields the defaults.
//
// Example:
//
//	cfg := config.MustNew(config.WithFile("tight.yaml"))
//	cfg.MustLoad(ctx)
//	a := app.MustNew(app.WithConfig(cfg))
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger replaces the logger built from the log.* settings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRenderer replaces the template engine selected by templates.engine.
func WithRenderer(engine render.Engine) Option {
	return func(o *options) {
		o.engine = engine
	}
}

// WithRecorder records dispatches and requests through rec instead of a
// recorder built from the metrics.* settings. The app does not shut rec down.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(o *options) {
		o.recorder = rec
	}
}

// WithTracerProvider enables request spans started from tp, regardless of
// tracing.enabled. The app does not shut tp down.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithOutput sets where the startup banner is printed. Default os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithModules adds modules to the loader in the given order.
func WithModules(mods ...modules.Module) Option {
	return func(o *options) {
		o.modules = append(o.modules, mods...)
	}
}

// WithRegistry uses a prepared MVC registry.
func WithRegistry(reg *mvc.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithServiceVersion sets the version shown in the banner and on spans.
func WithServiceVersion(version string) Option {
	return func(o *options) {
		o.serviceVersion = version
	}
}
