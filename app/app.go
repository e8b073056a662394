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
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/AlejandroPF/tight/config"
	tighterrors "github.com/AlejandroPF/tight/errors"
	"github.com/AlejandroPF/tight/logging"
	"github.com/AlejandroPF/tight/metrics"
	"github.com/AlejandroPF/tight/modules"
	"github.com/AlejandroPF/tight/mvc"
	"github.com/AlejandroPF/tight/render"
	"github.com/AlejandroPF/tight/router"
	"github.com/AlejandroPF/tight/router/route"
	"github.com/AlejandroPF/tight/tracing"
)

// DefaultServiceVersion is reported when no version is configured.
const DefaultServiceVersion = "dev"

// stdoutExportInterval is the export period of the stdout metrics provider.
const stdoutExportInterval = 30 * time.Second

// App is a Tight application. Create it with [New]; the zero value is not usable.
type App struct {
	cfg            *config.Config
	settings       config.Settings
	serviceVersion string

	logger  *slog.Logger
	logging *logging.Logger // nil when the logger was supplied

	router   *router.Router
	engine   render.Engine
	registry *mvc.Registry
	resolver *mvc.Resolver
	loader   *modules.Loader

	recorder      *metrics.Recorder
	ownsRecorder  bool
	scrapeHandler http.Handler
	tracer        *tracing.Tracer
	ownsTracer    bool

	diagnostics tighterrors.Formatter
	output      io.Writer
	hooks       Hooks
	handler     http.Handler
	running     atomic.Bool
}

// New creates an App.
//
// Components not supplied through options are built from the configuration:
// the logger from log.*, the template engine from templates.* and mvc.view_dir,
// the metrics recorder from metrics.* and the tracer from tracing.*.
//
// Errors:
//   - [ErrInvalidOption] for a nil option
//   - logger, metrics or tracing construction failures
//   - the first module whose OnLoad fails
func New(opts ...Option) (*App, error) {
	o := &options{output: os.Stdout}
	for _, opt := range opts {
		if opt == nil {
			return nil, fmt.Errorf("%w: nil option", ErrInvalidOption)
		}
		opt(o)
	}
	if o.cfg == nil {
		o.cfg = config.MustNew()
	}
	if o.output == nil {
		o.output = io.Discard
	}
	if o.serviceVersion == "" {
		o.serviceVersion = DefaultServiceVersion
	}

	a := &App{
		cfg:            o.cfg,
		settings:       o.cfg.Settings(),
		serviceVersion: o.serviceVersion,
		output:         o.output,
	}
	a.diagnostics = tighterrors.NewDiagnostic(a.settings.Development)

	if err := a.initLogger(o.logger); err != nil {
		return nil, err
	}
	if err := a.initMetrics(o.recorder); err != nil {
		return nil, err
	}
	if err := a.initTracing(o); err != nil {
		a.shutdownObservability(context.Background())
		return nil, err
	}

	routerOpts := []router.Option{
		router.WithDocumentRoot(a.settings.DocumentRoot),
		router.WithLogger(a.logger.With("component", "router")),
		router.WithErrorHandler(a.handleError),
	}
	if a.recorder != nil {
		routerOpts = append(routerOpts, router.WithRecorder(a.recorder))
	}
	r, err := router.New(a.settings.BasePath, routerOpts...)
	if err != nil {
		a.shutdownObservability(context.Background())
		return nil, err
	}
	a.router = r

	a.engine = o.engine
	if a.engine == nil {
		a.engine = newEngine(a.settings)
	}
	a.registry = o.registry
	if a.registry == nil {
		a.registry = mvc.NewRegistry()
	}
	a.resolver = mvc.NewResolver(a.registry, a.engine,
		mvc.WithIndexName(a.settings.MVC.IndexName),
		mvc.WithViewDir(a.settings.MVC.ViewDir),
		mvc.WithViewExt(a.settings.MVC.ViewExt),
		mvc.WithLogger(a.logger.With("component", "mvc")),
	)

	a.loader = modules.NewLoader(a.cfg, a.logger.With("component", "modules"))
	for _, m := range o.modules {
		if err := a.loader.Add(m); err != nil {
			a.shutdownObservability(context.Background())
			return nil, fmt.Errorf("failed to load module: %w", err)
		}
	}

	a.handler = a.buildHandler()

	a.logger.Debug("application initialized",
		"base_path", a.router.BasePath(),
		"mvc", a.settings.MVC.Enabled,
		"development", a.settings.Development,
	)
	return a, nil
}

// MustNew creates an App and panics on error.
func MustNew(opts ...Option) *App {
	a, err := New(opts...)
	if err != nil {
		panic("app initialization failed: " + err.Error())
	}
	return a
}

func (a *App) initLogger(logger *slog.Logger) error {
	if logger != nil {
		a.logger = logger
		return nil
	}

	level, err := logging.ParseLevel(a.settings.Log.Level)
	if err != nil {
		return err
	}
	handler, err := logging.ParseHandlerType(a.settings.Log.Format)
	if err != nil {
		return err
	}
	env := "production"
	if a.settings.Development {
		env = "development"
	}

	l, err := logging.New(
		logging.WithHandlerType(handler),
		logging.WithLevel(level),
		logging.WithServiceName(a.settings.Log.Service),
		logging.WithServiceVersion(a.serviceVersion),
		logging.WithEnvironment(env),
	)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logging = l
	a.logger = l.Logger()
	return nil
}

func (a *App) initMetrics(rec *metrics.Recorder) error {
	if rec == nil && a.settings.Metrics.Enabled {
		opts := []metrics.Option{
			metrics.WithNamespace(a.settings.Metrics.Namespace),
			metrics.WithServiceName(a.settings.Log.Service),
			metrics.WithLogger(a.logger.With("component", "metrics")),
		}
		switch metrics.Provider(a.settings.Metrics.Provider) {
		case metrics.StdoutProvider:
			opts = append(opts, metrics.WithStdout(stdoutExportInterval))
		case metrics.OTLPProvider:
			opts = append(opts, metrics.WithOTLP(a.settings.Metrics.Endpoint))
		default:
			opts = append(opts, metrics.WithPrometheus())
		}

		var err error
		rec, err = metrics.New(opts...)
		if err != nil {
			return fmt.Errorf("failed to create metrics recorder: %w", err)
		}
		a.ownsRecorder = true
	}
	if rec == nil {
		return nil
	}

	a.recorder = rec
	if h, err := rec.Handler(); err == nil {
		a.scrapeHandler = h
	}
	return nil
}

func (a *App) initTracing(o *options) error {
	var opts []tracing.Option
	switch {
	case o.tracerProvider != nil:
		opts = append(opts, tracing.WithTracerProvider(o.tracerProvider))
	case a.settings.Tracing.Enabled:
		opts = append(opts,
			tracing.WithProvider(tracing.Provider(a.settings.Tracing.Exporter)),
			tracing.WithSampleRate(a.settings.Tracing.SampleRate),
			tracing.WithServiceVersion(a.serviceVersion),
		)
		switch tracing.Provider(a.settings.Tracing.Exporter) {
		case tracing.OTLPProvider:
			opts = append(opts, tracing.WithOTLP(a.settings.Tracing.Endpoint, a.settings.Tracing.Insecure))
		case tracing.OTLPHTTPProvider:
			opts = append(opts, tracing.WithOTLPHTTP(a.settings.Tracing.Endpoint))
		}
		a.ownsTracer = true
	default:
		return nil
	}
	opts = append(opts,
		tracing.WithServiceName(a.settings.Tracing.ServiceName),
		tracing.WithLogger(a.logger.With("component", "tracing")),
	)

	t, err := tracing.New(opts...)
	if err != nil {
		a.ownsTracer = false
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	a.tracer = t
	return nil
}

// newEngine returns the engine named by templates.engine, rooted at mvc.view_dir.
func newEngine(s config.Settings) render.Engine {
	reload := render.WithReload(s.Templates.Reload || s.Development)
	if s.Templates.Engine == "text" {
		return render.NewText(s.MVC.ViewDir, reload)
	}
	return render.NewHTML(s.MVC.ViewDir, reload)
}

// Config returns the application configuration.
func (a *App) Config() *config.Config { return a.cfg }

// Settings returns the settings the app was built with.
func (a *App) Settings() config.Settings { return a.settings }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Router returns the underlying router.
func (a *App) Router() *router.Router { return a.router }

// Engine returns the template engine.
func (a *App) Engine() render.Engine { return a.engine }

// Registry returns the MVC resource registry.
func (a *App) Registry() *mvc.Registry { return a.registry }

// Resolver returns the MVC resolver.
func (a *App) Resolver() *mvc.Resolver { return a.resolver }

// Modules returns the module loader.
func (a *App) Modules() *modules.Loader { return a.loader }

// Metrics returns the metrics recorder, or nil when metrics are off.
func (a *App) Metrics() *metrics.Recorder { return a.recorder }

// Tracer returns the request tracer, or nil when tracing is off.
func (a *App) Tracer() *tracing.Tracer { return a.tracer }

// ServiceVersion returns the configured service version.
func (a *App) ServiceVersion() string { return a.serviceVersion }

// Get registers a route for GET requests.
func (a *App) Get(pattern string, chain ...route.HandlerFunc) *App {
	a.router.Get(pattern, chain...)
	return a
}

// Post registers a route for POST requests.
func (a *App) Post(pattern string, chain ...route.HandlerFunc) *App {
	a.router.Post(pattern, chain...)
	return a
}

// Update registers a route for UPDATE requests.
func (a *App) Update(pattern string, chain ...route.HandlerFunc) *App {
	a.router.Update(pattern, chain...)
	return a
}

// Delete registers a route for DELETE requests.
func (a *App) Delete(pattern string, chain ...route.HandlerFunc) *App {
	a.router.Delete(pattern, chain...)
	return a
}

// Map registers a route for several methods.
func (a *App) Map(methods []string, pattern string, chain ...route.HandlerFunc) *App {
	a.router.Map(methods, pattern, chain...)
	return a
}

// NotFound replaces the handler used when no route or MVC resource matches.
func (a *App) NotFound(h route.HandlerFunc) error {
	return a.router.NotFound(h)
}

// Register adds an MVC resource.
func (a *App) Register(res mvc.Resource) error {
	return a.registry.Register(res)
}

// AddModule loads m.
func (a *App) AddModule(m modules.Module) error {
	return a.loader.Add(m)
}
