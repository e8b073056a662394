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

package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/AlejandroPF/tight/router"
)

const instrumentationName = "github.com/AlejandroPF/tight/metrics"

// DefaultDurationBuckets are histogram boundaries in seconds.
var DefaultDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// ErrNoHandler is returned by Handler when the provider does not serve scrapes.
var ErrNoHandler = errors.New("metrics handler is only available with the prometheus provider")

// Provider selects where metrics are exported.
type Provider string

const (
	// PrometheusProvider exposes a scrape endpoint (default).
	PrometheusProvider Provider = "prometheus"
	// StdoutProvider prints metrics periodically.
	StdoutProvider Provider = "stdout"
	// OTLPProvider pushes to an OTLP HTTP collector.
	OTLPProvider Provider = "otlp"
)

// Recorder records dispatch outcomes and request latencies.
// It implements [router.Recorder] and is safe for concurrent use.
type Recorder struct {
	provider        Provider
	namespace       string
	serviceName     string
	otlpEndpoint    string
	exportInterval  time.Duration
	durationBuckets []float64
	logger          *slog.Logger

	meterProvider  metric.MeterProvider
	sdkProvider    *sdkmetric.MeterProvider
	customProvider bool

	registry *promclient.Registry
	handler  http.Handler

	dispatchCount    metric.Int64Counter
	dispatchDuration metric.Float64Histogram
	requestCount     metric.Int64Counter
	requestDuration  metric.Float64Histogram

	shutdown atomic.Bool
}

var _ router.Recorder = (*Recorder)(nil)

// New creates a Recorder.
func New(opts ...Option) (*Recorder, error) {
	r := &Recorder{
		provider:        PrometheusProvider,
		namespace:       "tight",
		serviceName:     "tight",
		exportInterval:  30 * time.Second,
		durationBuckets: DefaultDurationBuckets,
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.namespace == "" {
		return nil, errors.New("metrics: namespace must not be empty")
	}
	if err := r.initProvider(); err != nil {
		return nil, err
	}
	if err := r.initInstruments(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustNew creates a Recorder and panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic("metrics initialization failed: " + err.Error())
	}
	return r
}

func (r *Recorder) initProvider() error {
	if r.customProvider {
		if r.meterProvider == nil {
			return errors.New("metrics: custom meter provider is nil")
		}
		return nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", r.serviceName))

	var reader sdkmetric.Reader
	switch r.provider {
	case PrometheusProvider:
		r.registry = promclient.NewRegistry()
		exporter, err := prometheus.New(prometheus.WithRegisterer(r.registry))
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		reader = exporter
		r.handler = promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})

	case StdoutProvider:
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))

	case OTLPProvider:
		var opts []otlpmetrichttp.Option
		if r.otlpEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpointURL(r.otlpEndpoint))
		}
		exporter, err := otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(r.exportInterval))

	default:
		return fmt.Errorf("metrics: unsupported provider %q", r.provider)
	}

	r.sdkProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	r.meterProvider = r.sdkProvider
	r.logger.Debug("metrics provider initialized", "provider", string(r.provider))
	return nil
}

func (r *Recorder) initInstruments() error {
	meter := r.meterProvider.Meter(instrumentationName)

	var err error
	r.dispatchCount, err = meter.Int64Counter(
		r.namespace+"_dispatch_total",
		metric.WithDescription("Number of router dispatches by route and outcome"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch counter: %w", err)
	}

	r.dispatchDuration, err = meter.Float64Histogram(
		r.namespace+"_dispatch_duration_seconds",
		metric.WithDescription("Duration of router dispatches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create dispatch histogram: %w", err)
	}

	r.requestCount, err = meter.Int64Counter(
		r.namespace+"_http_requests_total",
		metric.WithDescription("Number of HTTP requests by method and status class"),
	)
	if err != nil {
		return fmt.Errorf("failed to create request counter: %w", err)
	}

	r.requestDuration, err = meter.Float64Histogram(
		r.namespace+"_http_request_duration_seconds",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(r.durationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create request histogram: %w", err)
	}
	return nil
}

// RecordDispatch records one router dispatch.
func (r *Recorder) RecordDispatch(ctx context.Context, template, method string, outcome router.Outcome, elapsed time.Duration) {
	if r.shutdown.Load() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("route", template),
		attribute.String("method", method),
		attribute.String("outcome", string(outcome)),
	)
	r.dispatchCount.Add(ctx, 1, attrs)
	r.dispatchDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordRequest records one HTTP request.
func (r *Recorder) RecordRequest(ctx context.Context, method string, status int, elapsed time.Duration) {
	if r.shutdown.Load() {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("status_class", StatusClass(status)),
	)
	r.requestCount.Add(ctx, 1, attrs)
	r.requestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// StatusClass returns "2xx", "4xx", ... for status, or "unknown".
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// Handler returns the Prometheus scrape handler.
//
// Errors:
//   - [ErrNoHandler] if the provider is not Prometheus
func (r *Recorder) Handler() (http.Handler, error) {
	if r.handler == nil {
		return nil, ErrNoHandler
	}
	return r.handler, nil
}

// Registry returns the private Prometheus registry, or nil for other providers.
func (r *Recorder) Registry() *promclient.Registry {
	return r.registry
}

// Provider returns the configured provider.
func (r *Recorder) Provider() Provider {
	if r.customProvider {
		return "custom"
	}
	return r.provider
}

// Shutdown flushes and stops a provider owned by the Recorder. Later
// recordings are dropped. Calling Shutdown more than once is safe.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.shutdown.CompareAndSwap(false, true) {
		return nil
	}
	if r.sdkProvider == nil {
		return nil
	}
	if err := r.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	r.logger.Debug("metrics provider stopped")
	return nil
}
