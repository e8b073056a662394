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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/AlejandroPF/tight/tracing"

// Provider selects where spans are exported.
type Provider string

const (
	// NoopProvider records spans in an SDK provider without exporting them.
	NoopProvider Provider = "noop"
	// StdoutProvider writes finished spans as JSON.
	StdoutProvider Provider = "stdout"
	// OTLPProvider pushes spans to an OTLP gRPC collector.
	OTLPProvider Provider = "otlp"
	// OTLPHTTPProvider pushes spans to an OTLP HTTP collector.
	OTLPHTTPProvider Provider = "otlp-http"
	// CustomProvider is reported when a caller-owned provider is used.
	CustomProvider Provider = "custom"
)

// ErrInvalidSampleRate is returned for sample rates outside [0, 1].
var ErrInvalidSampleRate = errors.New("sample rate must be within [0, 1]")

// Tracer starts request spans. It is safe for concurrent use.
type Tracer struct {
	provider       Provider
	serviceName    string
	serviceVersion string
	sampleRate     float64
	endpoint       string
	insecure       bool
	output         io.Writer
	logger         *slog.Logger

	tracerProvider trace.TracerProvider
	sdkProvider    *sdktrace.TracerProvider
	customProvider bool
	tracer         trace.Tracer
	propagator     propagation.TextMapPropagator

	shutdown atomic.Bool
}

// New creates a Tracer. The default provider records without exporting.
//
// Errors:
//   - [ErrInvalidSampleRate] if the sample rate is outside [0, 1]
//   - exporter construction failures
func New(opts ...Option) (*Tracer, error) {
	t := &Tracer{
		provider:    NoopProvider,
		serviceName: "tight",
		sampleRate:  1.0,
		output:      os.Stdout,
		logger:      slog.New(slog.DiscardHandler),
		propagator: propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.sampleRate < 0 || t.sampleRate > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, t.sampleRate)
	}
	if err := t.initProvider(); err != nil {
		return nil, err
	}
	t.tracer = t.tracerProvider.Tracer(instrumentationName)
	return t, nil
}

// MustNew creates a Tracer and panics on error.
func MustNew(opts ...Option) *Tracer {
	t, err := New(opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return t
}

func (t *Tracer) initProvider() error {
	if t.customProvider {
		if t.tracerProvider == nil {
			return errors.New("tracing: custom tracer provider is nil")
		}
		return nil
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(newResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(t.sampleRate))),
	}

	switch t.provider {
	case NoopProvider:

	case StdoutProvider:
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(t.output))
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithSyncer(exporter))

	case OTLPProvider:
		var exporterOpts []otlptracegrpc.Option
		if t.endpoint != "" {
			exporterOpts = append(exporterOpts, otlptracegrpc.WithEndpoint(t.endpoint))
		}
		if t.insecure {
			exporterOpts = append(exporterOpts, otlptracegrpc.WithInsecure())
		}
		exporter, err := otlptracegrpc.New(context.Background(), exporterOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))

	case OTLPHTTPProvider:
		var exporterOpts []otlptracehttp.Option
		if t.endpoint != "" {
			exporterOpts = append(exporterOpts, otlptracehttp.WithEndpointURL(t.endpoint))
		}
		exporter, err := otlptracehttp.New(context.Background(), exporterOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))

	default:
		return fmt.Errorf("tracing: unsupported provider %q", t.provider)
	}

	t.sdkProvider = sdktrace.NewTracerProvider(opts...)
	t.tracerProvider = t.sdkProvider
	t.logger.Debug("tracing provider initialized", "provider", string(t.provider), "service", t.serviceName)
	return nil
}

func newResource(serviceName, serviceVersion string) *resource.Resource {
	attrs := []attribute.KeyValue{semconv.ServiceName(serviceName)}
	if serviceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(serviceVersion))
	}
	return resource.NewWithAttributes(semconv.SchemaURL, attrs...)
}

// Provider returns the configured provider.
func (t *Tracer) Provider() Provider {
	if t.customProvider {
		return CustomProvider
	}
	return t.provider
}

// ServiceName returns the service.name resource attribute.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// TracerProvider returns the provider spans are started from.
func (t *Tracer) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// Extract returns ctx with the trace context carried by headers.
func (t *Tracer) Extract(ctx context.Context, headers http.Header) context.Context {
	return t.propagator.Extract(ctx, propagation.HeaderCarrier(headers))
}

// Inject writes the trace context of ctx into headers.
func (t *Tracer) Inject(ctx context.Context, headers http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(headers))
}

// StartRequest starts a server span for req. The returned context carries the span.
func (t *Tracer) StartRequest(req *http.Request) (context.Context, trace.Span) {
	ctx := t.Extract(req.Context(), req.Header)
	ctx, span := t.tracer.Start(ctx, req.Method+" "+req.URL.Path, trace.WithSpanKind(trace.SpanKindServer))
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.target", req.URL.Path),
			attribute.String("http.host", req.Host),
			attribute.String("http.user_agent", req.UserAgent()),
		)
	}
	return ctx, span
}

// FinishRequest records status on span and ends it.
func (t *Tracer) FinishRequest(span trace.Span, status int) {
	if !span.IsRecording() {
		span.End()
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	span.End()
}

// Shutdown flushes and stops a provider owned by the Tracer.
// Calling Shutdown more than once is safe.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if !t.shutdown.CompareAndSwap(false, true) || t.sdkProvider == nil {
		return nil
	}
	if err := t.sdkProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("tracing shutdown: %w", err)
	}
	t.logger.Debug("tracing provider stopped")
	return nil
}
