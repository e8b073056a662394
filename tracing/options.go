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
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Tracer.
type Option func(t *Tracer)

// WithServiceName sets the service.name resource attribute. Default "tight".
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		if name != "" {
			t.serviceName = name
		}
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) { t.serviceVersion = version }
}

// WithSampleRate samples the given fraction of root spans.
// Child spans follow their parent's decision.
func WithSampleRate(rate float64) Option {
	return func(t *Tracer) { t.sampleRate = rate }
}

// WithStdout writes finished spans to w. A nil w means os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(t *Tracer) {
		t.provider = StdoutProvider
		if w != nil {
			t.output = w
		}
	}
}

// WithOTLP pushes spans to an OTLP gRPC collector at endpoint ("host:port").
// insecure disables TLS on the connection.
func WithOTLP(endpoint string, insecure bool) Option {
	return func(t *Tracer) {
		t.provider = OTLPProvider
		t.endpoint = endpoint
		t.insecure = insecure
	}
}

// WithOTLPHTTP pushes spans to an OTLP HTTP endpoint such as
// "http://collector:4318". An empty endpoint uses the exporter's environment defaults.
func WithOTLPHTTP(endpoint string) Option {
	return func(t *Tracer) {
		t.provider = OTLPHTTPProvider
		t.endpoint = endpoint
	}
}

// WithProvider selects the provider by name.
func WithProvider(p Provider) Option {
	return func(t *Tracer) { t.provider = p }
}

// WithTracerProvider starts spans from a caller-owned provider.
// Provider options are ignored and Shutdown does not stop the provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(t *Tracer) {
		t.tracerProvider = provider
		t.customProvider = true
	}
}

// WithPropagator replaces the W3C trace context and baggage propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(t *Tracer) {
		if p != nil {
			t.propagator = p
		}
	}
}

// WithLogger sets the logger for provider lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}
