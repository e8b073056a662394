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
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Option configures a Recorder.
type Option func(r *Recorder)

// WithNamespace sets the prefix of every metric name. Default "tight".
func WithNamespace(namespace string) Option {
	return func(r *Recorder) { r.namespace = namespace }
}

// WithServiceName sets the service.name attribute. Default "tight".
func WithServiceName(name string) Option {
	return func(r *Recorder) { r.serviceName = name }
}

// WithPrometheus exports to a private Prometheus registry (default).
func WithPrometheus() Option {
	return func(r *Recorder) { r.provider = PrometheusProvider }
}

// WithStdout exports to stdout every interval. Intended for development.
func WithStdout(interval time.Duration) Option {
	return func(r *Recorder) {
		r.provider = StdoutProvider
		r.exportInterval = interval
	}
}

// WithOTLP pushes to an OTLP HTTP endpoint such as "http://collector:4318".
func WithOTLP(endpoint string) Option {
	return func(r *Recorder) {
		r.provider = OTLPProvider
		r.otlpEndpoint = endpoint
	}
}

// WithMeterProvider records through a caller-owned provider.
// Provider options are ignored and Shutdown does not stop the provider.
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(r *Recorder) {
		r.meterProvider = provider
		r.customProvider = true
	}
}

// WithDurationBuckets sets the histogram boundaries in seconds.
func WithDurationBuckets(buckets ...float64) Option {
	return func(r *Recorder) {
		if len(buckets) > 0 {
			r.durationBuckets = buckets
		}
	}
}

// WithLogger sets the logger for provider lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}
