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

// Package metrics records Tight dispatch and request metrics through the
// OpenTelemetry metrics API.
//
// The default provider exports to a private Prometheus registry served by
// [Recorder.Handler]:
//
//	recorder := metrics.MustNew(metrics.WithNamespace("tight"))
//	r := router.MustNew("/", router.WithRecorder(recorder))
//	scrape, _ := recorder.Handler()
//	mux.Handle("/metrics", scrape)
//
// Exported series:
//
//	tight_dispatch_total{route,method,outcome}
//	tight_dispatch_duration_seconds{route,method,outcome}
//	tight_http_requests_total{method,status_class}
//	tight_http_request_duration_seconds{method,status_class}
//
// Not-found dispatches are recorded under the route "_not_found" so that
// arbitrary request paths never become label values.
package metrics
