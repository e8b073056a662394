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

// Package tracing starts one OpenTelemetry server span per HTTP request.
//
// A [Tracer] owns its SDK provider unless one is supplied with
// [WithTracerProvider]. Incoming W3C trace context is honored:
//
//	tracer := tracing.MustNew(
//	    tracing.WithServiceName("blog"),
//	    tracing.WithStdout(os.Stderr),
//	)
//	defer tracer.Shutdown(context.Background())
//
//	handler := tracing.Middleware(tracer)(app)
//
// Spans are named "METHOD /path" and carry the method, path, host, user agent
// and response status. Responses with status 500 and above mark the span as an
// error.
package tracing
