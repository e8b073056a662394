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

package router

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Outcome classifies the result of a dispatch.
type Outcome string

const (
	// OutcomeMatched means a route matched and its chain completed.
	OutcomeMatched Outcome = "matched"

	// OutcomeNotFound means no route matched and the not-found handler ran.
	OutcomeNotFound Outcome = "not_found"

	// OutcomeError means a middleware or handler returned an error.
	OutcomeError Outcome = "error"
)

// NotFoundTemplate is the template label recorded for not-found dispatches.
// Recorders should use the template rather than the raw path to bound cardinality.
const NotFoundTemplate = "_not_found"

// Recorder receives one call per dispatch.
//
// Implementations typically record metrics. They must be safe for concurrent use.
type Recorder interface {
	RecordDispatch(ctx context.Context, template, method string, outcome Outcome, elapsed time.Duration)
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, template, method string, outcome Outcome, elapsed time.Duration)

// RecordDispatch calls f.
func (f RecorderFunc) RecordDispatch(ctx context.Context, template, method string, outcome Outcome, elapsed time.Duration) {
	f(ctx, template, method, outcome, elapsed)
}

type noopRecorder struct{}

func (noopRecorder) RecordDispatch(context.Context, string, string, Outcome, time.Duration) {}

// noopLogger discards everything. Used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
