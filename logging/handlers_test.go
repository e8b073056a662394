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

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithConsoleHandler(), WithOutput(&buf), WithServiceName("tight"))

	logger.Warn("dispatch failed", "template", "/x/", "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, colorYellow)
	assert.Contains(t, out, "dispatch failed")
	assert.Contains(t, out, "service=tight")
	assert.Contains(t, out, "template=/x/")
	assert.Contains(t, out, "error=boom")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestConsoleHandler_Groups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := newConsoleHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(h).WithGroup("http").With("method", "get")

	logger.Debug("request", slog.Group("route", "template", "/a/"), "status", 200)

	out := buf.String()
	assert.Contains(t, out, "http.method=get")
	assert.Contains(t, out, "http.route.template=/a/")
	assert.Contains(t, out, "http.status=200")
	assert.Contains(t, out, colorBlue)
}

func TestConsoleHandler_LevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(newConsoleHandler(&buf, nil))

	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Error("shown")
	assert.Contains(t, buf.String(), colorRed)
}

func TestConsoleHandler_Source(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithConsoleHandler(), WithOutput(&buf), WithSource(true))
	logger.Logger().Info("with source")

	assert.Contains(t, buf.String(), "handlers_test.go:")
}

func TestConsoleHandler_Concurrent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := MustNew(WithConsoleHandler(), WithOutput(&buf))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("line")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, strings.Count(buf.String(), "\n"))
}
