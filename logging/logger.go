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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

const redacted = "***REDACTED***"

// Logger owns a configured *slog.Logger.
//
// The level is held in a slog.LevelVar so SetLevel takes effect immediately
// for every logger derived from this one.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	serviceName    string
	serviceVersion string
	environment    string

	addSource      bool
	registerGlobal bool

	slogger *slog.Logger
}

// New creates a Logger. The default is JSON output to stdout at info level.
//
// Errors:
//   - [ErrNilOutput] if the output writer is nil
//   - [ErrInvalidHandler] if the handler type is unknown
func New(opts ...Option) (*Logger, error) {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
	}
	l.level.Set(LevelInfo)

	for _, opt := range opts {
		opt(l)
	}

	if l.output == nil {
		return nil, ErrNilOutput
	}

	handler, err := l.newHandler()
	if err != nil {
		return nil, err
	}

	logger := slog.New(handler)
	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if l.environment != "" {
		attrs = append(attrs, "env", l.environment)
	}
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	l.slogger = logger

	if l.registerGlobal {
		slog.SetDefault(logger)
	}
	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

func (l *Logger) newHandler() (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: redact,
	}

	switch l.handlerType {
	case JSONHandler:
		return slog.NewJSONHandler(l.output, opts), nil
	case TextHandler:
		return slog.NewTextHandler(l.output, opts), nil
	case ConsoleHandler:
		return newConsoleHandler(l.output, opts), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidHandler, l.handlerType)
}

func redact(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "password", "token", "secret", "authorization", "cookie", "session_id":
		return slog.String(a.Key, redacted)
	}
	return a
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.slogger.With(args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.slogger.Debug(msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.slogger.Info(msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.slogger.Warn(msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.slogger.Error(msg, args...) }

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.level.Set(level)
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// HandlerType returns the configured handler type.
func (l *Logger) HandlerType() HandlerType {
	return l.handlerType
}

// ServiceName returns the service name.
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// ParseLevel converts a level name (debug, info, warn, warning, error) to a Level.
// Matching ignores case and surrounding whitespace.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
}

// ParseHandlerType converts a handler name (json, text, console) to a HandlerType.
func ParseHandlerType(s string) (HandlerType, error) {
	switch t := HandlerType(strings.ToLower(strings.TrimSpace(s))); t {
	case JSONHandler, TextHandler, ConsoleHandler:
		return t, nil
	case "":
		return JSONHandler, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidHandler, s)
}

// Discard returns a logger that drops every entry.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
