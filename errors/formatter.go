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

package errors

import (
	"net/http"
)

// Formatter defines how errors are formatted in HTTP responses.
//
// Example:
//
//	formatter := errors.NewSimple()
//	_ = errors.Write(w, formatter.Format(req, err))
type Formatter interface {
	// Format converts an error into HTTP response components.
	Format(req *http.Request, err error) Response
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc func(req *http.Request, err error) Response

// Format calls f.
func (f FormatterFunc) Format(req *http.Request, err error) Response {
	return f(req, err)
}

// Response represents a formatted error response.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// ContentType is the Content-Type header value.
	ContentType string

	// Body is the response body. Strings and byte slices are written as-is,
	// anything else is encoded as JSON.
	Body any

	// Headers contains additional headers to set (optional).
	Headers http.Header
}

// ErrorType allows errors to declare their own HTTP status code.
//
// Example:
//
//	type ValidationError struct {
//		Message string
//	}
//
//	func (e ValidationError) Error() string   { return e.Message }
//	func (e ValidationError) HTTPStatus() int { return http.StatusBadRequest }
type ErrorType interface {
	error
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrorDetails allows errors to provide additional structured information.
type ErrorDetails interface {
	error
	// Details returns structured information about the error.
	Details() any
}

// ErrorCode allows errors to provide a machine-readable code.
type ErrorCode interface {
	error
	// Code returns a machine-readable error code.
	Code() string
}

// NewDiagnostic creates a Diagnostic formatter.
// When development is false the formatter falls back to Simple JSON bodies
// and never exposes stack traces.
//
// Example:
//
//	formatter := errors.NewDiagnostic(cfg.Development)
func NewDiagnostic(development bool) *Diagnostic {
	return &Diagnostic{
		Development: development,
		Fallback:    NewSimple(),
	}
}
