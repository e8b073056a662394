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

// Package errors provides HTTP error formatting for Tight applications.
//
// The package defines a Formatter interface and two implementations:
//   - Simple: JSON error bodies (application/json)
//   - Diagnostic: an HTML page with the error type, message, origin and stack
//     trace, used in development; it falls back to Simple otherwise
//
// Domain errors can implement optional interfaces to control the response:
//
//   - ErrorType: declare the HTTP status code
//   - ErrorDetails: provide structured details
//   - ErrorCode: provide a machine-readable code
//
// WithStatus attaches a status to any error without declaring a new type:
//
//	return "", errors.WithStatus(err, http.StatusForbidden)
//
// # Stacks
//
// Stack traces come from github.com/pkg/errors. Capture attaches a stack to an
// error that has none, and Recovered turns a recovered panic value into an
// error with the stack of the recovering goroutine:
//
//	defer func() {
//		if v := recover(); v != nil {
//			resp := errors.NewDiagnostic(true).Format(req, errors.Recovered(v))
//			_ = errors.Write(w, resp)
//		}
//	}()
package errors
