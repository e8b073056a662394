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

	"github.com/goccy/go-json"
)

// statusError attaches an HTTP status to an error.
type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// WithStatus returns an error that reports status through ErrorType.
// A nil err yields nil.
//
// Example:
//
//	return "", errors.WithStatus(ErrForbidden, http.StatusForbidden)
func WithStatus(err error, status int) error {
	if err == nil {
		return nil
	}
	return &statusError{err: err, status: status}
}

// Write writes resp to w.
//
// Extra headers are added first, then Content-Type and the status line.
// String and []byte bodies are written verbatim; other bodies are JSON encoded.
// A zero status is written as 500.
func Write(w http.ResponseWriter, resp Response) error {
	for k, vs := range resp.Headers {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)

	switch body := resp.Body.(type) {
	case nil:
		return nil
	case string:
		_, err := w.Write([]byte(body))
		return err
	case []byte:
		_, err := w.Write(body)
		return err
	default:
		return json.NewEncoder(w).Encode(body)
	}
}
