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
	"errors"
	"net/http"
)

// jsonContentType is the content type of Simple bodies.
const jsonContentType = "application/json; charset=utf-8"

// Simple renders an error as a flat JSON object. This is what production
// deployments of Tight send for failed dispatches:
//
//	{"error": "action Posts.show: missing post id", "code": "...", "details": ...}
//
// "code" and "details" appear only when the error chain implements
// [ErrorCode] or [ErrorDetails].
type Simple struct {
	// StatusResolver overrides the status lookup. Nil means [StatusOf].
	StatusResolver func(err error) int
}

// NewSimple returns a Simple formatter that derives the status with [StatusOf].
func NewSimple() *Simple {
	return &Simple{}
}

// Format implements [Formatter].
func (f *Simple) Format(_ *http.Request, err error) Response {
	var (
		coded    ErrorCode
		detailed ErrorDetails
	)
	body := map[string]any{"error": err.Error()}
	if errors.As(err, &coded) {
		body["code"] = coded.Code()
	}
	if errors.As(err, &detailed) {
		body["details"] = detailed.Details()
	}

	status := StatusOf
	if f.StatusResolver != nil {
		status = f.StatusResolver
	}
	return Response{Status: status(err), ContentType: jsonContentType, Body: body}
}

// StatusOf returns the status carried by the first [ErrorType] in err's
// chain, such as one attached with [WithStatus]. Anything else is a 500.
func StatusOf(err error) int {
	var typed ErrorType
	if errors.As(err, &typed) {
		return typed.HTTPStatus()
	}
	return http.StatusInternalServerError
}
