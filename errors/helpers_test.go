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

// Errors exposing the optional interfaces the formatters look for.

type plainErr string

func (e plainErr) Error() string { return string(e) }

type codedErr struct {
	msg  string
	code string
}

func (e *codedErr) Error() string { return e.msg }
func (e *codedErr) Code() string  { return e.code }

type httpErr struct {
	msg    string
	status int
}

func (e *httpErr) Error() string   { return e.msg }
func (e *httpErr) HTTPStatus() int { return e.status }

type detailedErr struct {
	msg     string
	details map[string]any
}

func (e *detailedErr) Error() string { return e.msg }
func (e *detailedErr) Details() any  { return e.details }
