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

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidValue indicates a setting outside its allowed values.
	ErrInvalidValue = errors.New("invalid configuration value")

	// ErrNotLoaded indicates an accessor was used before Load succeeded.
	ErrNotLoaded = errors.New("configuration not loaded")
)

// Error describes where a configuration error occurred.
type Error struct {
	Source    string // e.g. "file:tight.yaml", "source[1]", "settings"
	Field     string // dotted key, optional
	Operation string // "load", "merge", "decode", "validate"
	Err       error
}

// Error returns a message of the form
// "config error in <source>[.<field>] during <operation>: <err>".
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in %s.%s during %s: %v", e.Source, e.Field, e.Operation, e.Err)
	}
	return fmt.Sprintf("config error in %s during %s: %v", e.Source, e.Operation, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates an Error without a field.
func NewError(source, operation string, err error) *Error {
	return &Error{Source: source, Operation: operation, Err: err}
}

// NewFieldError creates an Error for a specific field.
func NewFieldError(source, field, operation string, err error) *Error {
	return &Error{Source: source, Field: field, Operation: operation, Err: err}
}
