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

package mvc

import "errors"

var (
	// ErrNotFound indicates a path that does not resolve to a renderable resource.
	ErrNotFound = errors.New("mvc resource not found")

	// ErrUnknownAction indicates an action the controller does not expose.
	ErrUnknownAction = errors.New("unknown controller action")

	// ErrDuplicateResource indicates a resource name registered twice.
	ErrDuplicateResource = errors.New("resource already registered")

	// ErrInvalidResource indicates a resource that cannot be registered.
	ErrInvalidResource = errors.New("invalid resource")

	// ErrNotResolved is returned by Execute on a resolution that did not resolve.
	ErrNotResolved = errors.New("resolution is not executable")
)
