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

package app

import "errors"

var (
	// ErrInvalidOption indicates a nil option or option value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrAlreadyRunning is returned by Run when the app is already serving.
	ErrAlreadyRunning = errors.New("app is already running")
)
