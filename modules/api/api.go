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

// Package api builds the JSON envelope returned by Tight API endpoints:
//
//	{"error": false, "response": {...}}
package api

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/AlejandroPF/tight/modules"
)

// ModuleName is the name the module registers under.
const ModuleName = "ApiModule"

// ContentType is the Content-Type written by [Write].
const ContentType = "application/json"

// Envelope is the two-field response body.
type Envelope struct {
	Error    bool `json:"error"`
	Response any  `json:"response"`
}

// Respond encodes payload in an envelope.
//
// Example:
//
//	body, err := api.Respond(false, map[string]any{"id": 7})
//	// {"error":false,"response":{"id":7}}
func Respond(isError bool, payload any) (string, error) {
	data, err := json.Marshal(Envelope{Error: isError, Response: payload})
	if err != nil {
		return "", fmt.Errorf("api: encode response: %w", err)
	}
	return string(data), nil
}

// Write encodes payload in an envelope and writes it with status.
// Nothing is written when encoding fails.
func Write(w http.ResponseWriter, status int, isError bool, payload any) error {
	body, err := Respond(isError, payload)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(status)
	_, err = w.Write([]byte(body))
	return err
}

// Module exposes the envelope helpers as an application module.
type Module struct {
	modules.Base
}

// New returns the API module.
func New() *Module {
	return &Module{Base: modules.NewBase(ModuleName, modules.DefaultVersion)}
}

// Respond calls [Respond].
func (m *Module) Respond(isError bool, payload any) (string, error) {
	return Respond(isError, payload)
}

// Write calls [Write].
func (m *Module) Write(w http.ResponseWriter, status int, isError bool, payload any) error {
	return Write(w, status, isError, payload)
}
