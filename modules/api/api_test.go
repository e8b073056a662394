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

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespond(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		isError bool
		payload any
		want    string
	}{
		{"empty string", true, "", `{"error":true,"response":""}`},
		{"message", false, "ok", `{"error":false,"response":"ok"}`},
		{"object", false, map[string]any{"id": 7}, `{"error":false,"response":{"id":7}}`},
		{"list", false, []int{1, 2}, `{"error":false,"response":[1,2]}`},
		{"nil", true, nil, `{"error":true,"response":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Respond(tt.isError, tt.payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
		})
	}
}

func TestRespond_EncodeError(t *testing.T) {
	t.Parallel()

	_, err := Respond(false, make(chan int))
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, Write(rec, http.StatusCreated, false, map[string]string{"name": "tight"}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":false,"response":{"name":"tight"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	require.Error(t, Write(rec, http.StatusOK, false, func() {}))
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestModule(t *testing.T) {
	t.Parallel()

	m := New()
	assert.Equal(t, ModuleName, m.Name())
	assert.Equal(t, "v1.0", m.Version())
	require.NoError(t, m.OnLoad())
	require.NoError(t, m.OnRemove())

	body, err := m.Respond(true, "denied")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":true,"response":"denied"}`, body)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Write(rec, http.StatusForbidden, true, "denied"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
