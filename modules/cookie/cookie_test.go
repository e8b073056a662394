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

package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlejandroPF/tight/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	m := New(config.CookieSettings{})
	assert.Equal(t, ModuleName, m.Name())
	assert.Equal(t, time.Hour, m.Settings().Expire)
	assert.Equal(t, "/", m.Settings().Path)
}

func TestSet(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m := New(config.CookieSettings{
		Expire:   30 * time.Minute,
		Path:     "/app/",
		Domain:   "example.com",
		Secure:   true,
		HTTPOnly: true,
	})
	m.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	m.Set(rec, "theme", "dark")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "theme", c.Name)
	assert.Equal(t, "dark", c.Value)
	assert.Equal(t, "/app/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 1800, c.MaxAge)
	assert.True(t, c.Expires.Equal(now.Add(30*time.Minute)))
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := New(config.CookieSettings{})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "theme", Value: "dark"})

	v, ok := m.Get(req, "theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	_, ok = m.Get(req, "missing")
	assert.False(t, ok)
}

func TestRemoveAndClear(t *testing.T) {
	t.Parallel()

	m := New(config.CookieSettings{})

	rec := httptest.NewRecorder()
	m.Remove(rec, "theme")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "a", Value: "1"})
	req.AddCookie(&http.Cookie{Name: "b", Value: "2"})

	rec = httptest.NewRecorder()
	m.Clear(rec, req)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 2)
	names := []string{cookies[0].Name, cookies[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
	}
}
