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

package session

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/modules/cookie"
)

func newManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(time.Hour)
	m := NewManager(store, config.SessionSettings{CookieName: "SID", Lifetime: 2 * time.Hour},
		cookie.New(config.CookieSettings{Path: "/app/"}))
	return m, store
}

func TestStart_NewSession(t *testing.T) {
	t.Parallel()

	m, store := newManager(t)
	assert.Equal(t, ModuleName, m.Name())
	assert.Equal(t, "SID", m.CookieName())

	rec := httptest.NewRecorder()
	s, err := m.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	id, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.True(t, store.Exists(s.ID()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "SID", cookies[0].Name)
	assert.Equal(t, s.ID(), cookies[0].Value)
	assert.Equal(t, "/app/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, int((2 * time.Hour).Seconds()), cookies[0].MaxAge)
}

func TestStart_ResumesSession(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	first, err := m.Start(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	first.Set("user", "ana")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "SID", Value: first.ID()})
	rec := httptest.NewRecorder()

	second, err := m.Start(rec, req)
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "ana", second.Get("user"))
	assert.Empty(t, rec.Result().Cookies(), "no cookie reissued")
}

func TestStart_UnknownCookie(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "SID", Value: "forged"})

	s, err := m.Start(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "forged", s.ID())
}

func TestStart_IDFailure(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	m.newID = func() (string, error) { return "", errors.New("no entropy") }

	_, err := m.Start(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorContains(t, err, "no entropy")
}

func TestSession_Values(t *testing.T) {
	t.Parallel()

	m, _ := newManager(t)
	s, err := m.Start(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Nil(t, s.Get("missing"))
	s.Set("a", 1)
	s.Set("b", "two")
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, s.All())

	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, map[string]any{"b": "two"}, s.All())

	rec := httptest.NewRecorder()
	m.Destroy(rec, s)
	assert.Empty(t, s.All())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestMemoryStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	store.Create("s1")
	store.Set("s1", "k", "v")

	now = now.Add(9 * time.Minute)
	v, ok := store.Get("s1", "k")
	require.True(t, ok, "access extends lifetime")
	assert.Equal(t, "v", v)

	now = now.Add(9 * time.Minute)
	assert.True(t, store.Exists("s1"))

	now = now.Add(11 * time.Minute)
	assert.False(t, store.Exists("s1"))
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Delete("s1", "k"))
}

func TestMemoryStore_SweepsExpiredSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(time.Minute)
	store.now = func() time.Time { return now }

	for i := range 1000 {
		store.Create(fmt.Sprintf("s%d", i))
	}
	require.Equal(t, 1000, store.Len())

	now = now.Add(time.Hour)
	store.Create("fresh")
	assert.Equal(t, 1, store.Len(), "expired sessions are collected on create")
	assert.True(t, store.Exists("fresh"))

	store.Create("other")
	now = now.Add(2 * time.Minute)
	assert.Equal(t, 2, store.Sweep())
	assert.Zero(t, store.Len())
}

func TestMemoryStore_SweepKeepsLiveSessions(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10 * time.Minute)
	store.now = func() time.Time { return now }

	store.Create("old")
	now = now.Add(5 * time.Minute)
	store.Create("young")
	now = now.Add(6 * time.Minute)

	assert.Equal(t, 1, store.Sweep())
	assert.False(t, store.Exists("old"))
	assert.True(t, store.Exists("young"))
	assert.Zero(t, NewMemoryStore(0).Sweep())
}

func TestMemoryStore_NoExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }

	store.Set("s", "k", 1)
	now = now.Add(24 * 365 * time.Hour)
	assert.True(t, store.Exists("s"))
}

func TestMemoryStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Hour)
	store.Create("s")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Set("s", "k", i)
			store.Get("s", "k")
			store.All("s")
		}()
	}
	wg.Wait()
	assert.Len(t, store.All("s"), 1)
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := FromContext(t.Context())
	assert.False(t, ok)

	s := &Session{id: "x", store: NewMemoryStore(0)}
	got, ok := FromContext(NewContext(t.Context(), s))
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestNewManager_NilCookies(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore(0), config.SessionSettings{}, nil)
	assert.Equal(t, "TIGHTSESSID", m.CookieName())

	rec := httptest.NewRecorder()
	_, err := m.Start(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, "/", rec.Result().Cookies()[0].Path)
}
