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

// Package session provides cookie-identified server-side sessions.
//
//	sessions := session.NewManager(session.NewMemoryStore(settings.Lifetime), settings, cookies)
//	s, err := sessions.Start(w, r)
//	s.Set("user", "ana")
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/modules"
	"github.com/AlejandroPF/tight/modules/cookie"
)

// ModuleName is the name the module registers under.
const ModuleName = "SessionModule"

// Session is a handle on one client's values.
type Session struct {
	id    string
	store Store
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Get returns the value stored under key, or nil.
func (s *Session) Get(key string) any {
	v, _ := s.store.Get(s.id, key)
	return v
}

// Set stores value under key.
func (s *Session) Set(key string, value any) {
	s.store.Set(s.id, key, value)
}

// Remove deletes key and reports whether it was present.
func (s *Session) Remove(key string) bool {
	return s.store.Delete(s.id, key)
}

// All returns a copy of every stored value.
func (s *Session) All() map[string]any {
	return s.store.All(s.id)
}

// Manager starts sessions and issues their cookies.
type Manager struct {
	modules.Base

	store    Store
	settings config.SessionSettings
	cookies  *cookie.Module
	newID    func() (string, error)
}

// NewManager returns a Manager over store. The session cookie is written
// with the attributes of cookies, which may be nil, and the session lifetime.
func NewManager(store Store, settings config.SessionSettings, cookies *cookie.Module) *Manager {
	if settings.CookieName == "" {
		settings.CookieName = "TIGHTSESSID"
	}
	var cs config.CookieSettings
	if cookies != nil {
		cs = cookies.Settings()
	}
	if settings.Lifetime > 0 {
		cs.Expire = settings.Lifetime
	}
	cs.HTTPOnly = true

	return &Manager{
		Base:     modules.NewBase(ModuleName, modules.DefaultVersion),
		store:    store,
		settings: settings,
		cookies:  cookie.New(cs),
		newID:    newID,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.settings.CookieName
}

// Start returns the session named by the request cookie, or starts a new one
// and sets its cookie on w.
func (m *Manager) Start(w http.ResponseWriter, r *http.Request) (*Session, error) {
	if id, ok := m.cookies.Get(r, m.settings.CookieName); ok && m.store.Exists(id) {
		return &Session{id: id, store: m.store}, nil
	}

	id, err := m.newID()
	if err != nil {
		return nil, fmt.Errorf("session: generate id: %w", err)
	}
	m.store.Create(id)
	m.cookies.Set(w, m.settings.CookieName, id)
	return &Session{id: id, store: m.store}, nil
}

// Destroy removes the session and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, s *Session) {
	m.store.Destroy(s.id)
	m.cookies.Remove(w, m.settings.CookieName)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
