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

// Package cookie sets and reads HTTP cookies with application-wide defaults
// for lifetime, path, domain and flags.
package cookie

import (
	"net/http"
	"time"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/modules"
)

// ModuleName is the name the module registers under.
const ModuleName = "CookieModule"

// Module writes cookies using one set of attributes.
type Module struct {
	modules.Base

	settings config.CookieSettings
	now      func() time.Time
}

// New returns a cookie module. Zero Expire and empty Path fall back to one
// hour and "/".
func New(settings config.CookieSettings) *Module {
	if settings.Expire <= 0 {
		settings.Expire = time.Hour
	}
	if settings.Path == "" {
		settings.Path = "/"
	}
	return &Module{
		Base:     modules.NewBase(ModuleName, modules.DefaultVersion),
		settings: settings,
		now:      time.Now,
	}
}

// Settings returns the cookie attributes in use.
func (m *Module) Settings() config.CookieSettings {
	return m.settings
}

// Set writes a cookie that expires after the configured lifetime.
func (m *Module) Set(w http.ResponseWriter, name, value string) {
	c := m.cookie(name, value)
	c.Expires = m.now().Add(m.settings.Expire)
	c.MaxAge = int(m.settings.Expire / time.Second)
	http.SetCookie(w, c)
}

// Get returns the value of the request cookie called name.
func (m *Module) Get(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Remove writes an expired cookie called name.
func (m *Module) Remove(w http.ResponseWriter, name string) {
	c := m.cookie(name, "")
	c.Expires = time.Unix(0, 0)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

// Clear removes every cookie sent with r.
func (m *Module) Clear(w http.ResponseWriter, r *http.Request) {
	for _, c := range r.Cookies() {
		m.Remove(w, c.Name)
	}
}

func (m *Module) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.settings.Path,
		Domain:   m.settings.Domain,
		Secure:   m.settings.Secure,
		HttpOnly: m.settings.HTTPOnly,
		SameSite: http.SameSiteLaxMode,
	}
}
