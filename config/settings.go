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
	"fmt"
	"strings"
	"time"

	"github.com/AlejandroPF/tight/config/codec"
	"github.com/AlejandroPF/tight/logging"
)

// Settings is the typed view of every option Tight recognizes.
type Settings struct {
	// Development enables the HTML diagnostic page and template reloading.
	Development bool `config:"development"`

	// BasePath is the path the application is served under.
	BasePath string `config:"base_path"`

	// DocumentRoot is removed from BasePath when BasePath is a filesystem path.
	DocumentRoot string `config:"document_root"`

	Server    ServerSettings   `config:"server"`
	Log       LogSettings      `config:"log"`
	MVC       MVCSettings      `config:"mvc"`
	Templates TemplateSettings `config:"templates"`
	Cookie    CookieSettings   `config:"cookie"`
	Session   SessionSettings  `config:"session"`
	Localize  LocalizeSettings `config:"localize"`
	Metrics   MetricsSettings  `config:"metrics"`
	Tracing   TracingSettings  `config:"tracing"`
}

// ServerSettings configures the HTTP server.
type ServerSettings struct {
	Addr            string        `config:"addr"`
	H2C             bool          `config:"h2c"`
	ReadTimeout     time.Duration `config:"read_timeout"`
	WriteTimeout    time.Duration `config:"write_timeout"`
	ShutdownTimeout time.Duration `config:"shutdown_timeout"`
	Banner          bool          `config:"banner"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level   string `config:"level"`   // debug, info, warn, error
	Format  string `config:"format"`  // json, text, console
	Service string `config:"service"` // added to every entry
}

// MVCSettings configures MVC dispatch.
type MVCSettings struct {
	// Enabled routes every request through MVC dispatch instead of the router.
	Enabled bool `config:"enabled"`

	// IndexName is the resource used for "/".
	IndexName string `config:"index_name"`

	// ViewDir holds one template per resource.
	ViewDir string `config:"view_dir"`

	// ViewExt is appended to the lowercased resource name to find its template.
	ViewExt string `config:"view_ext"`
}

// TemplateSettings configures the render engine.
type TemplateSettings struct {
	Engine string `config:"engine"` // html or text
	Reload bool   `config:"reload"` // re-parse templates on every render
}

// CookieSettings configures the cookie module.
type CookieSettings struct {
	Expire   time.Duration `config:"expire"`
	Path     string        `config:"path"`
	Domain   string        `config:"domain"`
	Secure   bool          `config:"secure"`
	HTTPOnly bool          `config:"http_only"`
}

// SessionSettings configures the session module.
type SessionSettings struct {
	CookieName string        `config:"cookie_name"`
	Lifetime   time.Duration `config:"lifetime"`
}

// LocalizeSettings configures the localize module.
type LocalizeSettings struct {
	DefaultLocale string `config:"default_locale"`
	ResourceDir   string `config:"resource_dir"`
	ResourceFile  string `config:"resource_file"`
	ResourceType  string `config:"resource_type"` // json, yaml or toml
	Separator     string `config:"separator"`
}

// MetricsSettings configures dispatch and request metrics.
type MetricsSettings struct {
	Enabled   bool   `config:"enabled"`
	Path      string `config:"path"` // scrape path, prometheus only
	Namespace string `config:"namespace"`
	Provider  string `config:"provider"` // prometheus, stdout or otlp
	Endpoint  string `config:"endpoint"` // otlp collector URL
}

// TracingSettings configures OpenTelemetry spans.
type TracingSettings struct {
	Enabled     bool    `config:"enabled"`
	ServiceName string  `config:"service_name"`
	Exporter    string  `config:"exporter"` // noop, stdout, otlp or otlp-http
	Endpoint    string  `config:"endpoint"`
	Insecure    bool    `config:"insecure"` // plaintext gRPC for the otlp exporter
	SampleRate  float64 `config:"sample_rate"`
}

// Defaults returns the default configuration layer. Every call returns a fresh map.
func Defaults() map[string]any {
	return map[string]any{
		"development":   false,
		"base_path":     "/",
		"document_root": "",
		"server": map[string]any{
			"addr":             ":8080",
			"h2c":              false,
			"read_timeout":     "15s",
			"write_timeout":    "15s",
			"shutdown_timeout": "10s",
			"banner":           true,
		},
		"log": map[string]any{
			"level":   "info",
			"format":  "json",
			"service": "tight",
		},
		"mvc": map[string]any{
			"enabled":    false,
			"index_name": "Root",
			"view_dir":   "./templates",
			"view_ext":   ".html",
		},
		"templates": map[string]any{
			"engine": "html",
			"reload": false,
		},
		"cookie": map[string]any{
			"expire":    "1h",
			"path":      "/",
			"domain":    "",
			"secure":    false,
			"http_only": true,
		},
		"session": map[string]any{
			"cookie_name": "TIGHTSESSID",
			"lifetime":    "24h",
		},
		"localize": map[string]any{
			"default_locale": "en",
			"resource_dir":   "./res/",
			"resource_file":  "values",
			"resource_type":  "json",
			"separator":      "_",
		},
		"metrics": map[string]any{
			"enabled":   false,
			"path":      "/metrics",
			"namespace": "tight",
			"provider":  "prometheus",
			"endpoint":  "",
		},
		"tracing": map[string]any{
			"enabled":      false,
			"service_name": "tight",
			"exporter":     "noop",
			"endpoint":     "",
			"insecure":     false,
			"sample_rate":  1.0,
		},
	}
}

// Validate checks enumerated and required settings.
//
// Errors:
//   - [*Error] wrapping [ErrInvalidValue] naming the first offending key
func (s *Settings) Validate() error {
	invalid := func(field string, format string, args ...any) error {
		return NewFieldError("settings", field, "validate",
			fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(s.Server.Addr) == "" {
		return invalid("server.addr", "must not be empty")
	}
	if s.Server.ShutdownTimeout < 0 {
		return invalid("server.shutdown_timeout", "must not be negative")
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return invalid("log.level", "%q", s.Log.Level)
	}
	if _, err := logging.ParseHandlerType(s.Log.Format); err != nil {
		return invalid("log.format", "%q", s.Log.Format)
	}
	if strings.TrimSpace(s.MVC.IndexName) == "" {
		return invalid("mvc.index_name", "must not be empty")
	}
	switch s.Templates.Engine {
	case "html", "text":
	default:
		return invalid("templates.engine", "%q is not html or text", s.Templates.Engine)
	}
	if s.Cookie.Expire < 0 {
		return invalid("cookie.expire", "must not be negative")
	}
	if s.Session.CookieName == "" {
		return invalid("session.cookie_name", "must not be empty")
	}
	if _, err := codec.ForExtension(s.Localize.ResourceType); err != nil {
		return invalid("localize.resource_type", "%q", s.Localize.ResourceType)
	}
	if s.Metrics.Enabled && !strings.HasPrefix(s.Metrics.Path, "/") {
		return invalid("metrics.path", "%q must start with /", s.Metrics.Path)
	}
	switch s.Metrics.Provider {
	case "prometheus", "stdout", "otlp":
	default:
		return invalid("metrics.provider", "%q", s.Metrics.Provider)
	}
	switch s.Tracing.Exporter {
	case "noop", "stdout", "otlp", "otlp-http":
	default:
		return invalid("tracing.exporter", "%q", s.Tracing.Exporter)
	}
	if s.Tracing.SampleRate < 0 || s.Tracing.SampleRate > 1 {
		return invalid("tracing.sample_rate", "%v is not within [0, 1]", s.Tracing.SampleRate)
	}
	return nil
}
