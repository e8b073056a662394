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

// Package localize loads per-locale string resources.
//
// Resources live in one directory as <file><sep><locale>.<type>, for example
// values_es.json, with values.json holding the default locale. JSON, YAML
// and TOML resources are supported. Nested keys are read with dotted paths:
//
//	l, err := localize.New(settings.Localize)
//	_ = l.SetLocale("es")
//	l.Get("data.name") // "Nombre"
package localize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"golang.org/x/text/language"

	"github.com/AlejandroPF/tight/config"
	"github.com/AlejandroPF/tight/config/codec"
	"github.com/AlejandroPF/tight/modules"
)

// ModuleName is the name the module registers under.
const ModuleName = "LocalizeModule"

var (
	// ErrResourceDirNotFound indicates the resource directory does not exist.
	ErrResourceDirNotFound = errors.New("resource directory not found")

	// ErrResourceNotFound indicates no resource file exists for a locale.
	ErrResourceNotFound = errors.New("resource file not found")

	// ErrInvalidLocale indicates a locale that is not a valid language tag.
	ErrInvalidLocale = errors.New("invalid locale")
)

// Localize holds the values of the current locale.
// It is safe for concurrent use.
type Localize struct {
	modules.Base

	settings config.LocalizeSettings
	ext      string
	decoder  codec.Decoder

	mu     sync.RWMutex
	locale string
	values map[string]any
}

// New returns a Localize with the default locale loaded. Empty settings
// fields take the package defaults.
//
// Errors:
//   - [ErrResourceDirNotFound] if the resource directory does not exist
//   - [codec.ErrUnknownType] if the resource type is not json, yaml or toml
//   - the errors of [Localize.SetLocale] for the default locale
func New(settings config.LocalizeSettings) (*Localize, error) {
	applyDefaults(&settings)

	info, err := os.Stat(settings.ResourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrResourceDirNotFound, settings.ResourceDir)
	}

	typ, err := codec.ForExtension(settings.ResourceType)
	if err != nil {
		return nil, err
	}
	dec, err := codec.GetDecoder(typ)
	if err != nil {
		return nil, err
	}

	l := &Localize{
		Base:     modules.NewBase(ModuleName, modules.DefaultVersion),
		settings: settings,
		ext:      "." + strings.ToLower(settings.ResourceType),
		decoder:  dec,
	}
	if err := l.SetLocale(settings.DefaultLocale); err != nil {
		return nil, err
	}
	return l, nil
}

func applyDefaults(s *config.LocalizeSettings) {
	if s.DefaultLocale == "" {
		s.DefaultLocale = "en"
	}
	if s.ResourceDir == "" {
		s.ResourceDir = "./res/"
	}
	if s.ResourceFile == "" {
		s.ResourceFile = "values"
	}
	if s.ResourceType == "" {
		s.ResourceType = "json"
	}
	if s.Separator == "" {
		s.Separator = "_"
	}
}

// Settings returns the settings in use.
func (l *Localize) Settings() config.LocalizeSettings {
	return l.settings
}

// SetLocale loads the resources for locale. The locale is canonicalized
// ("ES" becomes "es", "en-us" becomes "en-US"). When no file exists for the
// locale the un-suffixed default file is loaded instead.
//
// Errors:
//   - [ErrInvalidLocale] if locale is not a valid language tag
//   - [ErrResourceNotFound] if neither file exists
//   - a decode error if the file is malformed
func (l *Localize) SetLocale(locale string) error {
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidLocale, locale, err)
	}
	canonical := tag.String()

	path := l.file(l.settings.ResourceFile + l.settings.Separator + canonical)
	if !isFile(path) {
		path = l.file(l.settings.ResourceFile)
		if !isFile(path) {
			return fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("localize: read %s: %w", path, err)
	}
	var values map[string]any
	if err := l.decoder.Decode(data, &values); err != nil {
		return fmt.Errorf("localize: decode %s: %w", path, err)
	}
	if values == nil {
		values = map[string]any{}
	}

	l.mu.Lock()
	l.locale = canonical
	l.values = values
	l.mu.Unlock()
	return nil
}

func (l *Localize) file(base string) string {
	return filepath.Join(l.settings.ResourceDir, base+l.ext)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Locale returns the current locale.
func (l *Localize) Locale() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locale
}

// Values returns the loaded values.
// The map must not be modified.
func (l *Localize) Values() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.values
}

// Get returns the string at a dotted key, or "" when the key is missing or
// names a nested table.
func (l *Localize) Get(key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var current any = l.values
	for part := range strings.SplitSeq(key, ".") {
		m, err := cast.ToStringMapE(current)
		if err != nil {
			return ""
		}
		next, ok := m[part]
		if !ok {
			return ""
		}
		current = next
	}
	s, err := cast.ToStringE(current)
	if err != nil {
		return ""
	}
	return s
}

// Locales lists the locales that have a resource file, sorted. The
// un-suffixed file is reported as the default locale.
func (l *Localize) Locales() ([]string, error) {
	entries, err := os.ReadDir(l.settings.ResourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceDirNotFound, err)
	}

	prefix := l.settings.ResourceFile + l.settings.Separator
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), l.ext) {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		switch {
		case base == l.settings.ResourceFile:
			out = append(out, l.settings.DefaultLocale)
		case strings.HasPrefix(base, prefix) && len(base) > len(prefix):
			out = append(out, base[len(prefix):])
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}
