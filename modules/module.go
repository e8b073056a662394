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

package modules

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/AlejandroPF/tight/config"
)

var (
	// ErrModuleExists indicates a module name added twice.
	ErrModuleExists = errors.New("module already exists")

	// ErrInvalidModule indicates a nil module or one without a name.
	ErrInvalidModule = errors.New("invalid module")
)

// DefaultVersion is the version reported by modules that do not set one.
const DefaultVersion = "v1.0"

// Module is an optional application component.
type Module interface {
	Name() string
	Version() string

	// OnLoad runs when the module is added to a Loader.
	OnLoad() error
	// OnRemove runs when the module is removed from a Loader.
	OnRemove() error
}

// Configurable is implemented by modules that read the application config.
// The Loader calls SetAppConfig before OnLoad.
type Configurable interface {
	SetAppConfig(cfg *config.Config)
}

// Base is embedded by modules to provide the identity methods and no-op hooks.
type Base struct {
	name    string
	version string
	cfg     *config.Config
}

// NewBase returns a Base called name. An empty version means [DefaultVersion].
func NewBase(name, version string) Base {
	if version == "" {
		version = DefaultVersion
	}
	return Base{name: name, version: version}
}

// Name returns the module name.
func (b *Base) Name() string { return b.name }

// Version returns the module version.
func (b *Base) Version() string { return b.version }

// SetAppConfig stores the application config.
func (b *Base) SetAppConfig(cfg *config.Config) { b.cfg = cfg }

// AppConfig returns the application config, or nil before the module is loaded.
func (b *Base) AppConfig() *config.Config { return b.cfg }

// OnLoad does nothing.
func (b *Base) OnLoad() error { return nil }

// OnRemove does nothing.
func (b *Base) OnRemove() error { return nil }

// Loader owns the modules of an application.
// It is safe for concurrent use.
type Loader struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.RWMutex
	modules map[string]Module
}

// NewLoader returns an empty Loader. cfg is handed to Configurable modules;
// a nil logger discards log output.
func NewLoader(cfg *config.Config, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		cfg:     cfg,
		logger:  logger,
		modules: make(map[string]Module),
	}
}

// Add registers m and calls its OnLoad hook. If OnLoad fails the module is
// not registered.
//
// Errors:
//   - [ErrInvalidModule] if m is nil or has no name
//   - [ErrModuleExists] if a module with the same name is registered
//   - the error returned by OnLoad
func (l *Loader) Add(m Module) error {
	if m == nil || strings.TrimSpace(m.Name()) == "" {
		return ErrInvalidModule
	}
	name := m.Name()

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.modules[name]; ok {
		return fmt.Errorf("%w: %s", ErrModuleExists, name)
	}
	if c, ok := m.(Configurable); ok {
		c.SetAppConfig(l.cfg)
	}
	if err := m.OnLoad(); err != nil {
		return fmt.Errorf("module %s: load: %w", name, err)
	}
	l.modules[name] = m

	l.logger.Debug("module loaded", "module", name, "version", m.Version())
	return nil
}

// Remove calls OnRemove on the module called name and unregisters it.
// It reports whether the module was registered. The module is unregistered
// even when OnRemove fails.
func (l *Loader) Remove(name string) (bool, error) {
	l.mu.Lock()
	m, ok := l.modules[name]
	if ok {
		delete(l.modules, name)
	}
	l.mu.Unlock()

	if !ok {
		return false, nil
	}
	l.logger.Debug("module removed", "module", name)
	if err := m.OnRemove(); err != nil {
		return true, fmt.Errorf("module %s: remove: %w", name, err)
	}
	return true, nil
}

// Get returns the module called name.
func (l *Loader) Get(name string) (Module, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	m, ok := l.modules[name]
	return m, ok
}

// Modules returns the registered modules sorted by name.
func (l *Loader) Modules() []Module {
	l.mu.RLock()
	out := make([]Module, 0, len(l.modules))
	for _, m := range l.modules {
		out = append(out, m)
	}
	l.mu.RUnlock()

	slices.SortFunc(out, func(a, b Module) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// Len returns the number of registered modules.
func (l *Loader) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.modules)
}

// Lookup returns the module called name as T.
//
// Example:
//
//	sessions, ok := modules.Lookup[*session.Manager](loader, session.ModuleName)
func Lookup[T Module](l *Loader, name string) (T, bool) {
	var zero T
	m, ok := l.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := m.(T)
	return typed, ok
}
