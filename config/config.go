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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"github.com/AlejandroPF/tight/config/codec"
	"github.com/AlejandroPF/tight/config/source"
)

// EnvPrefix is the prefix used by [WithEnv] when none is given.
const EnvPrefix = "TIGHT_"

// Option configures a Config.
type Option func(c *Config) error

// Config loads layered configuration and exposes it both as typed [Settings]
// and as a case-insensitive dotted key space.
//
// Layers are applied in order: built-in defaults first, then every source in
// the order its option was given. Later layers override earlier ones key by key.
type Config struct {
	sources []namedSource

	mu       sync.RWMutex // Protects values and settings
	values   map[string]any
	settings Settings
	loaded   bool
}

type namedSource struct {
	name string
	src  Source
}

// WithSource adds a custom source.
func WithSource(src Source) Option {
	return func(c *Config) error {
		if src == nil {
			return errors.New("source must not be nil")
		}
		c.add(src)
		return nil
	}
}

// WithFile adds a file source whose format is detected from its extension.
//
// Example:
//
//	config.WithFile("tight.yaml")
func WithFile(path string) Option {
	return func(c *Config) error {
		f, err := source.NewFileAuto(path)
		if err != nil {
			return err
		}
		c.add(f)
		return nil
	}
}

// WithOptionalFile is like WithFile but a missing file is skipped.
func WithOptionalFile(path string) Option {
	return func(c *Config) error {
		f, err := source.NewFileAuto(path)
		if err != nil {
			return err
		}
		c.add(f.Optional())
		return nil
	}
}

// WithFileAs adds a file source decoded with an explicit codec.
func WithFileAs(path string, codecType codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(codecType)
		if err != nil {
			return err
		}
		c.add(source.NewFile(path, dec))
		return nil
	}
}

// WithContent adds in-memory encoded content.
//
// Example:
//
//	config.WithContent([]byte("mvc:\n  index_name: Home\n"), codec.TypeYAML)
func WithContent(data []byte, codecType codec.Type) Option {
	return func(c *Config) error {
		dec, err := codec.GetDecoder(codecType)
		if err != nil {
			return err
		}
		c.add(source.NewFileContent(data, dec))
		return nil
	}
}

// WithEnv adds environment variables starting with prefix.
// An empty prefix means [EnvPrefix]. Nesting levels are separated by "__":
//
//	TIGHT_SERVER__ADDR=:9090
func WithEnv(prefix string) Option {
	return func(c *Config) error {
		if prefix == "" {
			prefix = EnvPrefix
		}
		c.add(source.NewOSEnvVar(prefix))
		return nil
	}
}

// WithValues adds explicit values, typically overrides from command-line flags.
func WithValues(values map[string]any) Option {
	return func(c *Config) error {
		c.add(source.NewMap(values))
		return nil
	}
}

func (c *Config) add(src Source) {
	name := fmt.Sprintf("source[%d]", len(c.sources))
	if s, ok := src.(fmt.Stringer); ok {
		name = s.String()
	}
	c.sources = append(c.sources, namedSource{name: name, src: src})
}

// New creates a Config. Sources are not read until Load.
func New(opts ...Option) (*Config, error) {
	c := &Config{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("config option: %w", err)
		}
	}
	return c, nil
}

// MustNew creates a Config and panics on error.
func MustNew(opts ...Option) *Config {
	c, err := New(opts...)
	if err != nil {
		panic("config: " + err.Error())
	}
	return c
}

// Load reads every source, merges the layers, decodes and validates the result.
// On error the previously loaded state is kept.
//
// Errors:
//   - [*Error] naming the failing source and operation
func (c *Config) Load(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}

	merged := normalizeMapKeys(Defaults())
	for _, ns := range c.sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		layer, err := ns.src.Load(ctx)
		if err != nil {
			return NewError(ns.name, "load", err)
		}
		if err := mergo.Map(&merged, normalizeMapKeys(layer), mergo.WithOverride); err != nil {
			return NewError(ns.name, "merge", err)
		}
	}

	var settings Settings
	if err := decode(merged, &settings); err != nil {
		return NewError("settings", "decode", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.values = merged
	c.settings = settings
	c.loaded = true
	c.mu.Unlock()

	return nil
}

// MustLoad loads the configuration and panics on error.
func (c *Config) MustLoad(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		panic("config: " + err.Error())
	}
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// normalizeMapKeys lowercases keys recursively so layers merge case-insensitively.
func normalizeMapKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		key := strings.ToLower(k)
		switch nested := v.(type) {
		case map[string]any:
			v = normalizeMapKeys(nested)
		case map[any]any:
			v = normalizeMapKeys(cast.ToStringMap(nested))
		}
		out[key] = v
	}
	return out
}

// Settings returns the typed settings. Before a successful Load it returns
// the decoded defaults.
func (c *Config) Settings() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		var s Settings
		_ = decode(normalizeMapKeys(Defaults()), &s)
		return s
	}
	return c.settings
}

// Loaded reports whether Load has succeeded at least once.
func (c *Config) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Get returns the raw value at a dotted, case-insensitive key, or nil.
func (c *Config) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return lookup(c.values, key)
}

func lookup(values map[string]any, key string) any {
	if values == nil || key == "" {
		return nil
	}

	var current any = values
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		if current, ok = m[part]; !ok {
			return nil
		}
	}
	return current
}

// String returns the value at key as a string, or "".
func (c *Config) String(key string) string {
	return cast.ToString(c.Get(key))
}

// Int returns the value at key as an int, or 0.
func (c *Config) Int(key string) int {
	return cast.ToInt(c.Get(key))
}

// Bool returns the value at key as a bool, or false.
func (c *Config) Bool(key string) bool {
	return cast.ToBool(c.Get(key))
}

// Duration returns the value at key as a time.Duration, or 0.
func (c *Config) Duration(key string) time.Duration {
	return cast.ToDuration(c.Get(key))
}

// StringMap returns the value at key as a map, or nil.
func (c *Config) StringMap(key string) map[string]any {
	v := c.Get(key)
	if v == nil {
		return nil
	}
	return cast.ToStringMap(v)
}

// Values returns a deep copy of the merged key space.
func (c *Config) Values() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.values == nil {
		return nil
	}
	return normalizeMapKeys(c.values)
}

// Dump writes the merged configuration to w in the given format.
//
// Errors:
//   - [ErrNotLoaded] if Load has not succeeded
//   - [codec.ErrUnknownType] if no encoder exists for codecType
func (c *Config) Dump(w io.Writer, codecType codec.Type) error {
	values := c.Values()
	if values == nil {
		return ErrNotLoaded
	}

	enc, err := codec.GetEncoder(codecType)
	if err != nil {
		return err
	}
	data, err := enc.Encode(values)
	if err != nil {
		return NewError("dump", "encode", err)
	}
	_, err = w.Write(data)
	return err
}
