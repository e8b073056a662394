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
	"time"

	"github.com/spf13/cast"
)

// Get returns the value at key converted to T, or the zero value of T.
//
// Example:
//
//	expire := config.Get[time.Duration](cfg, "cookie.expire")
func Get[T any](c *Config, key string) T {
	v, _ := GetE[T](c, key)
	return v
}

// GetOr returns the value at key converted to T, or defaultVal when the key
// is missing or cannot be converted.
//
// Example:
//
//	locale := config.GetOr(cfg, "localize.default_locale", "en")
func GetOr[T any](c *Config, key string, defaultVal T) T {
	v, err := GetE[T](c, key)
	if err != nil {
		return defaultVal
	}
	return v
}

// GetE returns the value at key converted to T.
//
// Errors:
//   - [ErrNotLoaded] if c is nil or has not been loaded
//   - an error if the key is missing or the value cannot be converted
func GetE[T any](c *Config, key string) (T, error) {
	var zero T
	if c == nil || !c.Loaded() {
		return zero, ErrNotLoaded
	}

	val := c.Get(key)
	if val == nil {
		return zero, fmt.Errorf("key %q not found", key)
	}
	if result, ok := val.(T); ok {
		return result, nil
	}
	if result, ok := convertToType[T](val); ok {
		return result, nil
	}
	return zero, fmt.Errorf("cannot convert value at key %q to type %T", key, zero)
}

// convertToType converts val with spf13/cast for the basic types.
func convertToType[T any](val any) (T, bool) {
	var zero T
	var (
		result any
		err    error
	)

	switch any(zero).(type) {
	case string:
		result, err = cast.ToStringE(val)
	case int:
		result, err = cast.ToIntE(val)
	case int64:
		result, err = cast.ToInt64E(val)
	case float64:
		result, err = cast.ToFloat64E(val)
	case bool:
		result, err = cast.ToBoolE(val)
	case []string:
		result, err = cast.ToStringSliceE(val)
	case map[string]any:
		result, err = cast.ToStringMapE(val)
	case map[string]string:
		result, err = cast.ToStringMapStringE(val)
	case time.Duration:
		result, err = cast.ToDurationE(val)
	default:
		return zero, false
	}
	if err != nil {
		return zero, false
	}

	typed, ok := result.(T)
	return typed, ok
}
