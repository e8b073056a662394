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

package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// TypeEnvVar is the environment variable codec type.
const TypeEnvVar Type = "env_var"

// EnvSeparator separates nesting levels in variable names.
// A single underscore stays part of the key, so MVC__INDEX_NAME maps to mvc.index_name.
const EnvSeparator = "__"

func init() {
	RegisterDecoder(TypeEnvVar, EnvVarCodec{})
}

// EnvVarCodec decodes KEY=value lines into a nested map.
// Keys are lowercased and split on [EnvSeparator]. It cannot encode.
type EnvVarCodec struct{}

// Encode always fails; environment variables are read-only.
func (EnvVarCodec) Encode(any) ([]byte, error) {
	return nil, errors.New("encoding to environment variables is not supported")
}

// Decode parses data into v, which must be a *map[string]any.
// Lines without '=' and keys with no usable segment are skipped.
func (EnvVarCodec) Decode(data []byte, v any) error {
	ptr, ok := v.(*map[string]any)
	if !ok {
		return fmt.Errorf("EnvVarCodec.Decode: expected *map[string]any, got %T", v)
	}

	conf := make(map[string]any)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		key, value, found := strings.Cut(sc.Text(), "=")
		if !found {
			continue
		}

		var parts []string
		for _, p := range strings.Split(strings.ToLower(strings.TrimSpace(key)), EnvSeparator) {
			if p = strings.Trim(p, "_"); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) == 0 {
			continue
		}

		current := conf
		for _, p := range parts[:len(parts)-1] {
			next, ok := current[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				current[p] = next
			}
			current = next
		}
		current[parts[len(parts)-1]] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return err
	}

	*ptr = conf
	return nil
}
