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
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Type represents a codec type identifier.
type Type string

// ErrUnknownType indicates that no codec is registered for a type or extension.
var ErrUnknownType = errors.New("unknown codec type")

// Encoder converts Go values into encoded byte representations.
// Implementations must be safe for concurrent use.
type Encoder interface {
	Encode(v any) ([]byte, error)
}

// Decoder converts encoded byte representations into Go values.
// Implementations must be safe for concurrent use.
type Decoder interface {
	// Decode converts data into the value pointed to by v.
	Decode(data []byte, v any) error
}

// Codec is both an Encoder and a Decoder.
type Codec interface {
	Encoder
	Decoder
}

// ForPath returns the codec type for a file name based on its extension.
//
// Errors:
//   - [ErrUnknownType] if the extension is not recognized
func ForPath(path string) (Type, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return ForExtension(ext)
}

// ForExtension returns the codec type for an extension without the dot.
func ForExtension(ext string) (Type, error) {
	switch strings.ToLower(ext) {
	case "json":
		return TypeJSON, nil
	case "yaml", "yml":
		return TypeYAML, nil
	case "toml":
		return TypeTOML, nil
	}
	return "", fmt.Errorf("%w: extension %q", ErrUnknownType, ext)
}

// Extension returns the canonical file extension for t, without the dot.
func (t Type) Extension() string {
	switch t {
	case TypeYAML:
		return "yaml"
	default:
		return string(t)
	}
}
