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

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/AlejandroPF/tight/config/codec"
)

// File loads configuration from a file path or from in-memory content.
type File struct {
	path     string
	data     []byte
	decoder  codec.Decoder
	optional bool
}

// NewFile creates a File source that reads path and decodes it with decoder.
func NewFile(path string, decoder codec.Decoder) *File {
	return &File{path: path, decoder: decoder}
}

// NewFileAuto creates a File source whose decoder is picked from the file extension.
//
// Errors:
//   - [codec.ErrUnknownType] if the extension is not recognized
func NewFileAuto(path string) (*File, error) {
	typ, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	dec, err := codec.GetDecoder(typ)
	if err != nil {
		return nil, err
	}
	return NewFile(path, dec), nil
}

// NewFileContent creates a File source that decodes data.
func NewFileContent(data []byte, decoder codec.Decoder) *File {
	return &File{data: data, decoder: decoder}
}

// Optional makes a missing file load as an empty map instead of failing.
func (f *File) Optional() *File {
	f.optional = true
	return f
}

// Load reads and decodes the file.
func (f *File) Load(context.Context) (map[string]any, error) {
	data := f.data
	if f.path != "" {
		var err error
		data, err = os.ReadFile(f.path)
		if err != nil {
			if f.optional && errors.Is(err, fs.ErrNotExist) {
				return map[string]any{}, nil
			}
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	var conf map[string]any
	if err := f.decoder.Decode(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to decode file %q: %w", f.path, err)
	}
	return conf, nil
}

// String identifies the source in errors.
func (f *File) String() string {
	if f.path == "" {
		return "content"
	}
	return "file:" + f.path
}
