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

package render

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

var (
	// ErrRender wraps every template failure.
	ErrRender = errors.New("render error")

	// ErrTemplateNotFound indicates the named template file does not exist.
	ErrTemplateNotFound = errors.New("template not found")
)

// Engine renders named templates.
// Implementations must be safe for concurrent use.
type Engine interface {
	// Render executes the template called name with data and writes the
	// result to w. Nothing is written when an error is returned.
	Render(w io.Writer, name string, data map[string]any) error

	// Exists reports whether a template called name can be loaded.
	Exists(name string) bool
}

// Option configures an engine.
type Option func(o *options)

type options struct {
	reload bool
	funcs  template.FuncMap
}

// WithReload disables the parse cache so edits to template files are picked
// up on the next render. Intended for development.
func WithReload(enabled bool) Option {
	return func(o *options) { o.reload = enabled }
}

// WithFuncs adds functions available to HTML templates.
// The text engine ignores them.
func WithFuncs(funcs template.FuncMap) Option {
	return func(o *options) {
		if o.funcs == nil {
			o.funcs = template.FuncMap{}
		}
		for k, v := range funcs {
			o.funcs[k] = v
		}
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// resolve returns the file path of name inside dir. Names must stay inside dir.
func resolve(dir, name string) (string, error) {
	if name == "" || !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("%w: invalid template name %q", ErrRender, name)
	}
	return filepath.Join(dir, filepath.FromSlash(name)), nil
}

// exists reports whether name resolves to a regular file inside dir.
func exists(dir, name string) bool {
	path, err := resolve(dir, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// readTemplate loads the source of name from dir.
func readTemplate(dir, name string) ([]byte, error) {
	path, err := resolve(dir, name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrRender, name, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}
	return data, nil
}
