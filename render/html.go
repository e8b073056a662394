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
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sync"
)

// HTML renders html/template files from a directory.
//
// Templates are parsed on first use and cached unless reload is enabled.
type HTML struct {
	dir  string
	opts options

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewHTML returns an HTML engine reading templates from dir.
//
// Example:
//
//	engine := render.NewHTML("./templates", render.WithReload(cfg.Development))
func NewHTML(dir string, opts ...Option) *HTML {
	return &HTML{
		dir:   dir,
		opts:  newOptions(opts),
		cache: make(map[string]*template.Template),
	}
}

// Dir returns the template directory.
func (e *HTML) Dir() string {
	return e.dir
}

// Exists reports whether dir/name is a regular file.
func (e *HTML) Exists(name string) bool {
	return exists(e.dir, name)
}

// Render executes the template called name with data.
//
// Errors:
//   - [ErrRender] wrapping [ErrTemplateNotFound] if the file does not exist
//   - [ErrRender] wrapping the parse or execution error
func (e *HTML) Render(w io.Writer, name string, data map[string]any) error {
	tmpl, err := e.lookup(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}
	return nil
}

func (e *HTML) lookup(name string) (*template.Template, error) {
	if !e.opts.reload {
		e.mu.RLock()
		tmpl, ok := e.cache[name]
		e.mu.RUnlock()
		if ok {
			return tmpl, nil
		}
	}

	src, err := readTemplate(e.dir, name)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(name).Funcs(e.opts.funcs).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}

	if !e.opts.reload {
		e.mu.Lock()
		e.cache[name] = tmpl
		e.mu.Unlock()
	}
	return tmpl, nil
}
