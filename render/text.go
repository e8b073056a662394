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
	"io"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"github.com/valyala/fasttemplate"
)

const (
	textStartTag = "{{"
	textEndTag   = "}}"
)

// Text renders plain-text templates with {{key}} placeholders.
//
// Placeholders are replaced with the string form of data[key]; unknown keys
// render as empty strings. Output is not escaped.
type Text struct {
	dir  string
	opts options

	mu    sync.RWMutex
	cache map[string]*fasttemplate.Template
}

// NewText returns a Text engine reading templates from dir.
func NewText(dir string, opts ...Option) *Text {
	return &Text{
		dir:   dir,
		opts:  newOptions(opts),
		cache: make(map[string]*fasttemplate.Template),
	}
}

// Dir returns the template directory.
func (e *Text) Dir() string {
	return e.dir
}

// Exists reports whether dir/name is a regular file.
func (e *Text) Exists(name string) bool {
	return exists(e.dir, name)
}

// Render substitutes data into the template called name.
func (e *Text) Render(w io.Writer, name string, data map[string]any) error {
	tmpl, err := e.lookup(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	_, err = tmpl.ExecuteFunc(&buf, func(w io.Writer, tag string) (int, error) {
		return io.WriteString(w, stringify(data[strings.TrimSpace(tag)]))
	})
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrRender, name, err)
	}
	return nil
}

func (e *Text) lookup(name string) (*fasttemplate.Template, error) {
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
	tmpl, err := fasttemplate.NewTemplate(string(src), textStartTag, textEndTag)
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

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
