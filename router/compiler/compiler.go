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

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// ParamMarker introduces a named placeholder in a template.
	ParamMarker = ':'

	// paramCapture replaces every placeholder in the compiled expression.
	paramCapture = `(\w+)`
)

var (
	// ErrEmptyPattern indicates that an empty template was passed to Compile.
	ErrEmptyPattern = errors.New("route pattern is empty")

	// ErrDuplicateParam indicates that a placeholder name occurs more than once in a template.
	ErrDuplicateParam = errors.New("duplicate route parameter")
)

// placeholderRe finds placeholders in a raw template.
var placeholderRe = regexp.MustCompile(`:(\w+)`)

// Pattern is a compiled route template.
// It is immutable after Compile returns and safe for concurrent use.
type Pattern struct {
	template string         // Original template (/books/:id)
	expr     string         // Compiled expression (^/books/(\w+)$)
	re       *regexp.Regexp // Compiled matcher
	names    []string       // Placeholder names in order of appearance
}

// Compile compiles a route template into a Pattern.
//
// Errors:
//   - [ErrEmptyPattern] if template is empty
//   - [ErrDuplicateParam] if a placeholder name is used twice
func Compile(template string) (*Pattern, error) {
	if template == "" {
		return nil, ErrEmptyPattern
	}

	locs := placeholderRe.FindAllStringSubmatchIndex(template, -1)
	names := make([]string, 0, len(locs))
	seen := make(map[string]struct{}, len(locs))

	var b strings.Builder
	b.Grow(len(template) + len(locs)*len(paramCapture) + 2)
	b.WriteByte('^')

	last := 0
	for _, loc := range locs {
		// loc[0]:loc[1] is ":name", loc[2]:loc[3] is "name"
		name := template[loc[2]:loc[3]]
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, template)
		}
		seen[name] = struct{}{}
		names = append(names, name)

		b.WriteString(regexp.QuoteMeta(template[last:loc[0]]))
		b.WriteString(paramCapture)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(template[last:]))
	b.WriteByte('$')

	expr := b.String()
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", template, err)
	}

	return &Pattern{
		template: template,
		expr:     expr,
		re:       re,
		names:    names,
	}, nil
}

// MustCompile is like Compile but panics if the template cannot be compiled.
// It simplifies initialization of package-level patterns.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic("compiler: " + err.Error())
	}
	return p
}

// Template returns the original template (e.g., "/users/:id").
func (p *Pattern) Template() string {
	return p.template
}

// String returns the compiled, anchored expression.
func (p *Pattern) String() string {
	return p.expr
}

// Names returns a copy of the placeholder names in order of appearance.
func (p *Pattern) Names() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// NumParams returns the number of placeholders in the template.
func (p *Pattern) NumParams() int {
	return len(p.names)
}

// IsStatic reports whether the template has no placeholders.
func (p *Pattern) IsStatic() bool {
	return len(p.names) == 0
}

// Match reports whether uri matches the whole pattern.
// On success the returned Params binds every placeholder name to its captured
// segment. The Pattern itself is never modified.
func (p *Pattern) Match(uri string) (Params, bool) {
	groups := p.re.FindStringSubmatch(uri)
	if groups == nil {
		return Params{}, false
	}
	if len(p.names) == 0 {
		return Params{}, true
	}

	values := make([]string, len(p.names))
	copy(values, groups[1:])

	return Params{names: p.names, values: values}, true
}
