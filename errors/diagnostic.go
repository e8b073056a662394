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

package errors

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// stackTracer is implemented by errors created or wrapped with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// Frame is one resolved stack frame.
type Frame struct {
	Function string
	File     string
	Line     int
}

// String returns "file:line".
func (f Frame) String() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Report is the information shown on the diagnostic page.
type Report struct {
	Type    string
	Message string
	Origin  Frame
	Stack   []Frame
	Status  int
	Method  string
	Path    string
}

// Capture attaches the current stack to err unless its chain already carries one.
// A nil err yields nil.
func Capture(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if errors.As(err, &st) {
		return err
	}
	return pkgerrors.WithStack(err)
}

// Recovered converts a recovered panic value into an error with a stack.
func Recovered(v any) error {
	if err, ok := v.(error); ok {
		return pkgerrors.WithStack(fmt.Errorf("panic: %w", err))
	}
	return pkgerrors.Errorf("panic: %v", v)
}

// NewReport builds a Report for err.
//
// Type is the dynamic type of the root cause. The stack is taken from the
// innermost error in the chain that carries one.
func NewReport(req *http.Request, err error) Report {
	rep := Report{
		Type:    fmt.Sprintf("%T", rootCause(err)),
		Message: err.Error(),
		Status:  StatusOf(err),
	}
	if req != nil {
		rep.Method = req.Method
		rep.Path = req.URL.Path
	}

	if st := innermostStack(err); st != nil {
		rep.Stack = frames(st.StackTrace())
		if len(rep.Stack) > 0 {
			rep.Origin = rep.Stack[0]
		}
	}
	return rep
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(pkgerrors.Cause(err))
		if next == nil {
			return pkgerrors.Cause(err)
		}
		err = next
	}
}

func innermostStack(err error) stackTracer {
	var found stackTracer
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			found = st
		}
		err = errors.Unwrap(err)
	}
	return found
}

// frames resolves st. Frames of Capture and Recovered are dropped, and for a
// recovered panic everything up to runtime.gopanic is dropped so the stack
// starts at the panicking function.
func frames(st pkgerrors.StackTrace) []Frame {
	out := make([]Frame, 0, len(st))
	for _, f := range st {
		pc := uintptr(f) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		name := fn.Name()
		if name == "runtime.gopanic" {
			out = out[:0]
			continue
		}
		if len(out) == 0 && isCaptureFrame(name) {
			continue
		}
		file, line := fn.FileLine(pc)
		out = append(out, Frame{Function: name, File: file, Line: line})
	}
	return out
}

func isCaptureFrame(name string) bool {
	return strings.HasSuffix(name, "/errors.Capture") || strings.HasSuffix(name, "/errors.Recovered")
}

// Diagnostic renders an HTML page describing an error: its type, message,
// origin and stack. It is meant for development only.
type Diagnostic struct {
	// Development enables the HTML page. When false, Fallback is used.
	Development bool

	// Fallback formats errors outside development. Defaults to Simple.
	Fallback Formatter
}

// Format renders the diagnostic page, or delegates to Fallback outside development.
func (f *Diagnostic) Format(req *http.Request, err error) Response {
	if !f.Development {
		fallback := f.Fallback
		if fallback == nil {
			fallback = NewSimple()
		}
		return fallback.Format(req, err)
	}

	rep := NewReport(req, err)

	var buf bytes.Buffer
	if execErr := diagnosticPage.Execute(&buf, rep); execErr != nil {
		buf.Reset()
		buf.WriteString(template.HTMLEscapeString(rep.Type + ": " + rep.Message))
	}

	return Response{
		Status:      rep.Status,
		ContentType: "text/html; charset=utf-8",
		Body:        buf.String(),
	}
}

var diagnosticPage = template.Must(template.New("diagnostic").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Tight Framework Exception</title>
<style>
body{font-family:sans-serif;margin:2em;color:#222}
h1{font-size:1.4em;color:#b00020}
table{border-collapse:collapse}
td{padding:.2em .8em;border-bottom:1px solid #eee;font-family:monospace}
</style>
</head>
<body>
<h1>Tight Framework Exception</h1>
<p class="message"><strong>{{.Type}}:</strong> {{.Message}}</p>
{{if .Path}}<p class="request">{{.Method}} {{.Path}}</p>{{end}}
{{if .Origin.File}}<p class="origin">in {{.Origin.File}} at line {{.Origin.Line}}</p>{{end}}
{{if .Stack}}
<h2>Stack trace</h2>
<table>
{{range $i, $f := .Stack}}<tr><td>#{{$i}}</td><td>{{$f.Function}}</td><td>{{$f.File}}:{{$f.Line}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))
