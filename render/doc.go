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

// Package render provides the template engines used by Tight views.
//
// An [Engine] renders a named template from its directory with a set of
// variable bindings. Two engines are provided:
//
//   - [NewHTML]: html/template with contextual escaping and a parse cache
//   - [NewText]: plain {{key}} substitution for text and email bodies
//
// Every failure, including a missing template, is reported wrapped with
// [ErrRender] so callers can treat broken renders uniformly:
//
//	var buf bytes.Buffer
//	if err := engine.Render(&buf, "Root.html", vars); errors.Is(err, render.ErrRender) {
//	    // fall back to the not-found page
//	}
//
// Engines render into an internal buffer and write to w only on success,
// so a failed render never produces partial output.
package render
