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

package router

import "strings"

// FilterPath converts Windows separators to '/' and adds a trailing slash.
// An empty path is returned unchanged.
func FilterPath(path string) string {
	return AddTrailingSlash(strings.ReplaceAll(path, `\`, "/"))
}

// AddTrailingSlash appends '/' unless path is empty or already ends with one.
func AddTrailingSlash(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// CollapseSlashes replaces every run of '/' with a single '/'.
func CollapseSlashes(path string) string {
	if !strings.Contains(path, "//") {
		return path
	}

	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if c == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

// RemoveFirst removes the first occurrence of sub from s.
// s is returned unchanged when sub is empty or absent.
func RemoveFirst(s, sub string) string {
	if sub == "" {
		return s
	}
	i := strings.Index(s, sub)
	if i < 0 {
		return s
	}
	return s[:i] + s[i+len(sub):]
}

// normalizeBasePath returns the request-relative base path.
//
//  1. Separators are converted to '/' and a trailing slash is added
//  2. The first occurrence of docRoot (if any) is removed
//  3. A leading slash is ensured and repeated slashes collapsed
//
// An empty basePath yields "/".
func normalizeBasePath(basePath, docRoot string) string {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return "/"
	}

	basePath = FilterPath(basePath)
	if docRoot != "" {
		docRoot = strings.TrimSuffix(FilterPath(docRoot), "/")
		if docRoot != "" && strings.Contains(basePath, docRoot) {
			basePath = RemoveFirst(basePath, docRoot)
		}
	}

	return CollapseSlashes("/" + basePath)
}

// joinPath prefixes pattern with basePath and collapses duplicate separators.
func joinPath(basePath, pattern string) string {
	return CollapseSlashes(basePath + pattern)
}
