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

// Package codec converts configuration and resource files between their
// encoded form and Go values.
//
// Built-in codecs are registered at init time:
//
//   - JSON (github.com/goccy/go-json)
//   - YAML (github.com/goccy/go-yaml)
//   - TOML (github.com/BurntSushi/toml)
//   - EnvVar: KEY=value lines, "__" separating nesting levels
//
// Codecs are looked up by [Type] or by file extension:
//
//	dec, err := codec.GetDecoder(codec.TypeYAML)
//	t, err := codec.ForPath("config/tight.toml") // TypeTOML
package codec
