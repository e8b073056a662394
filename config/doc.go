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

// Package config loads Tight configuration from layered sources.
//
// Layers are merged in order, later layers overriding earlier ones key by key:
//
//  1. Built-in defaults (see [Defaults])
//  2. Every source in the order its option was given
//
// Keys are case-insensitive and nested maps form dotted paths. The merged
// result is decoded into [Settings] and validated.
//
// # Quick Start
//
//	cfg := config.MustNew(
//	    config.WithOptionalFile("tight.yaml"),
//	    config.WithEnv("TIGHT_"),
//	)
//	if err := cfg.Load(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	s := cfg.Settings()
//	fmt.Println(s.MVC.IndexName) // "Root" unless overridden
//
// # Sources
//
//	config.WithFile("tight.yaml")                       // format from extension
//	config.WithFileAs("tight.conf", codec.TypeTOML)     // explicit format
//	config.WithContent(data, codec.TypeJSON)            // in-memory content
//	config.WithEnv("TIGHT_")                            // TIGHT_MVC__INDEX_NAME=Home
//	config.WithValues(map[string]any{"development": true})
//
// # Dotted access
//
// Values not covered by Settings, such as module-specific keys, are read with
// the dotted accessors or the generic helpers:
//
//	cfg.String("app.title")
//	config.GetOr(cfg, "app.items_per_page", 20)
package config
