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

// Package logging provides the structured logger used across Tight.
//
// It is a thin layer over log/slog that picks a handler (JSON, key=value text,
// or colored console output), a level that can be changed at runtime, and
// service metadata added to every entry.
//
// # Basic Usage
//
//	logger := logging.MustNew(logging.WithConsoleHandler())
//	logger.Info("server started", "addr", ":8080")
//
// # Passing the logger on
//
// Components take a plain *slog.Logger:
//
//	r := router.MustNew("/", router.WithLogger(logger.Logger()))
//
// # Configuration strings
//
// ParseLevel and ParseHandlerType convert configuration values:
//
//	level, err := logging.ParseLevel("debug")
//	handler, err := logging.ParseHandlerType("console")
//
// # Redaction
//
// Values of attributes named password, token, secret, authorization, cookie
// and session_id are replaced with "***REDACTED***".
package logging
