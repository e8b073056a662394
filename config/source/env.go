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

package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AlejandroPF/tight/config/codec"
)

// OSEnvVar loads configuration from environment variables starting with a prefix.
//
// The prefix is stripped and the rest is split on "__":
//
//	TIGHT_SERVER__ADDR=:8080        -> server.addr = ":8080"
//	TIGHT_MVC__INDEX_NAME=Home      -> mvc.index_name = "Home"
//	TIGHT_DEVELOPMENT=true          -> development = "true"
type OSEnvVar struct {
	prefix  string
	environ func() []string
	decoder codec.Decoder
}

// NewOSEnvVar creates an OSEnvVar source for prefix. Matching ignores case.
func NewOSEnvVar(prefix string) *OSEnvVar {
	return &OSEnvVar{
		prefix:  prefix,
		environ: os.Environ,
		decoder: codec.EnvVarCodec{},
	}
}

// Load decodes the matching variables.
func (e *OSEnvVar) Load(context.Context) (map[string]any, error) {
	upperPrefix := strings.ToUpper(e.prefix)

	var lines []string
	for _, kv := range e.environ() {
		if len(kv) < len(e.prefix) || strings.ToUpper(kv[:len(e.prefix)]) != upperPrefix {
			continue
		}
		lines = append(lines, kv[len(e.prefix):])
	}

	var conf map[string]any
	if err := e.decoder.Decode([]byte(strings.Join(lines, "\n")), &conf); err != nil {
		return nil, fmt.Errorf("failed to decode environment variables: %w", err)
	}
	return conf, nil
}

// String identifies the source in errors.
func (e *OSEnvVar) String() string {
	return "env:" + e.prefix
}
