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

package codec

import (
	"fmt"
	"sync"
)

// registry holds the registered encoders and decoders.
type registry struct {
	mu       sync.RWMutex
	encoders map[Type]Encoder
	decoders map[Type]Decoder
}

var defaultRegistry = &registry{
	encoders: make(map[Type]Encoder),
	decoders: make(map[Type]Decoder),
}

// RegisterEncoder registers an encoder for the given type, replacing any previous one.
func RegisterEncoder(name Type, encoder Encoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.encoders[name] = encoder
}

// RegisterDecoder registers a decoder for the given type, replacing any previous one.
func RegisterDecoder(name Type, decoder Decoder) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.decoders[name] = decoder
}

// GetEncoder returns the encoder registered for name.
//
// Errors:
//   - [ErrUnknownType] if no encoder is registered
func GetEncoder(name Type) (Encoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	encoder, ok := defaultRegistry.encoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: no encoder for %q", ErrUnknownType, name)
	}
	return encoder, nil
}

// GetDecoder returns the decoder registered for name.
//
// Errors:
//   - [ErrUnknownType] if no decoder is registered
func GetDecoder(name Type) (Decoder, error) {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()

	decoder, ok := defaultRegistry.decoders[name]
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %q", ErrUnknownType, name)
	}
	return decoder, nil
}
