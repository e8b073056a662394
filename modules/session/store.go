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

package session

import (
	"maps"
	"sync"
	"time"
)

// Store keeps session values by session id.
// Implementations must be safe for concurrent use.
type Store interface {
	// Create starts an empty session.
	Create(id string)
	// Exists reports whether id names a live session.
	Exists(id string) bool
	Get(id, key string) (any, bool)
	Set(id, key string, value any)
	// Delete removes key and reports whether it was present.
	Delete(id, key string) bool
	// All returns a copy of the session values.
	All(id string) map[string]any
	// Destroy removes the session.
	Destroy(id string)
}

type entry struct {
	values  map[string]any
	expires time.Time
}

// sweepEvery is the number of new sessions between two expiry sweeps.
const sweepEvery = 64

// MemoryStore keeps sessions in process memory.
// Sessions expire after the configured lifetime without access. Expired
// sessions are collected on access and by a sweep that runs while new
// sessions are created, at least once per lifetime.
type MemoryStore struct {
	lifetime time.Duration
	now      func() time.Time

	mu        sync.Mutex
	sessions  map[string]*entry
	inserts   int
	lastSweep time.Time
}

// NewMemoryStore returns a MemoryStore. A lifetime of zero disables expiry.
func NewMemoryStore(lifetime time.Duration) *MemoryStore {
	return &MemoryStore{
		lifetime: lifetime,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Sweep removes every expired session and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(s.now())
}

// sweep removes expired sessions. The caller holds mu.
func (s *MemoryStore) sweep(now time.Time) int {
	s.lastSweep = now
	if s.lifetime <= 0 {
		return 0
	}
	removed := 0
	for id, e := range s.sessions {
		if now.After(e.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// insert stores a fresh entry for id and sweeps when due. The caller holds mu.
func (s *MemoryStore) insert(id string) *entry {
	now := s.now()
	s.inserts++
	if s.lifetime > 0 && (s.inserts%sweepEvery == 0 || now.Sub(s.lastSweep) >= s.lifetime) {
		s.sweep(now)
	}
	e := &entry{values: make(map[string]any), expires: now.Add(s.lifetime)}
	s.sessions[id] = e
	return e
}

// live returns the entry for id, extending its lifetime, or nil.
// The caller holds mu.
func (s *MemoryStore) live(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	now := s.now()
	if s.lifetime > 0 {
		if now.After(e.expires) {
			delete(s.sessions, id)
			return nil
		}
		e.expires = now.Add(s.lifetime)
	}
	return e
}

// Create starts an empty session, replacing any existing one.
func (s *MemoryStore) Create(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insert(id)
}

// Exists reports whether id names a live session.
func (s *MemoryStore) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(id) != nil
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(id, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		return nil, false
	}
	v, ok := e.values[key]
	return v, ok
}

// Set stores value under key, creating the session if needed.
func (s *MemoryStore) Set(id, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		e = s.insert(id)
	}
	e.values[key] = value
}

// Delete removes key.
func (s *MemoryStore) Delete(id, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		return false
	}
	_, ok := e.values[key]
	delete(e.values, key)
	return ok
}

// All returns a copy of the session values.
func (s *MemoryStore) All(id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.live(id)
	if e == nil {
		return map[string]any{}
	}
	return maps.Clone(e.values)
}

// Destroy removes the session.
func (s *MemoryStore) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of sessions held, including expired ones not yet
// collected.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
