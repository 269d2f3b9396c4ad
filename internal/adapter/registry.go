// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package adapter

import (
	"sort"
	"sync"
)

// ============================================================================
// ADAPTER REGISTRY
// ============================================================================

// Registry maps backend identifiers to adapters. It is constructed once
// at startup and passed by reference to the orchestrator: there is no
// package-level registry and no ambient global state.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register binds a backend id to an adapter. Re-registering an id
// replaces the previous binding.
func (r *Registry) Register(backend string, a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[backend] = a
}

// Lookup returns the adapter for a backend id, or a NotFoundError.
func (r *Registry) Lookup(backend string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[backend]
	if !ok {
		return nil, &NotFoundError{Backend: backend}
	}
	return a, nil
}

// Backends returns the sorted list of registered backend ids.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered adapters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.adapters)
}
