// Copyright (c) 2024-2025 DarkCodePE / Enjambre
// SPDX-License-Identifier: MIT

package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// RISK LEVELS
// =============================================================================

// RiskLevel indicates how dangerous a tool operation is.
type RiskLevel int

const (
	// RiskLow - read-only operations, no side effects
	RiskLow RiskLevel = iota

	// RiskMedium - may modify files but can be undone
	RiskMedium

	// RiskHigh - modifies files, harder to undo
	RiskHigh
)

// String returns the string representation of a risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "Low"
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Unknown"
	}
}

// =============================================================================
// TOOL INTERFACE
// =============================================================================

// Params carries named tool arguments.
type Params map[string]string

// String returns the named parameter or a default.
func (p Params) String(key, def string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Tool is one executable local operation.
type Tool interface {
	// Name is the registry key, lowercase.
	Name() string

	// Description is one line of help text.
	Description() string

	// Risk declares how dangerous execution is.
	Risk() RiskLevel

	// Execute runs the tool and returns its textual output.
	Execute(ctx context.Context, params Params) (string, error)
}

// NotFoundError reports a lookup for an unregistered tool.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q is not registered", e.Tool)
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry maps tool names to tools. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// DefaultRegistry returns a registry with all built-in tools.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ListFilesTool{})
	r.Register(&HashTool{})
	r.Register(&Base64Tool{})
	r.Register(&JSONTool{})
	r.Register(&SysInfoTool{})
	return r
}

// Register adds or replaces a tool under its own name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Lookup returns the tool for a name, or a *NotFoundError.
func (r *Registry) Lookup(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Tool: name}
	}
	return t, nil
}

// List returns all registered tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Execute looks up and runs a tool in one call.
func (r *Registry) Execute(ctx context.Context, name string, params Params) (string, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, params)
}
