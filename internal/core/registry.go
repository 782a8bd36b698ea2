package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[MemberType]FormDefinition)
	registryMu sync.RWMutex
)

// Register adds a form definition to the registry.
// Panics if the member type is already registered or the steps are not
// numbered 1..n in order.
func Register(def FormDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Type]; exists {
		panic(fmt.Sprintf("form already registered: %s", def.Type))
	}
	for i, step := range def.Steps {
		if step.Number != i+1 {
			panic(fmt.Sprintf("form %s: step %d has number %d", def.Type, i+1, step.Number))
		}
		if step.Validate == nil {
			panic(fmt.Sprintf("form %s: step %d has no validator", def.Type, step.Number))
		}
	}
	if def.DraftKey == nil {
		panic(fmt.Sprintf("form %s: missing DraftKey", def.Type))
	}

	registry[def.Type] = def
}

// Get returns a form definition by member type.
// Returns false if not found.
func Get(mt MemberType) (FormDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[mt]
	return def, ok
}

// Definition returns a form definition or an ErrUnknownMemberType error.
func Definition(mt MemberType) (FormDefinition, error) {
	def, ok := Get(mt)
	if !ok {
		return FormDefinition{}, fmt.Errorf("%w: %s", ErrUnknownMemberType, mt)
	}
	return def, nil
}

// All returns all registered form definitions sorted by member type.
func All() []FormDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]FormDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Type < result[j].Type
	})

	return result
}

// Types returns the registered member types, sorted.
func Types() []MemberType {
	defs := All()
	types := make([]MemberType, len(defs))
	for i, d := range defs {
		types[i] = d.Type
	}
	return types
}

// Clear removes all registered forms.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[MemberType]FormDefinition)
}
