//-------------------------------------------------------------------------
//
// pgEdge Tourcast
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package variants

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownVariant is returned by Get for unregistered names.
var ErrUnknownVariant = errors.New("unknown forecast variant")

var (
	registry = make(map[string]Variant)
	mu       sync.RWMutex
)

// Register adds a variant to the registry.
func Register(v Variant) {
	mu.Lock()
	defer mu.Unlock()
	registry[v.Name()] = v
}

// Get retrieves a variant by name.
func Get(name string) (Variant, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Resolve looks up every name, failing on the first unknown one.
func Resolve(names []string) ([]Variant, error) {
	out := make([]Variant, 0, len(names))
	for _, name := range names {
		v, err := Get(name)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// List returns all registered variant names, sorted.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
