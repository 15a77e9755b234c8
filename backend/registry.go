// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/pixbuf/gpucore"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register registers an adapter factory under name, replacing any factory
// already registered with that name. Backends call it from init.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the adapter registered under name.
func Open(name string) (gpucore.GPUAdapter, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	a, err := f()
	if err != nil {
		return nil, fmt.Errorf("backend: open %q: %w", name, err)
	}
	return a, nil
}

// OpenDefault opens the best available backend: any hardware backend a
// host registered, in name order, before the software fallback.
// It returns the chosen name with the adapter.
func OpenDefault() (string, gpucore.GPUAdapter, error) {
	names := Available()
	// Software last.
	slices.SortStableFunc(names, func(a, b string) int {
		switch {
		case a == Software && b != Software:
			return 1
		case b == Software && a != Software:
			return -1
		}
		return 0
	})

	var lastErr error = ErrBackendNotAvailable
	for _, name := range names {
		a, err := Open(name)
		if err == nil {
			return name, a, nil
		}
		lastErr = err
	}
	return "", nil, lastErr
}
