// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// DefaultShaderCacheSize is the number of compiled shaders kept by
// CompileWGSL.
const DefaultShaderCacheSize = 32

// shaderCache is an LRU of compiled SPIR-V keyed by WGSL source. Bridges
// for the same kernel share one compilation.
type shaderCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	lru      *list.List // front is most recent

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type shaderEntry struct {
	source string
	spirv  []uint32
}

func newShaderCache(capacity int) *shaderCache {
	if capacity <= 0 {
		capacity = DefaultShaderCacheSize
	}
	return &shaderCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// getOrCompile returns the cached words for source or compiles them.
// Failed compilations are not cached. The lock is held while compiling so
// concurrent callers compile a source once.
func (c *shaderCache) getOrCompile(source string, compile func(string) ([]uint32, error)) ([]uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[source]; ok {
		c.lru.MoveToFront(el)
		c.hits.Add(1)
		return el.Value.(*shaderEntry).spirv, nil
	}
	c.misses.Add(1)

	words, err := compile(source)
	if err != nil {
		return nil, err
	}

	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		delete(c.entries, oldest.Value.(*shaderEntry).source)
		c.lru.Remove(oldest)
		c.evictions.Add(1)
	}
	c.entries[source] = c.lru.PushFront(&shaderEntry{source: source, spirv: words})
	return words, nil
}

func (c *shaderCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.lru.Init()
}

// CacheStats reports the shader cache counters.
type CacheStats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

func (c *shaderCache) stats() CacheStats {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()
	return CacheStats{
		Len:       n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

func (c *shaderCache) resetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
