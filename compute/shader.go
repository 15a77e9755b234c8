// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

var shaders = newShaderCache(DefaultShaderCacheSize)

// CompileWGSL compiles WGSL source to SPIR-V words. Results are cached by
// source; the returned slice is shared and must not be modified.
func CompileWGSL(source string) ([]uint32, error) {
	return shaders.getOrCompile(source, compileWGSL)
}

// ShaderCacheStats returns the counters of the CompileWGSL cache.
func ShaderCacheStats() CacheStats { return shaders.stats() }

// ResetShaderCache drops every cached compilation and zeroes the counters.
func ResetShaderCache() {
	shaders.clear()
	shaders.resetStats()
}

func compileWGSL(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compute: compile WGSL: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compute: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is a stream of little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}
