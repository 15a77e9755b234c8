// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import "testing"

const fillWGSL = `
@group(0) @binding(0) var canvas: texture_storage_2d<rgba8unorm, write>;

@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
    textureStore(canvas, vec2<i32>(id.xy), vec4<f32>(1.0, 0.0, 0.0, 1.0));
}
`

func TestCompileWGSL(t *testing.T) {
	words, err := CompileWGSL(fillWGSL)
	if err != nil {
		// naga does not cover every storage texture feature yet.
		t.Skipf("Skipping: naga cannot compile storage texture shader: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", words[0])
	}
}

func TestCompileWGSLRejectsGarbage(t *testing.T) {
	if _, err := CompileWGSL("fn main( {"); err == nil {
		t.Error("CompileWGSL() error = nil for invalid source")
	}
}

func TestCompileWGSLCached(t *testing.T) {
	ResetShaderCache()
	t.Cleanup(ResetShaderCache)

	if _, err := CompileWGSL(fillWGSL); err != nil {
		t.Skipf("Skipping: naga cannot compile storage texture shader: %v", err)
	}
	if _, err := CompileWGSL(fillWGSL); err != nil {
		t.Fatal(err)
	}
	if s := ShaderCacheStats(); s.Hits != 1 || s.Misses != 1 {
		t.Errorf("ShaderCacheStats() = %+v, want 1 hit and 1 miss", s)
	}
}
