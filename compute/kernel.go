// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf"
)

// DefaultWorkgroupSize matches @workgroup_size(8, 8) in WGSL.
var DefaultWorkgroupSize = [2]uint32{8, 8}

// Uniforms is a kernel parameter block. UniformBytes is called before every
// dispatch and its result is copied to the GPU as is, so it must already
// follow WGSL uniform layout rules.
type Uniforms interface {
	UniformBytes() []byte
}

// Kernel describes a compute shader that writes a pixel buffer.
type Kernel struct {
	// Label names the pipeline in logs and debug tools.
	Label string

	// Source is the WGSL source. It is compiled with naga unless SPIRV is
	// set.
	Source string

	// SPIRV is precompiled shader code. It takes precedence over Source.
	SPIRV []uint32

	// EntryPoint is the compute entry point (default "main").
	EntryPoint string

	// WorkgroupSize must match the shader's @workgroup_size
	// (default DefaultWorkgroupSize).
	WorkgroupSize [2]uint32

	// Format is the storage texture format the shader declares
	// (default rgba8unorm).
	Format gputypes.TextureFormat

	// InPlace is set when the shader reads and writes a single read_write
	// texture. Otherwise the bridge ping-pongs between two textures.
	InPlace bool

	// Params is the optional uniform block bound at group 1.
	Params Uniforms
}

func (k Kernel) withDefaults() Kernel {
	if k.Label == "" {
		k.Label = "kernel"
	}
	if k.EntryPoint == "" {
		k.EntryPoint = "main"
	}
	if k.WorkgroupSize == [2]uint32{} {
		k.WorkgroupSize = DefaultWorkgroupSize
	}
	if k.Format == gputypes.TextureFormatUndefined {
		k.Format = gputypes.TextureFormatRGBA8Unorm
	}
	return k
}

func (k Kernel) validate(maxWG [3]uint32) error {
	if k.Source == "" && len(k.SPIRV) == 0 {
		return fmt.Errorf("compute: kernel %q has no shader code", k.Label)
	}
	wg := k.WorkgroupSize
	if wg[0] == 0 || wg[1] == 0 {
		return fmt.Errorf("compute: kernel %q has empty workgroup size %v", k.Label, wg)
	}
	if wg[0] > maxWG[0] || wg[1] > maxWG[1] {
		return fmt.Errorf("%w: kernel %q workgroup %v exceeds device limit %v",
			pixbuf.ErrIncompatibleBinding, k.Label, wg, maxWG)
	}
	return nil
}

// Workgroups returns the workgroup count that covers grid with workgroups
// of size wg, rounding up so edge cells are included.
func Workgroups(grid pixbuf.Extent, wg [2]uint32) (x, y uint32) {
	if grid.Empty() || wg[0] == 0 || wg[1] == 0 {
		return 0, 0
	}
	x = (uint32(grid.Width) + wg[0] - 1) / wg[0]
	y = (uint32(grid.Height) + wg[1] - 1) / wg[1]
	return x, y
}

var errNoBuffer = errors.New("compute: no buffer attached")
