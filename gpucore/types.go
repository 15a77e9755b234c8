// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Resource IDs
//
// Each adapter maintains the mapping between IDs and backend resources.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// ComputePipelineID is an opaque handle to a compute pipeline.
type ComputePipelineID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// SubmissionIndex identifies one Submit call. Indices increase
// monotonically per adapter.
type SubmissionIndex uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	BufferUsageCopySrc BufferUsage = 1 << 2
	BufferUsageCopyDst BufferUsage = 1 << 3
	BufferUsageUniform BufferUsage = 1 << 6
	BufferUsageStorage BufferUsage = 1 << 7
)

// TextureDesc describes a 2D texture.
type TextureDesc struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the texture dimensions in texels.
	Width, Height int

	// Format is the texel format.
	Format gputypes.TextureFormat

	// Usage is the set of allowed usages.
	Usage gputypes.TextureUsage
}

// ByteSize returns the number of bytes of tightly packed texel data, or 0
// when the format has no fixed CPU layout.
func (d TextureDesc) ByteSize() int {
	return d.Width * d.Height * BytesPerTexel(d.Format)
}

// Validate checks the dimensions and that the format has a CPU layout.
func (d TextureDesc) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("gpucore: invalid texture size %dx%d", d.Width, d.Height)
	}
	if BytesPerTexel(d.Format) == 0 {
		return fmt.Errorf("gpucore: unsupported texture format %v", d.Format)
	}
	return nil
}

// BytesPerTexel returns the size of one texel for the 8-bit formats that
// can be uploaded from the CPU, and 0 for everything else.
func BytesPerTexel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	case gputypes.TextureFormatR8Unorm:
		return 1
	default:
		return 0
	}
}

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeStorageTexture is a storage texture binding.
	// The access mode is given by BindGroupLayoutEntry.Access.
	BindingTypeStorageTexture
)

// StorageAccess is the access mode of a storage texture binding.
type StorageAccess uint32

// Storage texture access modes.
const (
	StorageAccessReadOnly StorageAccess = iota + 1
	StorageAccessWriteOnly
	StorageAccessReadWrite
)

// String returns the WGSL spelling of the access mode.
func (a StorageAccess) String() string {
	switch a {
	case StorageAccessReadOnly:
		return "read"
	case StorageAccessWriteOnly:
		return "write"
	case StorageAccessReadWrite:
		return "read_write"
	default:
		return fmt.Sprintf("StorageAccess(%d)", uint32(a))
	}
}

// ComputePipelineDesc describes a compute pipeline.
type ComputePipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// ShaderModule contains the compute shader.
	ShaderModule ShaderModuleID

	// EntryPoint is the name of the shader entry point function.
	EntryPoint string
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Type is the type of resource bound at this index.
	Type BindingType

	// Access and Format apply to storage texture bindings.
	Access StorageAccess
	Format gputypes.TextureFormat

	// MinBindingSize is the minimum buffer size for buffer bindings.
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind (for buffer bindings).
	Buffer BufferID

	// Texture is the texture to bind (for texture bindings).
	Texture TextureID
}
