// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpucore

// TextureStorage is the asset/texture service a pixel buffer needs.
//
// Implementations own the texture memory. Textures are tightly packed,
// row-major, with no row padding.
type TextureStorage interface {
	// CreateTexture allocates a texture described by desc.
	// The initial contents are zero.
	CreateTexture(desc *TextureDesc) (TextureID, error)

	// DestroyTexture releases a texture. Unknown IDs are ignored.
	DestroyTexture(id TextureID)

	// WriteTexture replaces the whole texture with data, which must be
	// exactly desc.ByteSize() long.
	WriteTexture(id TextureID, data []byte) error

	// ReadTexture returns a copy of the texture contents.
	ReadTexture(id TextureID) ([]byte, error)

	// TextureDesc returns the descriptor a texture was created with.
	TextureDesc(id TextureID) (TextureDesc, bool)
}

// GPUAdapter abstracts a GPU device able to run compute kernels.
//
// Work recorded with BeginComputePass is executed asynchronously after
// Submit. Poll reports completion without blocking; WaitIdle blocks until
// every submission has finished.
type GPUAdapter interface {
	TextureStorage

	// SupportsCompute reports whether compute pipelines can be created.
	SupportsCompute() bool

	// MaxWorkgroupSize returns the per-dimension workgroup size limit.
	MaxWorkgroupSize() [3]uint32

	// CreateShaderModule compiles SPIR-V into a shader module.
	CreateShaderModule(spirv []uint32, label string) (ShaderModuleID, error)
	DestroyShaderModule(id ShaderModuleID)

	CreateBuffer(size int, usage BufferUsage) (BufferID, error)
	DestroyBuffer(id BufferID)
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)
	DestroyBindGroupLayout(id BindGroupLayoutID)

	CreatePipelineLayout(layouts []BindGroupLayoutID) (PipelineLayoutID, error)
	DestroyPipelineLayout(id PipelineLayoutID)

	CreateComputePipeline(desc *ComputePipelineDesc) (ComputePipelineID, error)
	DestroyComputePipeline(id ComputePipelineID)

	CreateBindGroup(layout BindGroupLayoutID, entries []BindGroupEntry) (BindGroupID, error)
	DestroyBindGroup(id BindGroupID)

	// BeginComputePass starts recording a compute pass.
	BeginComputePass() ComputePassEncoder

	// Submit queues every ended pass since the last Submit for execution.
	Submit() SubmissionIndex

	// Poll reports whether the given submission has completed.
	Poll(idx SubmissionIndex) bool

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle()
}

// ComputePassEncoder records compute commands.
type ComputePassEncoder interface {
	SetPipeline(pipeline ComputePipelineID)
	SetBindGroup(index uint32, group BindGroupID)
	Dispatch(x, y, z uint32)
	End()
}
