// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf/gpucore"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// Errors returned by the software adapter.
var (
	ErrUnknownResource = errors.New("software: unknown resource id")
	ErrNoKernel        = errors.New("software: no kernel registered for entry point")
	ErrOutOfMemory     = errors.New("software: texture memory limit exceeded")
	ErrNoCompute       = errors.New("software: compute disabled")
)

// Adapter is an in-memory gpucore.GPUAdapter.
//
// Textures and buffers are Go byte slices. Compute pipelines run the CPU
// Kernel registered for their entry point. Submitted work executes when it
// completes: immediately by default, or after a configurable number of
// Poll calls to model an asynchronous device.
//
// Adapter is safe for concurrent use.
type Adapter struct {
	mu     sync.Mutex
	nextID uint64

	textures        map[gpucore.TextureID]*Texture
	buffers         map[gpucore.BufferID][]byte
	modules         map[gpucore.ShaderModuleID]string
	groupLayouts    map[gpucore.BindGroupLayoutID]*gpucore.BindGroupLayoutDesc
	pipelineLayouts map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID
	pipelines       map[gpucore.ComputePipelineID]*pipeline
	groups          map[gpucore.BindGroupID]*bindGroup
	kernels         map[string]Kernel

	recorded  []dispatch
	pending   []*submission
	submitted gpucore.SubmissionIndex
	completed gpucore.SubmissionIndex

	latency     int
	maxDim      int
	memoryLimit int
	memoryUsed  int
	compute     bool

	allocations int
	kernelErr   error
}

type pipeline struct {
	label  string
	kernel Kernel
	layout []gpucore.BindGroupLayoutID
}

type bindGroup struct {
	layout  *gpucore.BindGroupLayoutDesc
	entries []gpucore.BindGroupEntry
}

type dispatch struct {
	pipeline gpucore.ComputePipelineID
	groups   map[uint32][]gpucore.BindGroupEntry
	x, y, z  uint32
}

type submission struct {
	index     gpucore.SubmissionIndex
	work      []dispatch
	remaining int
}

// New returns an empty adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		textures:        make(map[gpucore.TextureID]*Texture),
		buffers:         make(map[gpucore.BufferID][]byte),
		modules:         make(map[gpucore.ShaderModuleID]string),
		groupLayouts:    make(map[gpucore.BindGroupLayoutID]*gpucore.BindGroupLayoutDesc),
		pipelineLayouts: make(map[gpucore.PipelineLayoutID][]gpucore.BindGroupLayoutID),
		pipelines:       make(map[gpucore.ComputePipelineID]*pipeline),
		groups:          make(map[gpucore.BindGroupID]*bindGroup),
		kernels:         make(map[string]Kernel),
		maxDim:          8192,
		compute:         true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) newID() uint64 {
	a.nextID++
	return a.nextID
}

// RegisterKernel installs the CPU implementation run by pipelines whose
// entry point is entryPoint. Registering again replaces the kernel for
// pipelines created afterwards.
func (a *Adapter) RegisterKernel(entryPoint string, k Kernel) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.kernels[entryPoint] = k
}

// === Capabilities ===

// SupportsCompute reports whether compute pipelines can be created.
func (a *Adapter) SupportsCompute() bool { return a.compute }

// MaxWorkgroupSize returns the WebGPU default limits.
func (a *Adapter) MaxWorkgroupSize() [3]uint32 { return [3]uint32{256, 256, 64} }

// === Textures ===

// CreateTexture allocates a zeroed texture.
func (a *Adapter) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	if desc == nil {
		return gpucore.InvalidID, errors.New("software: nil texture descriptor")
	}
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	if desc.Width > a.maxDim || desc.Height > a.maxDim {
		return gpucore.InvalidID, fmt.Errorf("software: texture %dx%d exceeds max dimension %d",
			desc.Width, desc.Height, a.maxDim)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	size := desc.ByteSize()
	if a.memoryLimit > 0 && a.memoryUsed+size > a.memoryLimit {
		return gpucore.InvalidID, fmt.Errorf("%w: need %d bytes, %d of %d in use",
			ErrOutOfMemory, size, a.memoryUsed, a.memoryLimit)
	}
	a.memoryUsed += size
	a.allocations++

	id := gpucore.TextureID(a.newID())
	a.textures[id] = &Texture{Desc: *desc, Data: make([]byte, size)}
	return id, nil
}

// DestroyTexture releases a texture.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.textures[id]; ok {
		a.memoryUsed -= len(t.Data)
		delete(a.textures, id)
	}
}

// WriteTexture replaces the texture contents.
func (a *Adapter) WriteTexture(id gpucore.TextureID, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	if len(data) != len(t.Data) {
		return fmt.Errorf("software: texture %d holds %d bytes, got %d", id, len(t.Data), len(data))
	}
	copy(t.Data, data)
	return nil
}

// ReadTexture returns a copy of the texture contents.
func (a *Adapter) ReadTexture(id gpucore.TextureID) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	out := make([]byte, len(t.Data))
	copy(out, t.Data)
	return out, nil
}

// TextureDesc returns the descriptor a texture was created with.
func (a *Adapter) TextureDesc(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return t.Desc, true
}

// LiveTextures returns the number of textures not yet destroyed.
func (a *Adapter) LiveTextures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.textures)
}

// Allocations returns the number of textures ever created.
func (a *Adapter) Allocations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocations
}

// === Shaders and buffers ===

// CreateShaderModule accepts any SPIR-V module with a valid header. The
// code itself is never executed; the pipeline's entry point selects the
// registered Kernel.
func (a *Adapter) CreateShaderModule(spirv []uint32, label string) (gpucore.ShaderModuleID, error) {
	if len(spirv) == 0 || spirv[0] != spirvMagic {
		return gpucore.InvalidID, fmt.Errorf("software: shader %q is not SPIR-V", label)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.ShaderModuleID(a.newID())
	a.modules[id] = label
	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *Adapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.modules, id)
}

// CreateBuffer allocates a zeroed buffer.
func (a *Adapter) CreateBuffer(size int, _ gpucore.BufferUsage) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("software: buffer size must be positive, got %d", size)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.BufferID(a.newID())
	a.buffers[id] = make([]byte, size)
	return id, nil
}

// DestroyBuffer releases a buffer.
func (a *Adapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.buffers, id)
}

// WriteBuffer copies data into a buffer at offset.
func (a *Adapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	buf, ok := a.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > uint64(len(buf)) {
		return fmt.Errorf("software: write of %d bytes at %d overflows %d-byte buffer", len(data), offset, len(buf))
	}
	copy(buf[offset:], data)
	return nil
}

// === Layouts, pipelines and bind groups ===

// CreateBindGroupLayout records a bind group layout.
func (a *Adapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if desc == nil {
		return gpucore.InvalidID, errors.New("software: nil bind group layout descriptor")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.BindGroupLayoutID(a.newID())
	d := *desc
	d.Entries = append([]gpucore.BindGroupLayoutEntry(nil), desc.Entries...)
	a.groupLayouts[id] = &d
	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (a *Adapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.groupLayouts, id)
}

// CreatePipelineLayout records the bind group layouts of a pipeline.
func (a *Adapter) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, l := range layouts {
		if _, ok := a.groupLayouts[l]; !ok {
			return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, l)
		}
	}
	id := gpucore.PipelineLayoutID(a.newID())
	a.pipelineLayouts[id] = append([]gpucore.BindGroupLayoutID(nil), layouts...)
	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (a *Adapter) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pipelineLayouts, id)
}

// CreateComputePipeline binds the kernel registered for desc.EntryPoint.
func (a *Adapter) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	if !a.compute {
		return gpucore.InvalidID, ErrNoCompute
	}
	if desc == nil {
		return gpucore.InvalidID, errors.New("software: nil compute pipeline descriptor")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.modules[desc.ShaderModule]; !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", ErrUnknownResource, desc.ShaderModule)
	}
	layout, ok := a.pipelineLayouts[desc.Layout]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", ErrUnknownResource, desc.Layout)
	}
	k, ok := a.kernels[desc.EntryPoint]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: %q", ErrNoKernel, desc.EntryPoint)
	}
	id := gpucore.ComputePipelineID(a.newID())
	a.pipelines[id] = &pipeline{label: desc.Label, kernel: k, layout: layout}
	return id, nil
}

// DestroyComputePipeline releases a compute pipeline.
func (a *Adapter) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.pipelines, id)
}

// CreateBindGroup validates entries against the layout. Storage texture
// bindings must match the layout's format and have the StorageBinding usage.
func (a *Adapter) CreateBindGroup(layout gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	desc, ok := a.groupLayouts[layout]
	if !ok {
		return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, layout)
	}
	if len(entries) != len(desc.Entries) {
		return gpucore.InvalidID, fmt.Errorf("software: bind group has %d entries, layout %q wants %d",
			len(entries), desc.Label, len(desc.Entries))
	}

	for _, le := range desc.Entries {
		e, ok := findEntry(entries, le.Binding)
		if !ok {
			return gpucore.InvalidID, fmt.Errorf("software: binding %d missing", le.Binding)
		}
		switch le.Type {
		case gpucore.BindingTypeStorageTexture:
			t, ok := a.textures[e.Texture]
			if !ok {
				return gpucore.InvalidID, fmt.Errorf("%w: texture %d at binding %d", ErrUnknownResource, e.Texture, le.Binding)
			}
			if t.Desc.Format != le.Format {
				return gpucore.InvalidID, fmt.Errorf("software: binding %d wants format %v, texture has %v",
					le.Binding, le.Format, t.Desc.Format)
			}
			if t.Desc.Usage&gputypes.TextureUsageStorageBinding == 0 {
				return gpucore.InvalidID, fmt.Errorf("software: texture %d lacks storage binding usage", e.Texture)
			}
		case gpucore.BindingTypeUniformBuffer:
			buf, ok := a.buffers[e.Buffer]
			if !ok {
				return gpucore.InvalidID, fmt.Errorf("%w: buffer %d at binding %d", ErrUnknownResource, e.Buffer, le.Binding)
			}
			if uint64(len(buf)) < le.MinBindingSize {
				return gpucore.InvalidID, fmt.Errorf("software: buffer %d smaller than %d bytes", e.Buffer, le.MinBindingSize)
			}
		}
	}

	id := gpucore.BindGroupID(a.newID())
	a.groups[id] = &bindGroup{layout: desc, entries: append([]gpucore.BindGroupEntry(nil), entries...)}
	return id, nil
}

func findEntry(entries []gpucore.BindGroupEntry, binding uint32) (gpucore.BindGroupEntry, bool) {
	for _, e := range entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return gpucore.BindGroupEntry{}, false
}

// DestroyBindGroup releases a bind group.
func (a *Adapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.groups, id)
}

// Compile-time check.
var _ gpucore.GPUAdapter = (*Adapter)(nil)
