// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixbuf/gpucore"
)

// fenceTimeout bounds blocking waits in ReadTexture and WaitIdle.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the BytesPerRow alignment of texture to buffer copies.
const copyPitchAlignment = 256

// ErrUnknownResource is returned for IDs the adapter did not create or has
// already destroyed.
var ErrUnknownResource = errors.New("wgpu: unknown resource id")

// Adapter implements gpucore.GPUAdapter over a hal device and queue.
//
// Resources are addressed by gpucore IDs that map onto hal objects. Compute
// passes are recorded in Go and replayed into one hal command buffer per
// Submit. Adapter is safe for concurrent use.
type Adapter struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue
	owner  *device // nil when the device is borrowed
	limits gputypes.Limits
	nextID uint64

	textures         map[gpucore.TextureID]*texture
	buffers          map[gpucore.BufferID]*buffer
	shaderModules    map[gpucore.ShaderModuleID]hal.ShaderModule
	bindGroupLayouts map[gpucore.BindGroupLayoutID]hal.BindGroupLayout
	pipelineLayouts  map[gpucore.PipelineLayoutID]hal.PipelineLayout
	computePipelines map[gpucore.ComputePipelineID]hal.ComputePipeline
	bindGroups       map[gpucore.BindGroupID]*bindGroup

	recorded  []*pass
	inflight  []*submission
	submitted gpucore.SubmissionIndex
	completed gpucore.SubmissionIndex
}

type texture struct {
	desc gpucore.TextureDesc
	tex  hal.Texture
	view hal.TextureView
	// state is the usage the texture was last transitioned to.
	state gputypes.TextureUsage
}

type buffer struct {
	buf  hal.Buffer
	size uint64
}

type bindGroup struct {
	group    hal.BindGroup
	textures []gpucore.TextureID
}

type submission struct {
	index gpucore.SubmissionIndex
	fence hal.Fence
	cmd   hal.CommandBuffer
}

var _ gpucore.GPUAdapter = (*Adapter)(nil)

// New wraps an open hal device and queue. The caller keeps ownership of
// both; Close releases only the resources created through the adapter.
func New(dev hal.Device, queue hal.Queue, limits gputypes.Limits) *Adapter {
	return &Adapter{
		device:           dev,
		queue:            queue,
		limits:           limits,
		textures:         make(map[gpucore.TextureID]*texture),
		buffers:          make(map[gpucore.BufferID]*buffer),
		shaderModules:    make(map[gpucore.ShaderModuleID]hal.ShaderModule),
		bindGroupLayouts: make(map[gpucore.BindGroupLayoutID]hal.BindGroupLayout),
		pipelineLayouts:  make(map[gpucore.PipelineLayoutID]hal.PipelineLayout),
		computePipelines: make(map[gpucore.ComputePipelineID]hal.ComputePipeline),
		bindGroups:       make(map[gpucore.BindGroupID]*bindGroup),
	}
}

// Open opens a device on the best hardware adapter and wraps it. The
// returned adapter owns the device; Close destroys it.
func Open() (*Adapter, error) {
	d, err := openDevice()
	if err != nil {
		return nil, err
	}
	a := New(d.device, d.queue, d.limits)
	a.owner = d
	return a, nil
}

// Info describes the GPU of an adapter created by Open. It is the zero
// value for adapters wrapping a borrowed device.
func (a *Adapter) Info() GPUInfo {
	if a.owner == nil {
		return GPUInfo{}
	}
	return a.owner.info
}

func (a *Adapter) newID() uint64 {
	a.nextID++
	return a.nextID
}

// Close waits for submitted work, destroys every live resource and, when
// the adapter opened the device itself, the device.
func (a *Adapter) Close() {
	a.WaitIdle()

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, g := range a.bindGroups {
		a.device.DestroyBindGroup(g.group)
		delete(a.bindGroups, id)
	}
	for id, p := range a.computePipelines {
		a.device.DestroyComputePipeline(p)
		delete(a.computePipelines, id)
	}
	for id, l := range a.pipelineLayouts {
		a.device.DestroyPipelineLayout(l)
		delete(a.pipelineLayouts, id)
	}
	for id, l := range a.bindGroupLayouts {
		a.device.DestroyBindGroupLayout(l)
		delete(a.bindGroupLayouts, id)
	}
	for id, m := range a.shaderModules {
		a.device.DestroyShaderModule(m)
		delete(a.shaderModules, id)
	}
	for id, b := range a.buffers {
		a.device.DestroyBuffer(b.buf)
		delete(a.buffers, id)
	}
	for id, t := range a.textures {
		a.destroyTexture(t)
		delete(a.textures, id)
	}
	a.recorded = nil
	if a.owner != nil {
		a.owner.close()
		a.owner = nil
	}
}

// === Capabilities ===

// SupportsCompute reports true: every hal device runs compute pipelines.
func (a *Adapter) SupportsCompute() bool { return true }

// MaxWorkgroupSize returns the device's compute workgroup limits.
func (a *Adapter) MaxWorkgroupSize() [3]uint32 {
	return [3]uint32{
		a.limits.MaxComputeWorkgroupSizeX,
		a.limits.MaxComputeWorkgroupSizeY,
		a.limits.MaxComputeWorkgroupSizeZ,
	}
}

// === Textures ===

// CreateTexture creates a 2D texture and a view used for bindings.
// Copy usages are always added so the texture can be uploaded and read back.
func (a *Adapter) CreateTexture(desc *gpucore.TextureDesc) (gpucore.TextureID, error) {
	if desc == nil {
		return gpucore.InvalidID, errors.New("wgpu: nil texture descriptor")
	}
	if err := desc.Validate(); err != nil {
		return gpucore.InvalidID, err
	}
	if limit := int(a.limits.MaxTextureDimension2D); limit > 0 && (desc.Width > limit || desc.Height > limit) {
		return gpucore.InvalidID, fmt.Errorf("wgpu: texture %dx%d exceeds max dimension %d",
			desc.Width, desc.Height, limit)
	}

	usage := desc.Usage | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc
	tex, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              uint32(desc.Width),  //nolint:gosec // validated positive
			Height:             uint32(desc.Height), //nolint:gosec // validated positive
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         usage,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture: %w", err)
	}
	view, err := a.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label,
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		a.device.DestroyTexture(tex)
		return gpucore.InvalidID, fmt.Errorf("wgpu: create texture view: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.TextureID(a.newID())
	a.textures[id] = &texture{desc: *desc, tex: tex, view: view}
	slogger().Debug("wgpu: texture created", "id", id, "w", desc.Width, "h", desc.Height)
	return id, nil
}

// DestroyTexture destroys a texture and its view.
func (a *Adapter) DestroyTexture(id gpucore.TextureID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if t, ok := a.textures[id]; ok {
		a.destroyTexture(t)
		delete(a.textures, id)
	}
}

func (a *Adapter) destroyTexture(t *texture) {
	a.device.DestroyTextureView(t.view)
	a.device.DestroyTexture(t.tex)
}

// WriteTexture uploads tightly packed texels through the queue.
func (a *Adapter) WriteTexture(id gpucore.TextureID, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	if want := t.desc.ByteSize(); len(data) != want {
		return fmt.Errorf("wgpu: texture %d holds %d bytes, got %d", id, want, len(data))
	}

	w, h := uint32(t.desc.Width), uint32(t.desc.Height) //nolint:gosec // validated positive
	a.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(gpucore.BytesPerTexel(t.desc.Format)), //nolint:gosec // 1 or 4
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	t.state = gputypes.TextureUsageCopyDst
	return nil
}

// ReadTexture copies a texture into a staging buffer, waits for the copy
// and strips the row padding the copy requires.
func (a *Adapter) ReadTexture(id gpucore.TextureID) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}

	w, h := uint32(t.desc.Width), uint32(t.desc.Height) //nolint:gosec // validated positive
	bytesPerRow := w * uint32(gpucore.BytesPerTexel(t.desc.Format))     //nolint:gosec // 1 or 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "pixbuf_readback",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create staging buffer: %w", err)
	}
	defer a.device.DestroyBuffer(staging)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pixbuf_readback"})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("pixbuf_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: begin encoding: %w", err)
	}
	a.transition(encoder, t, gputypes.TextureUsageCopySrc)
	encoder.CopyTextureToBuffer(t.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	cmd, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmd)

	fence, err := a.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("wgpu: create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmd}, fence, 1); err != nil {
		return nil, fmt.Errorf("wgpu: submit readback: %w", err)
	}
	ok, err = a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return nil, fmt.Errorf("wgpu: wait for readback: ok=%v err=%w", ok, err)
	}

	readback := make([]byte, stagingSize)
	if err := a.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("wgpu: readback: %w", err)
	}
	if alignedBytesPerRow == bytesPerRow {
		return readback, nil
	}
	tight := make([]byte, int(bytesPerRow)*int(h))
	for row := 0; row < int(h); row++ {
		src := row * int(alignedBytesPerRow)
		copy(tight[row*int(bytesPerRow):(row+1)*int(bytesPerRow)], readback[src:src+int(bytesPerRow)])
	}
	return tight, nil
}

// TextureDesc returns the descriptor a texture was created with.
func (a *Adapter) TextureDesc(id gpucore.TextureID) (gpucore.TextureDesc, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.textures[id]
	if !ok {
		return gpucore.TextureDesc{}, false
	}
	return t.desc, true
}

// LiveTextures returns the number of textures not yet destroyed.
func (a *Adapter) LiveTextures() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.textures)
}

// transition records a barrier moving t to usage unless it is already there.
func (a *Adapter) transition(encoder hal.CommandEncoder, t *texture, usage gputypes.TextureUsage) {
	if t.state == usage {
		return
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: t.tex,
		Usage:   hal.TextureUsageTransition{OldUsage: t.state, NewUsage: usage},
	}})
	t.state = usage
}

// === Shaders and buffers ===

// CreateShaderModule creates a shader module from SPIR-V words.
func (a *Adapter) CreateShaderModule(spirv []uint32, label string) (gpucore.ShaderModuleID, error) {
	if len(spirv) == 0 {
		return gpucore.InvalidID, fmt.Errorf("wgpu: shader %q has no code", label)
	}
	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create shader module %q: %w", label, err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.ShaderModuleID(a.newID())
	a.shaderModules[id] = module
	return id, nil
}

// DestroyShaderModule destroys a shader module.
func (a *Adapter) DestroyShaderModule(id gpucore.ShaderModuleID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m, ok := a.shaderModules[id]; ok {
		a.device.DestroyShaderModule(m)
		delete(a.shaderModules, id)
	}
}

// CreateBuffer creates a GPU buffer.
func (a *Adapter) CreateBuffer(size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("wgpu: buffer size must be positive, got %d", size)
	}
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Size:  uint64(size),
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create buffer: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.BufferID(a.newID())
	a.buffers[id] = &buffer{buf: buf, size: uint64(size)}
	return id, nil
}

// DestroyBuffer destroys a buffer.
func (a *Adapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if b, ok := a.buffers[id]; ok {
		a.device.DestroyBuffer(b.buf)
		delete(a.buffers, id)
	}
}

// WriteBuffer writes data into a buffer at offset through the queue.
func (a *Adapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.buffers[id]
	if !ok {
		return fmt.Errorf("%w: buffer %d", ErrUnknownResource, id)
	}
	if offset+uint64(len(data)) > b.size {
		return fmt.Errorf("wgpu: write of %d bytes at %d overflows buffer %d of %d bytes",
			len(data), offset, id, b.size)
	}
	a.queue.WriteBuffer(b.buf, offset, data)
	return nil
}

// === Layouts and pipelines ===

// CreateBindGroupLayout creates a bind group layout.
func (a *Adapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	if desc == nil {
		return gpucore.InvalidID, errors.New("wgpu: nil bind group layout descriptor")
	}
	entries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		entry, err := convertLayoutEntry(e)
		if err != nil {
			return gpucore.InvalidID, err
		}
		entries[i] = entry
	}
	layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create bind group layout: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.BindGroupLayoutID(a.newID())
	a.bindGroupLayouts[id] = layout
	return id, nil
}

// DestroyBindGroupLayout destroys a bind group layout.
func (a *Adapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.bindGroupLayouts[id]; ok {
		a.device.DestroyBindGroupLayout(l)
		delete(a.bindGroupLayouts, id)
	}
}

// CreatePipelineLayout creates a pipeline layout from bind group layouts.
func (a *Adapter) CreatePipelineLayout(layouts []gpucore.BindGroupLayoutID) (gpucore.PipelineLayoutID, error) {
	a.mu.Lock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		l, ok := a.bindGroupLayouts[id]
		if !ok {
			a.mu.Unlock()
			return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, id)
		}
		halLayouts[i] = l
	}
	a.mu.Unlock()

	layout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create pipeline layout: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.PipelineLayoutID(a.newID())
	a.pipelineLayouts[id] = layout
	return id, nil
}

// DestroyPipelineLayout destroys a pipeline layout.
func (a *Adapter) DestroyPipelineLayout(id gpucore.PipelineLayoutID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if l, ok := a.pipelineLayouts[id]; ok {
		a.device.DestroyPipelineLayout(l)
		delete(a.pipelineLayouts, id)
	}
}

// CreateComputePipeline creates a compute pipeline.
func (a *Adapter) CreateComputePipeline(desc *gpucore.ComputePipelineDesc) (gpucore.ComputePipelineID, error) {
	if desc == nil {
		return gpucore.InvalidID, errors.New("wgpu: nil compute pipeline descriptor")
	}
	a.mu.Lock()
	layout, okLayout := a.pipelineLayouts[desc.Layout]
	module, okModule := a.shaderModules[desc.ShaderModule]
	a.mu.Unlock()
	if !okLayout {
		return gpucore.InvalidID, fmt.Errorf("%w: pipeline layout %d", ErrUnknownResource, desc.Layout)
	}
	if !okModule {
		return gpucore.InvalidID, fmt.Errorf("%w: shader module %d", ErrUnknownResource, desc.ShaderModule)
	}

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Compute: hal.ComputeState{Module: module, EntryPoint: desc.EntryPoint},
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create compute pipeline %q: %w", desc.Label, err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.ComputePipelineID(a.newID())
	a.computePipelines[id] = pipeline
	return id, nil
}

// DestroyComputePipeline destroys a compute pipeline.
func (a *Adapter) DestroyComputePipeline(id gpucore.ComputePipelineID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.computePipelines[id]; ok {
		a.device.DestroyComputePipeline(p)
		delete(a.computePipelines, id)
	}
}

// CreateBindGroup binds buffers and storage textures to a layout.
func (a *Adapter) CreateBindGroup(layout gpucore.BindGroupLayoutID, entries []gpucore.BindGroupEntry) (gpucore.BindGroupID, error) {
	a.mu.Lock()
	l, ok := a.bindGroupLayouts[layout]
	if !ok {
		a.mu.Unlock()
		return gpucore.InvalidID, fmt.Errorf("%w: bind group layout %d", ErrUnknownResource, layout)
	}
	halEntries := make([]gputypes.BindGroupEntry, len(entries))
	var textures []gpucore.TextureID
	for i, e := range entries {
		switch {
		case e.Texture != gpucore.InvalidID:
			t, ok := a.textures[e.Texture]
			if !ok {
				a.mu.Unlock()
				return gpucore.InvalidID, fmt.Errorf("%w: texture %d", ErrUnknownResource, e.Texture)
			}
			halEntries[i] = gputypes.BindGroupEntry{
				Binding:  e.Binding,
				Resource: gputypes.TextureViewBinding{TextureView: t.view.NativeHandle()},
			}
			textures = append(textures, e.Texture)
		case e.Buffer != gpucore.InvalidID:
			b, ok := a.buffers[e.Buffer]
			if !ok {
				a.mu.Unlock()
				return gpucore.InvalidID, fmt.Errorf("%w: buffer %d", ErrUnknownResource, e.Buffer)
			}
			halEntries[i] = gputypes.BindGroupEntry{
				Binding:  e.Binding,
				Resource: gputypes.BufferBinding{Buffer: b.buf.NativeHandle(), Offset: 0, Size: b.size},
			}
		default:
			a.mu.Unlock()
			return gpucore.InvalidID, fmt.Errorf("wgpu: binding %d has no resource", e.Binding)
		}
	}
	a.mu.Unlock()

	group, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Layout:  l,
		Entries: halEntries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("wgpu: create bind group: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	id := gpucore.BindGroupID(a.newID())
	a.bindGroups[id] = &bindGroup{group: group, textures: textures}
	return id, nil
}

// DestroyBindGroup destroys a bind group.
func (a *Adapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if g, ok := a.bindGroups[id]; ok {
		a.device.DestroyBindGroup(g.group)
		delete(a.bindGroups, id)
	}
}

// === Conversion ===

func convertBufferUsage(usage gpucore.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage
	if usage&gpucore.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpucore.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpucore.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}
	if usage&gpucore.BufferUsageStorage != 0 {
		result |= gputypes.BufferUsageStorage
	}
	return result
}

func convertStorageAccess(access gpucore.StorageAccess) gputypes.StorageTextureAccess {
	switch access {
	case gpucore.StorageAccessReadOnly:
		return gputypes.StorageTextureAccessReadOnly
	case gpucore.StorageAccessWriteOnly:
		return gputypes.StorageTextureAccessWriteOnly
	case gpucore.StorageAccessReadWrite:
		return gputypes.StorageTextureAccessReadWrite
	default:
		return gputypes.StorageTextureAccessUndefined
	}
}

func convertLayoutEntry(e gpucore.BindGroupLayoutEntry) (gputypes.BindGroupLayoutEntry, error) {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    e.Binding,
		Visibility: gputypes.ShaderStageCompute,
	}
	switch e.Type {
	case gpucore.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: e.MinBindingSize,
		}
	case gpucore.BindingTypeStorageTexture:
		access := convertStorageAccess(e.Access)
		if access == gputypes.StorageTextureAccessUndefined {
			return result, fmt.Errorf("wgpu: binding %d has no storage access", e.Binding)
		}
		result.StorageTexture = &gputypes.StorageTextureBindingLayout{
			Access:        access,
			Format:        e.Format,
			ViewDimension: gputypes.TextureViewDimension2D,
		}
	default:
		return result, fmt.Errorf("wgpu: binding %d has unsupported type %d", e.Binding, e.Type)
	}
	return result, nil
}
