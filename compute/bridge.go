// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/gpucore"
)

func slogger() *slog.Logger { return pixbuf.Logger() }

// State is the dispatch state of a Bridge.
type State int

const (
	// StateIdle means no dispatch is in flight.
	StateIdle State = iota

	// StateDispatching means a dispatch was submitted and has not
	// completed yet.
	StateDispatching

	// StateReady means the last dispatch completed and its output is being
	// published. A bridge leaves it within the same Tick.
	StateReady
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateDispatching:
		return "Dispatching"
	case StateReady:
		return "Ready"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Bridge dispatches a compute kernel over a pixel buffer once per tick.
//
// A Bridge is NOT safe for concurrent use. Drive it from the same loop as
// the buffer, after the buffer's OnTick.
type Bridge struct {
	adapter gpucore.GPUAdapter
	kernel  Kernel

	module         gpucore.ShaderModuleID
	textureLayout  gpucore.BindGroupLayoutID
	paramsLayout   gpucore.BindGroupLayoutID
	pipelineLayout gpucore.PipelineLayoutID
	pipeline       gpucore.ComputePipelineID
	uniforms       gpucore.BufferID
	uniformSize    int
	paramsGroup    gpucore.BindGroupID

	buf          *pixbuf.PixelBuffer
	cancelResize func()

	// pair holds the textures the bind groups were built for.
	// groups[i] reads pair[i]; in ping-pong mode it writes pair[1-i].
	pair   [2]gpucore.TextureID
	groups [2]gpucore.BindGroupID

	state      State
	submission gpucore.SubmissionIndex
	generation uint64
	unpin      func()

	running    bool
	dispatches uint64
	closed     bool
}

// New compiles k and creates its pipeline on adapter. The bridge starts
// running but does nothing until a buffer is attached.
//
// An adapter without compute support returns ErrIncompatibleBinding.
func New(adapter gpucore.GPUAdapter, k Kernel) (*Bridge, error) {
	if adapter == nil {
		return nil, fmt.Errorf("compute: nil adapter")
	}
	k = k.withDefaults()
	if !adapter.SupportsCompute() {
		return nil, fmt.Errorf("%w: adapter has no compute support", pixbuf.ErrIncompatibleBinding)
	}
	if err := k.validate(adapter.MaxWorkgroupSize()); err != nil {
		return nil, err
	}

	b := &Bridge{adapter: adapter, kernel: k, running: true}
	if err := b.createPipeline(); err != nil {
		b.destroyPipeline()
		return nil, err
	}

	slogger().Debug("compute: pipeline created",
		"kernel", k.Label, "entry", k.EntryPoint, "inPlace", k.InPlace, "workgroup", k.WorkgroupSize)
	return b, nil
}

func (b *Bridge) createPipeline() error {
	k := b.kernel

	spirv := k.SPIRV
	if len(spirv) == 0 {
		var err error
		if spirv, err = CompileWGSL(k.Source); err != nil {
			return err
		}
	}

	var err error
	if b.module, err = b.adapter.CreateShaderModule(spirv, k.Label); err != nil {
		return fmt.Errorf("compute: shader module %q: %w", k.Label, err)
	}

	entries := []gpucore.BindGroupLayoutEntry{{
		Binding: 0,
		Type:    gpucore.BindingTypeStorageTexture,
		Access:  gpucore.StorageAccessReadWrite,
		Format:  k.Format,
	}}
	if !k.InPlace {
		entries = []gpucore.BindGroupLayoutEntry{
			{Binding: 0, Type: gpucore.BindingTypeStorageTexture, Access: gpucore.StorageAccessReadOnly, Format: k.Format},
			{Binding: 1, Type: gpucore.BindingTypeStorageTexture, Access: gpucore.StorageAccessWriteOnly, Format: k.Format},
		}
	}
	b.textureLayout, err = b.adapter.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label:   k.Label + " textures",
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("compute: texture layout %q: %w", k.Label, err)
	}
	layouts := []gpucore.BindGroupLayoutID{b.textureLayout}

	if k.Params != nil {
		// Uniform buffers are sized in 16-byte units.
		b.uniformSize = max(16, (len(k.Params.UniformBytes())+15)&^15)
		b.paramsLayout, err = b.adapter.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
			Label: k.Label + " params",
			Entries: []gpucore.BindGroupLayoutEntry{{
				Binding:        0,
				Type:           gpucore.BindingTypeUniformBuffer,
				MinBindingSize: uint64(b.uniformSize),
			}},
		})
		if err != nil {
			return fmt.Errorf("compute: params layout %q: %w", k.Label, err)
		}
		layouts = append(layouts, b.paramsLayout)

		if b.uniforms, err = b.adapter.CreateBuffer(b.uniformSize, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst); err != nil {
			return fmt.Errorf("compute: params buffer %q: %w", k.Label, err)
		}
		b.paramsGroup, err = b.adapter.CreateBindGroup(b.paramsLayout, []gpucore.BindGroupEntry{{Binding: 0, Buffer: b.uniforms}})
		if err != nil {
			return fmt.Errorf("compute: params bind group %q: %w", k.Label, err)
		}
	}

	if b.pipelineLayout, err = b.adapter.CreatePipelineLayout(layouts); err != nil {
		return fmt.Errorf("compute: pipeline layout %q: %w", k.Label, err)
	}
	b.pipeline, err = b.adapter.CreateComputePipeline(&gpucore.ComputePipelineDesc{
		Label:        k.Label,
		Layout:       b.pipelineLayout,
		ShaderModule: b.module,
		EntryPoint:   k.EntryPoint,
	})
	if err != nil {
		return fmt.Errorf("compute: pipeline %q: %w", k.Label, err)
	}
	return nil
}

func (b *Bridge) destroyPipeline() {
	a := b.adapter
	if b.pipeline != gpucore.InvalidID {
		a.DestroyComputePipeline(b.pipeline)
	}
	if b.pipelineLayout != gpucore.InvalidID {
		a.DestroyPipelineLayout(b.pipelineLayout)
	}
	if b.paramsGroup != gpucore.InvalidID {
		a.DestroyBindGroup(b.paramsGroup)
	}
	if b.uniforms != gpucore.InvalidID {
		a.DestroyBuffer(b.uniforms)
	}
	if b.paramsLayout != gpucore.InvalidID {
		a.DestroyBindGroupLayout(b.paramsLayout)
	}
	if b.textureLayout != gpucore.InvalidID {
		a.DestroyBindGroupLayout(b.textureLayout)
	}
	if b.module != gpucore.InvalidID {
		a.DestroyShaderModule(b.module)
	}
}

// Attach binds the kernel to buf's texture. Any previously attached buffer
// is detached first.
//
// If the texture cannot be bound (different device, format or missing
// storage usage) Attach returns ErrIncompatibleBinding and the bridge stays
// detached: the buffer keeps displaying its texture unmodified until a
// later Attach succeeds.
func (b *Bridge) Attach(buf *pixbuf.PixelBuffer) error {
	if b.closed {
		return fmt.Errorf("compute: bridge %q is closed", b.kernel.Label)
	}
	if buf == nil || buf.Closed() {
		return pixbuf.ErrBufferClosed
	}
	b.Detach()

	if err := b.checkCompatible(buf); err != nil {
		slogger().Warn("compute: incompatible binding, displaying texture unmodified",
			"kernel", b.kernel.Label, "buffer", buf.Label(), "err", err)
		return err
	}

	if !b.kernel.InPlace {
		if err := buf.EnableDoubleBuffer(); err != nil {
			return err
		}
	}

	b.buf = buf
	if err := b.bind(); err != nil {
		b.Detach()
		slogger().Warn("compute: incompatible binding, displaying texture unmodified",
			"kernel", b.kernel.Label, "buffer", buf.Label(), "err", err)
		return err
	}
	b.cancelResize = buf.OnResized(b.onResized)

	slogger().Debug("compute: attached", "kernel", b.kernel.Label, "buffer", buf.Label(),
		"grid", buf.Size().Size, "pingPong", !b.kernel.InPlace)
	return nil
}

func (b *Bridge) checkCompatible(buf *pixbuf.PixelBuffer) error {
	if buf.Storage() != gpucore.TextureStorage(b.adapter) {
		return fmt.Errorf("%w: buffer %q lives on another device", pixbuf.ErrIncompatibleBinding, buf.Label())
	}
	desc := buf.TextureDesc()
	if desc.Format != b.kernel.Format {
		return fmt.Errorf("%w: kernel %q wants %v, buffer %q is %v",
			pixbuf.ErrIncompatibleBinding, b.kernel.Label, b.kernel.Format, buf.Label(), desc.Format)
	}
	if desc.Usage&gputypes.TextureUsageStorageBinding == 0 {
		return fmt.Errorf("%w: buffer %q texture lacks storage binding usage",
			pixbuf.ErrIncompatibleBinding, buf.Label())
	}
	return nil
}

// bind (re)creates the texture bind groups for the buffer's current
// textures.
func (b *Bridge) bind() error {
	b.unbind()

	front, back := b.buf.Front(), b.buf.Back()
	if b.kernel.InPlace {
		g, err := b.adapter.CreateBindGroup(b.textureLayout, []gpucore.BindGroupEntry{{Binding: 0, Texture: front}})
		if err != nil {
			return fmt.Errorf("%w: %w", pixbuf.ErrIncompatibleBinding, err)
		}
		b.pair = [2]gpucore.TextureID{front, gpucore.InvalidID}
		b.groups = [2]gpucore.BindGroupID{g, gpucore.InvalidID}
		return nil
	}

	b.pair = [2]gpucore.TextureID{front, back}
	for i := range 2 {
		g, err := b.adapter.CreateBindGroup(b.textureLayout, []gpucore.BindGroupEntry{
			{Binding: 0, Texture: b.pair[i]},
			{Binding: 1, Texture: b.pair[1-i]},
		})
		if err != nil {
			b.unbind()
			return fmt.Errorf("%w: %w", pixbuf.ErrIncompatibleBinding, err)
		}
		b.groups[i] = g
	}
	return nil
}

func (b *Bridge) unbind() {
	for i, g := range b.groups {
		if g != gpucore.InvalidID {
			b.adapter.DestroyBindGroup(g)
		}
		b.groups[i] = gpucore.InvalidID
	}
	b.pair = [2]gpucore.TextureID{}
}

func (b *Bridge) onResized(ev pixbuf.ResizeEvent) {
	if err := b.bind(); err != nil {
		slogger().Warn("compute: rebind after resize failed, detaching",
			"kernel", b.kernel.Label, "grid", ev.New.Size, "err", err)
		b.Detach()
		return
	}
	slogger().Debug("compute: rebound after resize", "kernel", b.kernel.Label, "grid", ev.New.Size)
}

// Detach unbinds the buffer. An in-flight dispatch is waited for and its
// result published. The buffer keeps its current front texture.
func (b *Bridge) Detach() {
	if b.buf == nil {
		return
	}
	if b.state == StateDispatching {
		b.adapter.WaitIdle()
		b.complete()
	}
	if b.cancelResize != nil {
		b.cancelResize()
		b.cancelResize = nil
	}
	b.unbind()
	if !b.kernel.InPlace {
		b.buf.DisableDoubleBuffer()
	}
	b.buf = nil
}

// Attached reports whether a buffer is bound.
func (b *Bridge) Attached() bool { return b.buf != nil }

// Start resumes dispatching on subsequent ticks.
func (b *Bridge) Start() { b.running = true }

// Pause suppresses new dispatches. A dispatch already in flight still
// completes and is published.
func (b *Bridge) Pause() { b.running = false }

// Running reports whether the bridge dispatches on Tick.
func (b *Bridge) Running() bool { return b.running }

// State returns the dispatch state.
func (b *Bridge) State() State { return b.state }

// Dispatches returns the number of dispatches submitted so far.
func (b *Bridge) Dispatches() uint64 { return b.dispatches }

// Kernel returns the kernel descriptor with defaults applied.
func (b *Bridge) Kernel() Kernel { return b.kernel }

// Label returns the kernel label.
func (b *Bridge) Label() string { return b.kernel.Label }

// OnTick implements pixbuf.Ticker.
func (b *Bridge) OnTick() error { return b.Tick() }

// Tick advances the state machine: a completed dispatch is published
// (Dispatching, Ready, then Idle), and if the bridge is running and idle a
// new dispatch is submitted. Tick never blocks on the GPU.
func (b *Bridge) Tick() error {
	if b.closed || b.buf == nil {
		return nil
	}
	if b.buf.Closed() {
		b.Detach()
		return nil
	}

	if b.state == StateDispatching {
		if !b.adapter.Poll(b.submission) {
			return nil
		}
		b.complete()
	}

	if !b.running {
		return nil
	}
	return b.dispatch()
}

// Wait blocks until the in-flight dispatch, if any, has completed and
// publishes its result.
func (b *Bridge) Wait() error {
	if b.buf == nil {
		return errNoBuffer
	}
	if b.state == StateDispatching {
		b.adapter.WaitIdle()
		b.complete()
	}
	return nil
}

func (b *Bridge) dispatch() error {
	buf := b.buf

	// Host writes must land before the kernel samples the texture.
	if err := buf.Sync(); err != nil {
		return err
	}
	if b.kernel.Params != nil {
		data := b.kernel.Params.UniformBytes()
		if len(data) > b.uniformSize {
			return fmt.Errorf("compute: kernel %q params grew to %d bytes, buffer holds %d",
				b.kernel.Label, len(data), b.uniformSize)
		}
		if err := b.adapter.WriteBuffer(b.uniforms, 0, data); err != nil {
			return fmt.Errorf("compute: upload params %q: %w", b.kernel.Label, err)
		}
	}

	i := 0
	if buf.Front() == b.pair[1] {
		i = 1
	}
	wx, wy := Workgroups(buf.Size().Size, b.kernel.WorkgroupSize)

	pass := b.adapter.BeginComputePass()
	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.groups[i])
	if b.kernel.Params != nil {
		pass.SetBindGroup(1, b.paramsGroup)
	}
	pass.Dispatch(wx, wy, 1)
	pass.End()

	b.unpin = buf.Pin()
	b.submission = b.adapter.Submit()
	b.generation = buf.Generation()
	b.state = StateDispatching
	b.dispatches++

	slogger().Debug("compute: dispatched", "kernel", b.kernel.Label,
		"workgroups", [2]uint32{wx, wy}, "submission", b.submission)

	if b.adapter.Poll(b.submission) {
		b.complete()
	}
	return nil
}

// complete publishes a finished dispatch. Output written for a texture
// generation that has since been reallocated is dropped.
func (b *Bridge) complete() {
	b.state = StateReady
	if b.buf.Generation() == b.generation {
		if !b.kernel.InPlace {
			b.buf.Swap()
		}
		b.buf.MarkGPUWritten()
	}
	if b.unpin != nil {
		b.unpin()
		b.unpin = nil
	}
	b.state = StateIdle
}

// Close detaches the buffer and releases the pipeline. Close is idempotent.
func (b *Bridge) Close() error {
	if b.closed {
		return nil
	}
	b.Detach()
	b.destroyPipeline()
	b.closed = true
	return nil
}

// Compile-time check.
var _ pixbuf.Ticker = (*Bridge)(nil)
