// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/pixbuf/gpucore"
)

// passEncoder records dispatches until End hands them to the adapter.
type passEncoder struct {
	a        *Adapter
	pipeline gpucore.ComputePipelineID
	groups   map[uint32]gpucore.BindGroupID
	work     []dispatch
	ended    bool
}

// BeginComputePass starts recording a compute pass.
func (a *Adapter) BeginComputePass() gpucore.ComputePassEncoder {
	return &passEncoder{a: a, groups: make(map[uint32]gpucore.BindGroupID)}
}

func (p *passEncoder) SetPipeline(id gpucore.ComputePipelineID) { p.pipeline = id }

func (p *passEncoder) SetBindGroup(index uint32, group gpucore.BindGroupID) {
	p.groups[index] = group
}

// Dispatch records a dispatch. Bind group contents are captured now, so
// destroying a group after recording does not affect the dispatch.
func (p *passEncoder) Dispatch(x, y, z uint32) {
	if x == 0 || y == 0 || z == 0 {
		return
	}
	d := dispatch{pipeline: p.pipeline, groups: make(map[uint32][]gpucore.BindGroupEntry, len(p.groups)), x: x, y: y, z: z}
	p.a.mu.Lock()
	for index, id := range p.groups {
		if g, ok := p.a.groups[id]; ok {
			d.groups[index] = g.entries
		}
	}
	p.a.mu.Unlock()
	p.work = append(p.work, d)
}

func (p *passEncoder) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.a.mu.Lock()
	p.a.recorded = append(p.a.recorded, p.work...)
	p.a.mu.Unlock()
}

// Submit queues every ended pass for execution. With zero latency the work
// runs before Submit returns.
func (a *Adapter) Submit() gpucore.SubmissionIndex {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.submitted++
	a.pending = append(a.pending, &submission{index: a.submitted, work: a.recorded, remaining: a.latency})
	a.recorded = nil
	a.advance(false)
	return a.submitted
}

// Poll reports whether submission idx has completed. Each call counts as
// one unit of device progress toward the configured latency.
func (a *Adapter) Poll(idx gpucore.SubmissionIndex) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if idx > a.completed && len(a.pending) > 0 {
		a.pending[0].remaining--
		a.advance(false)
	}
	return idx <= a.completed
}

// WaitIdle runs all pending submissions.
func (a *Adapter) WaitIdle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.advance(true)
}

// Err returns the first error a kernel reported, if any.
func (a *Adapter) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kernelErr
}

// advance completes submissions in order while their latency has elapsed.
// Called with a.mu held.
func (a *Adapter) advance(all bool) {
	for len(a.pending) > 0 {
		s := a.pending[0]
		if !all && s.remaining > 0 {
			return
		}
		for _, d := range s.work {
			if err := a.run(d); err != nil && a.kernelErr == nil {
				a.kernelErr = err
			}
		}
		a.completed = s.index
		a.pending = a.pending[1:]
	}
}

// run executes one dispatch. Called with a.mu held.
func (a *Adapter) run(d dispatch) error {
	p, ok := a.pipelines[d.pipeline]
	if !ok {
		return fmt.Errorf("%w: compute pipeline %d", ErrUnknownResource, d.pipeline)
	}

	inv := &Invocation{
		Workgroups: [3]uint32{d.x, d.y, d.z},
		textures:   make(map[bindingKey]*Texture),
		uniforms:   make(map[bindingKey][]byte),
	}
	for index := range p.layout {
		entries, ok := d.groups[uint32(index)]
		if !ok {
			return fmt.Errorf("software: pipeline %q dispatched without bind group %d", p.label, index)
		}
		for _, e := range entries {
			key := bindingKey{group: uint32(index), binding: e.Binding}
			if t, ok := a.textures[e.Texture]; ok {
				inv.textures[key] = t
			}
			if b, ok := a.buffers[e.Buffer]; ok {
				inv.uniforms[key] = b
			}
		}
	}
	if err := p.kernel(inv); err != nil {
		return fmt.Errorf("software: kernel %q: %w", p.label, err)
	}
	return nil
}
