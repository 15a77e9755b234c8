// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pixbuf/gpucore"
)

// pass is a compute pass recorded in Go until Submit replays it.
type pass struct {
	a        *Adapter
	pipeline gpucore.ComputePipelineID
	groups   map[uint32]gpucore.BindGroupID
	cmds     []dispatchCmd
	ended    bool
}

type dispatchCmd struct {
	pipeline gpucore.ComputePipelineID
	groups   map[uint32]gpucore.BindGroupID
	x, y, z  uint32
}

// BeginComputePass starts recording a compute pass.
func (a *Adapter) BeginComputePass() gpucore.ComputePassEncoder {
	return &pass{a: a, groups: make(map[uint32]gpucore.BindGroupID)}
}

func (p *pass) SetPipeline(pipeline gpucore.ComputePipelineID) { p.pipeline = pipeline }

func (p *pass) SetBindGroup(index uint32, group gpucore.BindGroupID) { p.groups[index] = group }

func (p *pass) Dispatch(x, y, z uint32) {
	groups := make(map[uint32]gpucore.BindGroupID, len(p.groups))
	for k, v := range p.groups {
		groups[k] = v
	}
	p.cmds = append(p.cmds, dispatchCmd{pipeline: p.pipeline, groups: groups, x: x, y: y, z: z})
}

func (p *pass) End() {
	if p.ended {
		return
	}
	p.ended = true
	p.a.mu.Lock()
	defer p.a.mu.Unlock()
	p.a.recorded = append(p.a.recorded, p)
}

// Submit replays every ended pass into one command buffer and submits it
// with its own fence. A submission with no work, or one that fails to
// encode, completes as soon as earlier submissions have. Encoding errors
// are logged.
func (a *Adapter) Submit() gpucore.SubmissionIndex {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitted++
	idx := a.submitted
	passes := a.recorded
	a.recorded = nil

	defer a.refresh()
	if len(passes) == 0 {
		return idx
	}
	sub, err := a.encode(idx, passes)
	if err != nil {
		slogger().Warn("wgpu: submit failed", "index", idx, "error", err)
		return idx
	}
	a.inflight = append(a.inflight, sub)
	slogger().Debug("wgpu: submitted", "index", idx, "passes", len(passes))
	return idx
}

// encode must be called with a.mu held.
func (a *Adapter) encode(idx gpucore.SubmissionIndex, passes []*pass) (*submission, error) {
	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "pixbuf_compute"})
	if err != nil {
		return nil, err
	}
	if err := encoder.BeginEncoding("pixbuf_compute"); err != nil {
		return nil, err
	}

	for _, p := range passes {
		for _, c := range p.cmds {
			pipeline, ok := a.computePipelines[c.pipeline]
			if !ok {
				encoder.DiscardEncoding()
				return nil, errUnknown("compute pipeline", uint64(c.pipeline))
			}
			for _, gid := range c.groups {
				g, ok := a.bindGroups[gid]
				if !ok {
					encoder.DiscardEncoding()
					return nil, errUnknown("bind group", uint64(gid))
				}
				for _, tid := range g.textures {
					if t, ok := a.textures[tid]; ok {
						a.transition(encoder, t, gputypes.TextureUsageStorageBinding)
					}
				}
			}
			cp := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "pixbuf_pass"})
			cp.SetPipeline(pipeline)
			for index, gid := range c.groups {
				cp.SetBindGroup(index, a.bindGroups[gid].group, nil)
			}
			cp.Dispatch(c.x, c.y, c.z)
			cp.End()
		}
	}

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return nil, err
	}
	fence, err := a.device.CreateFence()
	if err != nil {
		a.device.FreeCommandBuffer(cmd)
		return nil, err
	}
	if err := a.queue.Submit([]hal.CommandBuffer{cmd}, fence, 1); err != nil {
		a.device.DestroyFence(fence)
		a.device.FreeCommandBuffer(cmd)
		return nil, err
	}
	return &submission{index: idx, fence: fence, cmd: cmd}, nil
}

// Poll reports whether submission idx has completed, checking fences
// without blocking. Submissions complete in order.
func (a *Adapter) Poll(idx gpucore.SubmissionIndex) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.inflight) > 0 && a.completed < idx {
		sub := a.inflight[0]
		done, err := a.device.Wait(sub.fence, 1, 0)
		if err != nil {
			slogger().Warn("wgpu: fence wait failed", "index", sub.index, "error", err)
			done = true
		}
		if !done {
			break
		}
		a.retire(sub)
	}
	return a.completed >= idx
}

// WaitIdle blocks until every submission has completed.
func (a *Adapter) WaitIdle() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.inflight) > 0 {
		sub := a.inflight[0]
		if ok, err := a.device.Wait(sub.fence, 1, fenceTimeout); err != nil || !ok {
			slogger().Warn("wgpu: wait idle timed out", "index", sub.index, "ok", ok, "error", err)
		}
		a.retire(sub)
	}
}

// retire releases the oldest in-flight submission. a.mu must be held.
func (a *Adapter) retire(sub *submission) {
	a.inflight = a.inflight[1:]
	a.device.DestroyFence(sub.fence)
	a.device.FreeCommandBuffer(sub.cmd)
	a.refresh()
}

// refresh derives the completed index from the in-flight queue: everything
// before the oldest in-flight submission is done. a.mu must be held.
func (a *Adapter) refresh() {
	if len(a.inflight) == 0 {
		a.completed = a.submitted
		return
	}
	a.completed = a.inflight[0].index - 1
}

func errUnknown(kind string, id uint64) error {
	return fmt.Errorf("%w: %s %d", ErrUnknownResource, kind, id)
}
