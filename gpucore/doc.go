// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpucore defines the GPU boundary of pixbuf.
//
// pixbuf never opens a GPU device itself. The host supplies an
// implementation of [TextureStorage] (enough for plain pixel buffers) or of
// [GPUAdapter] (needed to run compute kernels). Resources are referred to by
// opaque uint64 IDs so that adapters can map them onto any backend handle
// type: gogpu/wgpu HAL objects, a gogpu application's device, or the
// in-memory backend in backend/software.
//
//	+--------------+      +-------------+
//	|  PixelBuffer |----->|             |
//	+--------------+      |  GPUAdapter |----> host device
//	|compute.Bridge|----->|             |
//	+--------------+      +-------------+
//
// Texture formats and usages are expressed with github.com/gogpu/gputypes,
// the same vocabulary the rest of the gogpu ecosystem uses.
package gpucore
