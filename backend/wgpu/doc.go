// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu provides a gpucore.GPUAdapter backed by a wgpu HAL device.
//
// Textures, storage bind groups and compute pipelines map one to one onto
// hal resources. Shader modules take the SPIR-V that compute.CompileWGSL
// produces with naga. Submit records every ended pass into a single command
// buffer guarded by its own fence, so Poll can report completion without
// blocking.
//
// Importing the package registers the adapter with the backend registry
// under the name "wgpu". Opening it fails with ErrNoGPU on hosts without a
// usable adapter, which lets backend.OpenDefault fall back to software:
//
//	import _ "github.com/gogpu/pixbuf/backend/wgpu"
//
//	name, adapter, err := backend.OpenDefault()
//
// Build with the nogpu tag to leave the package out entirely.
package wgpu
