// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend is the registry of GPU adapters available to pixbuf
// hosts.
//
// Backends register a factory from an init function and are opened by
// name. The in-memory adapter registers itself on import:
//
//	import _ "github.com/gogpu/pixbuf/backend/software"
//
//	name, adapter, err := backend.OpenDefault()
//
// Hosts with a real device (for example a gogpu/wgpu application) register
// their own gpucore.GPUAdapter under another name; OpenDefault prefers any
// such backend over "software".
package backend
