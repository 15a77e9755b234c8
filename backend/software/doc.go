// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package software provides an in-memory GPU adapter.
//
// The adapter implements gpucore.GPUAdapter without a GPU: textures live in
// Go memory and compute pipelines run CPU kernels registered per entry
// point. It backs pixel buffers in headless hosts (terminal, tests) and
// serves as the CPU fallback of WGSL kernels that ship a Go twin.
//
//	a := software.New(software.WithLatency(1))
//	a.RegisterKernel("main", func(inv *software.Invocation) error { ... })
//
// Importing the package registers the adapter with the backend registry
// under the name "software".
package software
