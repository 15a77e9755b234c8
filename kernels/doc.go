// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kernels contains ready-made compute kernels for pixel buffers.
//
// Every kernel ships as WGSL for GPU adapters together with a Go twin that
// computes the same result on the software adapter. Install registers the
// twins:
//
//	a := software.New()
//	kernels.Install(a)
//	bridge, err := compute.New(a, kernels.GameOfLife())
package kernels
