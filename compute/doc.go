// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package compute runs GPU compute kernels over pixel buffers.
//
// A [Bridge] owns the pipeline of one [Kernel] and dispatches it once per
// tick against the texture of an attached pixbuf.PixelBuffer. Kernels that
// cannot read and write the same texture run ping-pong: the buffer becomes
// double-buffered, each dispatch reads the displayed texture and writes the
// other one, and the two swap when the dispatch completes.
//
// Bind group 0 holds the textures. In-place kernels see one read_write
// storage texture at binding 0; ping-pong kernels read binding 0 and write
// binding 1. If the kernel has parameters they are a uniform buffer at
// group 1, binding 0.
//
//	bridge, err := compute.New(adapter, kernels.GameOfLife())
//	if err != nil {
//	    return err
//	}
//	if err := bridge.Attach(buf); err != nil {
//	    // errors.Is(err, pixbuf.ErrIncompatibleBinding): buf keeps
//	    // displaying its texture unmodified.
//	}
//	runner := pixbuf.NewRunner(buf, bridge)
package compute
