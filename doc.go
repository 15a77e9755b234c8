// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pixbuf provides CPU/GPU-shared pixel buffers for Go.
//
// A [PixelBuffer] owns a GPU texture of RGBA8 cells and a CPU shadow of its
// bytes. Host code mutates the shadow through a short-lived [Frame] view,
// and the buffer uploads the changes on the next tick so they are visible
// before the GPU samples the texture. Buffers follow the host viewport
// according to a [Fill] policy, reallocating their texture only when the
// grid dimensions change.
//
// # Quick Start
//
//	storage := software.New()
//	buf, err := pixbuf.Setup(storage, pixbuf.DefaultBufferSize(), pixbuf.FillWindow(pixbuf.AspectKeep))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer buf.Close()
//
//	frame, _ := buf.Frame()
//	frame.PerPixelPar(func(x, y int, _ pixbuf.Pixel) pixbuf.Pixel {
//	    return pixbuf.PixelFromFloat(float32(x)/32, float32(y)/32, 0.5, 1)
//	})
//	buf.OnTick()
//
// # GPU compute
//
// The compute package binds a WGSL kernel to a buffer's texture and
// dispatches it every tick, optionally ping-ponging between two textures.
// See package compute.
//
// # Display
//
// Package integration/display draws buffers through gpucontext, and
// integration/tcellhost renders them into a terminal.
//
// # Logging
//
// pixbuf is silent by default. Call [SetLogger] to enable diagnostics.
package pixbuf
