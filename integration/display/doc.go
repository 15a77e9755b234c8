// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package display puts pixel buffers on screen in gogpu windows and UI
// overlays.
//
// The data flow is:
//
//	Frame edits / compute kernel -> buffer texture -> host texture -> window
//
// # Architecture
//
//   - Sprite is the pixbuf.Geometry of a buffer: it receives every new
//     placement from the sizing policy.
//   - Presenter uploads the buffer's displayed pixels to a texture owned by
//     the host renderer and draws it at the buffer's placement.
//   - ShowIn hands the buffer's front texture to an immediate-mode Overlay.
//
// # Usage
//
//	sprite := &display.Sprite{}
//	buf, _ := pixbuf.Setup(adapter, size, pixbuf.FillWindow(pixbuf.AspectKeep),
//	    pixbuf.WithGeometry(sprite))
//	p := display.NewPresenter(buf)
//	defer p.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    p.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Integration Without Circular Imports
//
// The package depends on gpucontext interfaces only. Presenter talks to a
// Surface; FromDrawer adapts a gpucontext.TextureDrawer into one.
//
// Presenter is NOT safe for concurrent use. Call it from the render loop
// that drives the buffer.
package display
