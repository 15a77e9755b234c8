// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/gpucore"
)

// Overlay is an immediate-mode UI that can show a texture in its layout,
// such as an image widget.
type Overlay interface {
	ShowTexture(tex gpucore.TextureID, width, height float32)
}

// ShowIn shows buf's displayed texture in o at its natural screen size,
// grid size times pixel size. The overlay only samples the texture; it must
// not keep the id past the current frame, because resizes and compute
// swaps change it.
func ShowIn(o Overlay, buf *pixbuf.PixelBuffer) error {
	if buf.Closed() {
		return pixbuf.ErrBufferClosed
	}
	screen := buf.Size().ScreenSize()
	o.ShowTexture(buf.Front(), float32(screen.Width), float32(screen.Height))
	return nil
}
