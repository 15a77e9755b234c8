// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import "fmt"

// Extent is a width and height. Sizes are signed so that zero and negative
// requests can be rejected instead of wrapping around.
type Extent struct {
	Width, Height int
}

// Ext is shorthand for Extent{w, h}.
func Ext(w, h int) Extent { return Extent{Width: w, Height: h} }

// Empty reports whether either dimension is zero or negative.
func (e Extent) Empty() bool { return e.Width <= 0 || e.Height <= 0 }

// Mul multiplies e component-wise by o.
func (e Extent) Mul(o Extent) Extent {
	return Extent{Width: e.Width * o.Width, Height: e.Height * o.Height}
}

func (e Extent) String() string { return fmt.Sprintf("%dx%d", e.Width, e.Height) }

// BufferSize describes a pixel buffer's grid and how many screen pixels
// each cell covers.
type BufferSize struct {
	// Size is the grid size in cells. It is also the texture size.
	Size Extent

	// PixelSize is the number of screen pixels per cell on each axis.
	PixelSize Extent
}

// DefaultBufferSize returns a 32x32 grid of 1x1 pixels.
func DefaultBufferSize() BufferSize {
	return BufferSize{Size: Ext(32, 32), PixelSize: Ext(1, 1)}
}

// NewBufferSize returns a validated BufferSize.
func NewBufferSize(size, pixelSize Extent) (BufferSize, error) {
	s := BufferSize{Size: size, PixelSize: pixelSize}
	if err := s.Validate(); err != nil {
		return BufferSize{}, err
	}
	return s, nil
}

// Validate returns ErrInvalidSize unless every dimension is at least 1.
func (s BufferSize) Validate() error {
	if s.Size.Empty() {
		return fmt.Errorf("%w: grid %v", ErrInvalidSize, s.Size)
	}
	if s.PixelSize.Empty() {
		return fmt.Errorf("%w: pixel size %v", ErrInvalidSize, s.PixelSize)
	}
	return nil
}

// ScreenSize returns the natural on-screen size, Size*PixelSize.
func (s BufferSize) ScreenSize() Extent {
	return s.Size.Mul(s.PixelSize)
}

// ByteLen returns the byte length of the grid's RGBA8 data.
func (s BufferSize) ByteLen() int {
	return s.Size.Width * s.Size.Height * BytesPerPixel
}
