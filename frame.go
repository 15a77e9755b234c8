// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"fmt"
	"image"
	"iter"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/gogpu/pixbuf/internal/parallel"
)

// Frame is a mutable view over the RGBA8 bytes of a pixel grid.
//
// A Frame does not own its memory. Frames returned by [PixelBuffer.Frame]
// stay valid until the buffer's next OnTick; after that every method
// returns [ErrFrameExpired]. Frames built with [NewFrame] never expire.
//
// Frame is not safe for concurrent use, except through PerPixelPar.
type Frame struct {
	width, height int
	pix           []byte

	owner *PixelBuffer
	epoch uint64
	pool  *parallel.WorkerPool
}

// NewFrame wraps pix as a width x height frame.
// It returns ErrInvalidSize for non-positive dimensions and ErrSizeMismatch
// when len(pix) is not exactly 4*width*height.
func NewFrame(pix []byte, width, height int) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame %dx%d", ErrInvalidSize, width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSizeMismatch, len(pix), want)
	}
	return &Frame{width: width, height: height, pix: pix}, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Size returns the frame dimensions.
func (f *Frame) Size() Extent { return Extent{Width: f.width, Height: f.height} }

func (f *Frame) check() error {
	if f.owner != nil && f.owner.epoch != f.epoch {
		return ErrFrameExpired
	}
	return nil
}

func (f *Frame) offset(x, y int) (int, error) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0, &BoundsError{Point: image.Pt(x, y), Width: f.width, Height: f.height}
	}
	return (y*f.width + x) * BytesPerPixel, nil
}

// Get returns the pixel at (x, y).
func (f *Frame) Get(x, y int) (Pixel, error) {
	if err := f.check(); err != nil {
		return Pixel{}, err
	}
	i, err := f.offset(x, y)
	if err != nil {
		return Pixel{}, err
	}
	return Pixel{f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3]}, nil
}

// Set writes the pixel at (x, y).
func (f *Frame) Set(x, y int, p Pixel) error {
	if err := f.check(); err != nil {
		return err
	}
	i, err := f.offset(x, y)
	if err != nil {
		return err
	}
	f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3] = p.R, p.G, p.B, p.A
	return nil
}

// PerPixel replaces every pixel with f(x, y, current), visiting rows top to
// bottom and each row left to right.
func (f *Frame) PerPixel(fn func(x, y int, p Pixel) Pixel) error {
	if err := f.check(); err != nil {
		return err
	}
	f.mapRows(0, f.height, fn)
	return nil
}

// PerPixelPar is PerPixel with rows split into bands that run concurrently.
// It returns after every band has finished.
//
// fn is called concurrently and must not read or write other pixels of the
// frame. For such fn the result is byte-identical to PerPixel.
func (f *Frame) PerPixelPar(fn func(x, y int, p Pixel) Pixel) error {
	if err := f.check(); err != nil {
		return err
	}
	pool := f.pool
	if pool == nil {
		pool = parallel.Default()
	}
	pool.ForEachBand(f.height, func(y0, y1 int) {
		f.mapRows(y0, y1, fn)
	})
	return nil
}

func (f *Frame) mapRows(y0, y1 int, fn func(x, y int, p Pixel) Pixel) {
	i := y0 * f.width * BytesPerPixel
	for y := y0; y < y1; y++ {
		for x := range f.width {
			px := fn(x, y, Pixel{f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3]})
			f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3] = px.R, px.G, px.B, px.A
			i += BytesPerPixel
		}
	}
}

// All iterates over every pixel in row-major order.
// Iteration stops early if the frame has expired.
func (f *Frame) All() iter.Seq2[image.Point, Pixel] {
	return func(yield func(image.Point, Pixel) bool) {
		if f.check() != nil {
			return
		}
		i := 0
		for y := range f.height {
			for x := range f.width {
				if !yield(image.Pt(x, y), Pixel{f.pix[i], f.pix[i+1], f.pix[i+2], f.pix[i+3]}) {
					return
				}
				i += BytesPerPixel
			}
		}
	}
}

// Fill sets every pixel to p.
func (f *Frame) Fill(p Pixel) error {
	if err := f.check(); err != nil {
		return err
	}
	if len(f.pix) == 0 {
		return nil
	}
	f.pix[0], f.pix[1], f.pix[2], f.pix[3] = p.R, p.G, p.B, p.A
	// Doubling copy.
	for n := BytesPerPixel; n < len(f.pix); n *= 2 {
		copy(f.pix[n:], f.pix[:n])
	}
	return nil
}

// Clear sets every pixel to Transparent.
func (f *Frame) Clear() error {
	if err := f.check(); err != nil {
		return err
	}
	clear(f.pix)
	return nil
}

// FillRandom sets every pixel to RandomPixel(r, opaque).
func (f *Frame) FillRandom(r *rand.Rand, opaque bool) error {
	return f.PerPixel(func(int, int, Pixel) Pixel {
		return RandomPixel(r, opaque)
	})
}

// Row returns the bytes of row y. The slice aliases the frame.
func (f *Frame) Row(y int) ([]byte, error) {
	if err := f.check(); err != nil {
		return nil, err
	}
	if _, err := f.offset(0, y); err != nil {
		return nil, err
	}
	stride := f.width * BytesPerPixel
	return f.pix[y*stride : (y+1)*stride : (y+1)*stride], nil
}

// SetRow overwrites row y with data, which must be exactly one row long.
func (f *Frame) SetRow(y int, data []byte) error {
	row, err := f.Row(y)
	if err != nil {
		return err
	}
	if len(data) != len(row) {
		return fmt.Errorf("%w: row has %d bytes, got %d", ErrSizeMismatch, len(row), len(data))
	}
	copy(row, data)
	return nil
}

// Raw returns the frame's backing bytes. Writes through the slice are
// writes to the frame.
func (f *Frame) Raw() []byte {
	if f.check() != nil {
		return nil
	}
	return f.pix
}

// CopyFrom overwrites the whole frame with data, which must be exactly
// 4*width*height bytes.
func (f *Frame) CopyFrom(data []byte) error {
	if err := f.check(); err != nil {
		return err
	}
	if len(data) != len(f.pix) {
		return fmt.Errorf("%w: frame has %d bytes, got %d", ErrSizeMismatch, len(f.pix), len(data))
	}
	copy(f.pix, data)
	return nil
}

// Image returns an image.NRGBA sharing the frame's memory, or nil once the
// frame has expired.
func (f *Frame) Image() *image.NRGBA {
	if f.check() != nil {
		return nil
	}
	return f.image()
}

func (f *Frame) image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    f.pix,
		Stride: f.width * BytesPerPixel,
		Rect:   image.Rect(0, 0, f.width, f.height),
	}
}

// DrawImage scales src onto the whole frame with nearest-neighbour
// sampling, which keeps cell edges crisp.
func (f *Frame) DrawImage(src image.Image) error {
	if err := f.check(); err != nil {
		return err
	}
	dst := f.image()
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return nil
}
