// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"encoding/binary"
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// BytesPerPixel is the size of one encoded Pixel.
const BytesPerPixel = 4

// Pixel is a single RGBA8 cell, stored straight (non-premultiplied) in
// R, G, B, A byte order. The zero value is fully transparent black.
type Pixel struct {
	R, G, B, A uint8
}

// Common pixels.
var (
	White       = Pixel{0xff, 0xff, 0xff, 0xff}
	Black       = Pixel{0x00, 0x00, 0x00, 0xff}
	Transparent = Pixel{}
	Red         = Pixel{0xff, 0x00, 0x00, 0xff}
	Green       = Pixel{0x00, 0xff, 0x00, 0xff}
	Blue        = Pixel{0x00, 0x00, 0xff, 0xff}
)

// PixelFromBytes decodes a pixel from its 4-byte RGBA encoding.
func PixelFromBytes(b [BytesPerPixel]byte) Pixel {
	return Pixel{R: b[0], G: b[1], B: b[2], A: b[3]}
}

// Bytes returns the 4-byte RGBA encoding of p.
func (p Pixel) Bytes() [BytesPerPixel]byte {
	return [BytesPerPixel]byte{p.R, p.G, p.B, p.A}
}

// PixelFromUint32 decodes a pixel packed little-endian, so that R is the
// least significant byte.
func PixelFromUint32(v uint32) Pixel {
	var b [BytesPerPixel]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return PixelFromBytes(b)
}

// Uint32 packs p little-endian, matching the texture memory layout.
func (p Pixel) Uint32() uint32 {
	b := p.Bytes()
	return binary.LittleEndian.Uint32(b[:])
}

// PixelFromFloat builds a pixel from channels in [0, 1]. Values outside the
// range are clamped and each channel is rounded to the nearest byte.
func PixelFromFloat(r, g, b, a float32) Pixel {
	return Pixel{
		R: unitToByte(r),
		G: unitToByte(g),
		B: unitToByte(b),
		A: unitToByte(a),
	}
}

// Float returns the channels of p scaled to [0, 1].
func (p Pixel) Float() (r, g, b, a float32) {
	return float32(p.R) / 255, float32(p.G) / 255, float32(p.B) / 255, float32(p.A) / 255
}

func unitToByte(v float32) uint8 {
	// NaN compares false against both bounds and would otherwise survive.
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(float64(v) * 255))
}

// RandomPixel returns a pixel with uniformly random channels drawn from r.
// When opaque is true the alpha channel is fixed at 255. A nil r uses the
// global source.
func RandomPixel(r *rand.Rand, opaque bool) Pixel {
	var v uint32
	if r == nil {
		v = rand.Uint32()
	} else {
		v = r.Uint32()
	}
	p := PixelFromUint32(v)
	if opaque {
		p.A = 0xff
	}
	return p
}

// PixelFromHSV converts hue (degrees), saturation and value in [0, 1] to an
// opaque pixel.
func PixelFromHSV(h, s, v float64) Pixel {
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return Pixel{R: r, G: g, B: b, A: 0xff}
}

// PixelFromColor converts any color.Color to a straight-alpha pixel.
func PixelFromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: n.R, G: n.G, B: n.B, A: n.A}
}

// NRGBA returns p as a color.NRGBA.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// RGBA implements color.Color. The returned values are alpha-premultiplied
// as the interface requires.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return p.NRGBA().RGBA()
}

// Compile-time check.
var _ color.Color = Pixel{}
