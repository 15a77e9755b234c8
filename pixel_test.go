// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"image/color"
	"math"
	"math/rand/v2"
	"testing"
)

func TestPixelEncoding(t *testing.T) {
	p := Pixel{R: 0x11, G: 0x22, B: 0x33, A: 0x44}

	if got := p.Bytes(); got != [4]byte{0x11, 0x22, 0x33, 0x44} {
		t.Errorf("Bytes() = %v", got)
	}
	if got := PixelFromBytes(p.Bytes()); got != p {
		t.Errorf("PixelFromBytes(Bytes()) = %+v, want %+v", got, p)
	}
	// R is the low byte, matching the texture memory layout.
	if got := p.Uint32(); got != 0x44332211 {
		t.Errorf("Uint32() = %#x, want 0x44332211", got)
	}
	if got := PixelFromUint32(0x44332211); got != p {
		t.Errorf("PixelFromUint32() = %+v, want %+v", got, p)
	}
}

func TestPixelFromFloat(t *testing.T) {
	tests := []struct {
		name       string
		r, g, b, a float32
		want       Pixel
	}{
		{"white", 1, 1, 1, 1, White},
		{"zero", 0, 0, 0, 0, Transparent},
		{"half rounds up", 0.5, 0.5, 0.5, 1, Pixel{128, 128, 128, 255}},
		{"clamped", -1, 2, 0, 1.5, Pixel{0, 255, 0, 255}},
		{"nan", float32(math.NaN()), 1, 1, 1, Pixel{0, 255, 255, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PixelFromFloat(tt.r, tt.g, tt.b, tt.a); got != tt.want {
				t.Errorf("PixelFromFloat() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPixelFloatRoundTrip(t *testing.T) {
	for v := range 256 {
		p := Pixel{uint8(v), uint8(255 - v), uint8(v / 2), 255}
		if got := PixelFromFloat(p.Float()); got != p {
			t.Fatalf("PixelFromFloat(%+v.Float()) = %+v", p, got)
		}
	}
}

func TestRandomPixel(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for range 64 {
		if p := RandomPixel(r, true); p.A != 255 {
			t.Fatalf("opaque RandomPixel alpha = %d", p.A)
		}
	}

	a := RandomPixel(rand.New(rand.NewPCG(7, 7)), false)
	b := RandomPixel(rand.New(rand.NewPCG(7, 7)), false)
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}
}

func TestPixelFromHSV(t *testing.T) {
	tests := []struct {
		h, s, v float64
		want    Pixel
	}{
		{0, 1, 1, Red},
		{120, 1, 1, Green},
		{240, 1, 1, Blue},
		{0, 0, 1, White},
		{0, 0, 0, Black},
	}
	for _, tt := range tests {
		if got := PixelFromHSV(tt.h, tt.s, tt.v); got != tt.want {
			t.Errorf("PixelFromHSV(%v, %v, %v) = %+v, want %+v", tt.h, tt.s, tt.v, got, tt.want)
		}
	}
}

func TestPixelColorInterop(t *testing.T) {
	p := Pixel{200, 100, 50, 128}
	if got := PixelFromColor(p.NRGBA()); got != p {
		t.Errorf("PixelFromColor(NRGBA()) = %+v, want %+v", got, p)
	}
	if got := PixelFromColor(color.Black); got != Black {
		t.Errorf("PixelFromColor(color.Black) = %+v", got)
	}

	// RGBA is premultiplied.
	r, _, _, a := p.RGBA()
	if a != 128*0x101 || r != 200*128*0x101/255 {
		t.Errorf("RGBA() r=%d a=%d", r, a)
	}
}
