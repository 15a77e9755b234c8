// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend/software"
	"github.com/gogpu/pixbuf/compute"
)

const mandelbrotEntry = "mandelbrot"

//go:embed shaders/mandelbrot.wgsl
var mandelbrotWGSL string

// MandelbrotParams is the uniform block of the mandelbrot kernel.
// Its encoding follows the WGSL struct layout: center at offset 0, scale at
// 8, max_iter at 12.
type MandelbrotParams struct {
	Center  [2]float32
	Scale   float32
	MaxIter uint32
}

// DefaultMandelbrotParams frames the whole set.
func DefaultMandelbrotParams() *MandelbrotParams {
	return &MandelbrotParams{Center: [2]float32{-0.5, 0}, Scale: 3, MaxIter: 64}
}

// UniformBytes implements compute.Uniforms.
func (p *MandelbrotParams) UniformBytes() []byte {
	b := make([]byte, 16)
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(p.Center[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(p.Center[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(p.Scale))
	binary.LittleEndian.PutUint32(b[12:], p.MaxIter)
	return b
}

func decodeMandelbrotParams(b []byte) (MandelbrotParams, error) {
	if len(b) < 16 {
		return MandelbrotParams{}, errors.New("kernels: mandelbrot params shorter than 16 bytes")
	}
	return MandelbrotParams{
		Center: [2]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
			math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		},
		Scale:   math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
		MaxIter: binary.LittleEndian.Uint32(b[12:]),
	}, nil
}

// Mandelbrot returns the in-place mandelbrot kernel. The caller keeps params
// and may change it between ticks; the bridge uploads it before every
// dispatch.
func Mandelbrot(params *MandelbrotParams) compute.Kernel {
	return compute.Kernel{
		Label:      "mandelbrot",
		Source:     mandelbrotWGSL,
		EntryPoint: mandelbrotEntry,
		InPlace:    true,
		Params:     params,
	}
}

// RenderMandelbrot draws the set into f. It is the reference the GPU and
// software kernels follow.
func RenderMandelbrot(f *pixbuf.Frame, p MandelbrotParams) error {
	if p.MaxIter == 0 {
		return f.Fill(pixbuf.Black)
	}
	w, h := float32(f.Width()), float32(f.Height())
	return f.PerPixelPar(func(x, y int, _ pixbuf.Pixel) pixbuf.Pixel {
		cx := (float32(x)-w*0.5)/h*p.Scale + p.Center[0]
		cy := (float32(y)-h*0.5)/h*p.Scale + p.Center[1]

		var zx, zy float32
		i := uint32(0)
		for ; i < p.MaxIter && zx*zx+zy*zy <= 4; i++ {
			zx, zy = zx*zx-zy*zy+cx, 2*zx*zy+cy
		}

		t := float32(i) / float32(p.MaxIter)
		return pixbuf.PixelFromFloat(t, t*t, float32(math.Sqrt(float64(t))), 1)
	})
}

func mandelbrot(inv *software.Invocation) error {
	tex, err := inv.Texture(0, 0)
	if err != nil {
		return err
	}
	raw, err := inv.Uniform(1, 0)
	if err != nil {
		return err
	}
	p, err := decodeMandelbrotParams(raw)
	if err != nil {
		return err
	}
	f, err := pixbuf.NewFrame(tex.Data, tex.Desc.Width, tex.Desc.Height)
	if err != nil {
		return err
	}
	return RenderMandelbrot(f, p)
}
