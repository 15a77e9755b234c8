// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernels

import (
	_ "embed"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend/software"
	"github.com/gogpu/pixbuf/compute"
)

const lifeEntry = "life_step"

//go:embed shaders/life.wgsl
var lifeWGSL string

// Cell colors of the game of life.
var (
	Alive = pixbuf.White
	Dead  = pixbuf.Black
)

// GameOfLife returns Conway's game of life on a torus. A cell is alive when
// its red channel is above one half. The kernel runs ping-pong.
func GameOfLife() compute.Kernel {
	return compute.Kernel{
		Label:      "game-of-life",
		Source:     lifeWGSL,
		EntryPoint: lifeEntry,
	}
}

func isAlive(pix []byte, i int) bool { return pix[i] > 127 }

// LifeStep computes one generation of src into dst. Both frames must have
// the same size. It is the reference the GPU and software kernels follow.
func LifeStep(dst, src *pixbuf.Frame) error {
	w, h := src.Width(), src.Height()
	if dst.Size() != src.Size() {
		return pixbuf.ErrSizeMismatch
	}
	in := src.Raw()
	return dst.PerPixelPar(func(x, y int, _ pixbuf.Pixel) pixbuf.Pixel {
		n := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := (x+dx+w)%w, (y+dy+h)%h
				if isAlive(in, (ny*w+nx)*pixbuf.BytesPerPixel) {
					n++
				}
			}
		}
		was := isAlive(in, (y*w+x)*pixbuf.BytesPerPixel)
		if n == 3 || (was && n == 2) {
			return Alive
		}
		return Dead
	})
}

func lifeStep(inv *software.Invocation) error {
	in, err := inv.Texture(0, 0)
	if err != nil {
		return err
	}
	out, err := inv.Texture(0, 1)
	if err != nil {
		return err
	}
	src, err := pixbuf.NewFrame(in.Data, in.Desc.Width, in.Desc.Height)
	if err != nil {
		return err
	}
	dst, err := pixbuf.NewFrame(out.Data, out.Desc.Width, out.Desc.Height)
	if err != nil {
		return err
	}
	return LifeStep(dst, src)
}
