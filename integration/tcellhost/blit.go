// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tcellhost

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/pixbuf"
)

// HalfBlock is the rune drawn in every cell.
const HalfBlock = '▀'

// Letterbox is the color of viewport pixels outside the buffer's quad.
var Letterbox = tcell.NewRGBColor(0, 0, 0)

// Viewport returns the pixel viewport of a terminal of the given size.
func Viewport(cols, rows int) pixbuf.Extent {
	return pixbuf.Ext(cols, rows*2)
}

// Blit draws a grid of RGBA8 pixels onto screen at placement pl, given in
// viewport pixels. Sampling is nearest-neighbour at pixel centres. Alpha is
// ignored. It does not call Show.
func Blit(screen tcell.Screen, pixels []byte, grid pixbuf.Extent, pl pixbuf.Placement) {
	if grid.Empty() || len(pixels) < grid.Width*grid.Height*pixbuf.BytesPerPixel {
		return
	}
	cols, rows := screen.Size()

	sample := func(vx, vy int) tcell.Color {
		gx := cellIndex(float64(vx)+0.5, pl.X, pl.ScaleX, grid.Width)
		gy := cellIndex(float64(vy)+0.5, pl.Y, pl.ScaleY, grid.Height)
		if gx < 0 || gy < 0 {
			return Letterbox
		}
		i := (gy*grid.Width + gx) * pixbuf.BytesPerPixel
		return tcell.NewRGBColor(int32(pixels[i]), int32(pixels[i+1]), int32(pixels[i+2]))
	}

	for y := range rows {
		for x := range cols {
			style := tcell.StyleDefault.
				Foreground(sample(x, 2*y)).
				Background(sample(x, 2*y+1))
			screen.SetContent(x, y, HalfBlock, nil, style)
		}
	}
}

// cellIndex maps viewport coordinate v to a grid index, or -1 when v lies
// outside the quad starting at origin.
func cellIndex(v, origin, scale float64, n int) int {
	if scale <= 0 {
		return -1
	}
	i := int(math.Floor((v - origin) / scale))
	if i < 0 || i >= n {
		return -1
	}
	return i
}
