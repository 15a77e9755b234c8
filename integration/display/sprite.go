// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"image"
	"math"

	"github.com/gogpu/pixbuf"
)

// Sprite is the displayed quad of a pixel buffer. Pass it to
// pixbuf.WithGeometry; the buffer keeps it in sync with the sizing policy.
type Sprite struct {
	placement pixbuf.Placement
	updates   int
}

// SetPlacement implements pixbuf.Geometry.
func (s *Sprite) SetPlacement(p pixbuf.Placement) {
	s.placement = p
	s.updates++
}

// Placement returns the latest placement.
func (s *Sprite) Placement() pixbuf.Placement { return s.placement }

// Updates returns how many placements the sprite has received.
func (s *Sprite) Updates() int { return s.updates }

// Bounds returns the placement rounded outward to whole screen pixels.
func (s *Sprite) Bounds() image.Rectangle {
	p := s.placement
	return image.Rect(
		int(math.Floor(p.X)), int(math.Floor(p.Y)),
		int(math.Ceil(p.X+p.Width)), int(math.Ceil(p.Y+p.Height)),
	)
}

// Compile-time check.
var _ pixbuf.Geometry = (*Sprite)(nil)
