// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"fmt"
	"math"
)

// FillKind selects where a buffer's viewport comes from.
type FillKind uint8

const (
	// FillKindFixed ignores the viewport; the configured pixel size is kept.
	FillKindFixed FillKind = iota

	// FillKindWindow follows the host window.
	FillKindWindow

	// FillKindArea follows a named UI region reported through
	// PixelBuffer.OnAreaResize.
	FillKindArea
)

// String returns the fill kind name.
func (k FillKind) String() string {
	switch k {
	case FillKindFixed:
		return "Fixed"
	case FillKindWindow:
		return "Window"
	case FillKindArea:
		return "Area"
	default:
		return fmt.Sprintf("FillKind(%d)", k)
	}
}

// AspectLock controls how the grid is scaled into its viewport.
type AspectLock uint8

const (
	// AspectNone scales each axis by a whole number of screen pixels.
	AspectNone AspectLock = iota

	// AspectStretch scales each axis independently to cover the viewport.
	AspectStretch

	// AspectKeep scales both axes by the limiting factor and centres the
	// quad, leaving letterbox or pillarbox bars.
	AspectKeep
)

// String returns the aspect lock name.
func (a AspectLock) String() string {
	switch a {
	case AspectNone:
		return "None"
	case AspectStretch:
		return "Stretch"
	case AspectKeep:
		return "KeepAspect"
	default:
		return fmt.Sprintf("AspectLock(%d)", a)
	}
}

// Fill is the sizing policy of a pixel buffer.
type Fill struct {
	Kind   FillKind
	Aspect AspectLock

	// Area is the region id for FillKindArea.
	Area string

	// GridMultiple, when positive, makes the grid follow the viewport:
	// grid = floor(viewport / PixelSize), truncated to a multiple of
	// GridMultiple. Zero keeps the grid fixed.
	GridMultiple int
}

// FillFixed returns the policy that never rescales.
func FillFixed() Fill { return Fill{Kind: FillKindFixed} }

// FillWindow returns the policy that follows the window.
func FillWindow(aspect AspectLock) Fill {
	return Fill{Kind: FillKindWindow, Aspect: aspect}
}

// FillArea returns the policy that follows the UI region named area.
func FillArea(area string, aspect AspectLock) Fill {
	return Fill{Kind: FillKindArea, Aspect: aspect, Area: area}
}

// WithGridResize returns a copy of f whose grid follows the viewport,
// truncated to a multiple of multiple (1 for no truncation). Compute
// kernels use this to keep the grid an exact number of workgroups.
func (f Fill) WithGridResize(multiple int) Fill {
	f.GridMultiple = multiple
	return f
}

// Validate rejects negative multiples.
func (f Fill) Validate() error {
	if f.GridMultiple < 0 {
		return fmt.Errorf("%w: grid multiple %d", ErrInvalidSize, f.GridMultiple)
	}
	return nil
}

// Placement is where a buffer's quad lands in its viewport, in viewport
// pixels. ScaleX and ScaleY are screen pixels per cell and may be
// fractional.
type Placement struct {
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
}

// Layout is the outcome of the sizing policy for one viewport.
type Layout struct {
	// Grid is the grid size; it differs from the input only for fills
	// with GridMultiple set.
	Grid Extent

	// PixelSize is the whole number of screen pixels per cell.
	PixelSize Extent

	Placement Placement
}

// ComputePixelSize returns the pixel size the fill policy assigns to size
// inside viewport. See ComputeLayout.
func ComputePixelSize(size BufferSize, viewport Extent, fill Fill) (Extent, error) {
	l, err := ComputeLayout(size, viewport, fill)
	if err != nil {
		return Extent{}, err
	}
	return l.PixelSize, nil
}

// ComputeLayout applies the fill policy. It is pure: the same inputs always
// give the same Layout.
//
// A viewport with a zero or negative dimension returns ErrInvalidSize, as
// does a grid-resizing fill whose viewport cannot hold a single multiple.
func ComputeLayout(size BufferSize, viewport Extent, fill Fill) (Layout, error) {
	if viewport.Empty() {
		return Layout{}, fmt.Errorf("%w: viewport %v", ErrInvalidSize, viewport)
	}
	if err := size.Validate(); err != nil {
		return Layout{}, err
	}
	if err := fill.Validate(); err != nil {
		return Layout{}, err
	}

	if fill.Kind == FillKindFixed {
		ps := size.PixelSize
		return Layout{
			Grid:      size.Size,
			PixelSize: ps,
			Placement: Placement{
				Width:  float64(size.Size.Width * ps.Width),
				Height: float64(size.Size.Height * ps.Height),
				ScaleX: float64(ps.Width),
				ScaleY: float64(ps.Height),
			},
		}, nil
	}

	grid := size.Size
	if m := fill.GridMultiple; m > 0 {
		grid = Extent{
			Width:  viewport.Width / size.PixelSize.Width / m * m,
			Height: viewport.Height / size.PixelSize.Height / m * m,
		}
		if grid.Empty() {
			return Layout{}, fmt.Errorf("%w: viewport %v holds no %d-cell multiple at pixel size %v",
				ErrInvalidSize, viewport, m, size.PixelSize)
		}
	}

	vw, vh := float64(viewport.Width), float64(viewport.Height)
	gw, gh := float64(grid.Width), float64(grid.Height)
	whole := Extent{
		Width:  max(1, viewport.Width/grid.Width),
		Height: max(1, viewport.Height/grid.Height),
	}

	l := Layout{Grid: grid}
	switch fill.Aspect {
	case AspectStretch:
		l.PixelSize = whole
		l.Placement = Placement{Width: vw, Height: vh, ScaleX: vw / gw, ScaleY: vh / gh}
	case AspectKeep:
		s := math.Min(vw/gw, vh/gh)
		p := max(1, int(math.Floor(s)))
		l.PixelSize = Extent{Width: p, Height: p}
		l.Placement = Placement{Width: gw * s, Height: gh * s, ScaleX: s, ScaleY: s}
	default:
		l.PixelSize = whole
		l.Placement = Placement{
			Width:  gw * float64(whole.Width),
			Height: gh * float64(whole.Height),
			ScaleX: float64(whole.Width),
			ScaleY: float64(whole.Height),
		}
	}
	l.Placement.X = (vw - l.Placement.Width) / 2
	l.Placement.Y = (vh - l.Placement.Height) / 2
	return l, nil
}
