// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"errors"
	"math"
	"testing"
)

func sizeOf(gw, gh, pw, ph int) BufferSize {
	return BufferSize{Size: Ext(gw, gh), PixelSize: Ext(pw, ph)}
}

func TestBufferSizeValidate(t *testing.T) {
	tests := []struct {
		name    string
		size    BufferSize
		wantErr bool
	}{
		{"default", DefaultBufferSize(), false},
		{"zero grid", sizeOf(0, 4, 1, 1), true},
		{"negative grid", sizeOf(4, -1, 1, 1), true},
		{"zero pixel", sizeOf(4, 4, 0, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.size.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSize) {
				t.Errorf("Validate() error = %v, want ErrInvalidSize", err)
			}
		})
	}

	s, err := NewBufferSize(Ext(3, 2), Ext(4, 5))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ScreenSize(); got != Ext(12, 10) {
		t.Errorf("ScreenSize() = %v, want 12x10", got)
	}
	if got := s.ByteLen(); got != 24 {
		t.Errorf("ByteLen() = %d, want 24", got)
	}
}

func TestComputePixelSize(t *testing.T) {
	tests := []struct {
		name     string
		size     BufferSize
		viewport Extent
		fill     Fill
		want     Extent
	}{
		{"stretch exact", sizeOf(10, 10, 1, 1), Ext(100, 100), FillWindow(AspectStretch), Ext(10, 10)},
		{"keep limited by width", sizeOf(10, 7, 1, 1), Ext(100, 100), FillWindow(AspectKeep), Ext(10, 10)},
		{"keep limited by height", sizeOf(10, 10, 1, 1), Ext(300, 50), FillWindow(AspectKeep), Ext(5, 5)},
		{"keep fractional floors", sizeOf(3, 3, 1, 1), Ext(10, 10), FillWindow(AspectKeep), Ext(3, 3)},
		{"keep below one", sizeOf(64, 64, 1, 1), Ext(32, 32), FillWindow(AspectKeep), Ext(1, 1)},
		{"none per axis", sizeOf(10, 10, 1, 1), Ext(35, 52), FillWindow(AspectNone), Ext(3, 5)},
		{"stretch per axis", sizeOf(10, 10, 1, 1), Ext(35, 52), FillWindow(AspectStretch), Ext(3, 5)},
		{"fixed ignores viewport", sizeOf(10, 10, 2, 3), Ext(1000, 1000), FillFixed(), Ext(2, 3)},
		{"area behaves like window", sizeOf(8, 4, 1, 1), Ext(80, 80), FillArea("panel", AspectKeep), Ext(10, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePixelSize(tt.size, tt.viewport, tt.fill)
			if err != nil {
				t.Fatalf("ComputePixelSize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputePixelSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeLayoutKeepLetterbox(t *testing.T) {
	l, err := ComputeLayout(sizeOf(10, 7, 1, 1), Ext(100, 100), FillWindow(AspectKeep))
	if err != nil {
		t.Fatal(err)
	}
	want := Placement{X: 0, Y: 15, Width: 100, Height: 70, ScaleX: 10, ScaleY: 10}
	if l.Placement != want {
		t.Errorf("Placement = %+v, want %+v", l.Placement, want)
	}
	if l.Grid != Ext(10, 7) {
		t.Errorf("Grid = %v, want 10x7", l.Grid)
	}
}

func TestComputeLayoutKeepIsUniform(t *testing.T) {
	viewports := []Extent{Ext(640, 480), Ext(481, 1023), Ext(1, 1), Ext(999, 3)}
	for _, vp := range viewports {
		l, err := ComputeLayout(sizeOf(32, 24, 1, 1), vp, FillWindow(AspectKeep))
		if err != nil {
			t.Fatal(err)
		}
		p := l.Placement
		if p.ScaleX != p.ScaleY {
			t.Errorf("%v: scale %v x %v is not uniform", vp, p.ScaleX, p.ScaleY)
		}
		if p.Width > float64(vp.Width)+1e-9 || p.Height > float64(vp.Height)+1e-9 {
			t.Errorf("%v: quad %vx%v overflows viewport", vp, p.Width, p.Height)
		}
		// One axis touches the viewport edge.
		if math.Abs(p.Width-float64(vp.Width)) > 1e-9 && math.Abs(p.Height-float64(vp.Height)) > 1e-9 {
			t.Errorf("%v: quad %vx%v touches no edge", vp, p.Width, p.Height)
		}
	}
}

func TestComputeLayoutStretchCovers(t *testing.T) {
	l, err := ComputeLayout(sizeOf(10, 7, 1, 1), Ext(100, 100), FillWindow(AspectStretch))
	if err != nil {
		t.Fatal(err)
	}
	want := Placement{Width: 100, Height: 100, ScaleX: 10, ScaleY: 100.0 / 7}
	if l.Placement != want {
		t.Errorf("Placement = %+v, want %+v", l.Placement, want)
	}
}

func TestComputeLayoutNoneCentres(t *testing.T) {
	l, err := ComputeLayout(sizeOf(10, 10, 1, 1), Ext(35, 52), FillWindow(AspectNone))
	if err != nil {
		t.Fatal(err)
	}
	want := Placement{X: 2.5, Y: 1, Width: 30, Height: 50, ScaleX: 3, ScaleY: 5}
	if l.Placement != want {
		t.Errorf("Placement = %+v, want %+v", l.Placement, want)
	}
}

func TestComputeLayoutGridResize(t *testing.T) {
	fill := FillWindow(AspectStretch).WithGridResize(8)
	l, err := ComputeLayout(sizeOf(1, 1, 4, 4), Ext(300, 200), fill)
	if err != nil {
		t.Fatal(err)
	}
	// 300/4 = 75 -> 72, 200/4 = 50 -> 48.
	if l.Grid != Ext(72, 48) {
		t.Errorf("Grid = %v, want 72x48", l.Grid)
	}

	_, err = ComputeLayout(sizeOf(1, 1, 4, 4), Ext(20, 200), fill)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("viewport too small for one multiple: error = %v, want ErrInvalidSize", err)
	}
}

func TestComputeLayoutDegenerateViewport(t *testing.T) {
	fills := []Fill{FillFixed(), FillWindow(AspectNone), FillWindow(AspectStretch), FillWindow(AspectKeep)}
	for _, fill := range fills {
		for _, vp := range []Extent{Ext(0, 320), Ext(320, 0), Ext(-1, 10)} {
			if _, err := ComputeLayout(DefaultBufferSize(), vp, fill); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("%v/%v %v: error = %v, want ErrInvalidSize", fill.Kind, fill.Aspect, vp, err)
			}
		}
	}
	if _, err := ComputeLayout(DefaultBufferSize(), Ext(10, 10), Fill{GridMultiple: -1}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("negative multiple: error = %v, want ErrInvalidSize", err)
	}
}

func TestComputeLayoutDeterministic(t *testing.T) {
	s := sizeOf(13, 9, 2, 2)
	fill := FillWindow(AspectKeep)
	a, _ := ComputeLayout(s, Ext(777, 333), fill)
	b, _ := ComputeLayout(s, Ext(777, 333), fill)
	if a != b {
		t.Errorf("layouts differ: %+v vs %+v", a, b)
	}
}

func TestFillStrings(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FillKindFixed.String(), "Fixed"},
		{FillKindWindow.String(), "Window"},
		{FillKindArea.String(), "Area"},
		{FillKind(9).String(), "FillKind(9)"},
		{AspectNone.String(), "None"},
		{AspectStretch.String(), "Stretch"},
		{AspectKeep.String(), "KeepAspect"},
		{AspectLock(7).String(), "AspectLock(7)"},
		{Ext(3, 4).String(), "3x4"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
