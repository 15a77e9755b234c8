// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend/software"
	"github.com/gogpu/pixbuf/kernels"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name                       string
		grid, pixel, fill, aspect string
		wantErr                    bool
		wantKind                   pixbuf.FillKind
	}{
		{"window", "64x48", "1x1", "window", "keep", false, pixbuf.FillKindWindow},
		{"fixed", "8x8", "2x2", "fixed", "none", false, pixbuf.FillKindFixed},
		{"bad grid", "64", "1x1", "window", "none", true, 0},
		{"zero pixel", "8x8", "0x1", "window", "none", true, 0},
		{"bad fill", "8x8", "1x1", "area", "none", true, 0},
		{"bad aspect", "8x8", "1x1", "window", "square", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseConfig(tt.grid, tt.pixel, tt.fill, tt.aspect)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && cfg.fill.Kind != tt.wantKind {
				t.Errorf("fill kind = %v, want %v", cfg.fill.Kind, tt.wantKind)
			}
		})
	}
}

func newCPUScene(t *testing.T, mode string) (*scene, *pixbuf.PixelBuffer) {
	t.Helper()
	a := software.New(software.WithoutCompute())
	size := pixbuf.BufferSize{Size: pixbuf.Ext(8, 8), PixelSize: pixbuf.Ext(1, 1)}
	buf, err := pixbuf.Setup(a, size, pixbuf.FillFixed())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = buf.Close() })

	s, err := newScene(mode, a, buf, 7)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if s.bridge != nil {
		t.Fatal("scene has a bridge on an adapter without compute")
	}
	return s, buf
}

func TestSceneCPUFallback(t *testing.T) {
	for _, mode := range []string{"life", "mandelbrot", "noise"} {
		t.Run(mode, func(t *testing.T) {
			s, buf := newCPUScene(t, mode)
			if err := s.Update(); err != nil {
				t.Fatal(err)
			}
			if err := buf.OnTick(); err != nil {
				t.Fatal(err)
			}
			pixels, err := buf.DisplayPixels()
			if err != nil {
				t.Fatal(err)
			}
			for i := 3; i < len(pixels); i += 4 {
				if pixels[i] != 0xff {
					t.Fatalf("pixel %d alpha = %d, want opaque", i/4, pixels[i])
				}
			}
		})
	}
}

func TestScenePause(t *testing.T) {
	s, buf := newCPUScene(t, "noise")
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	_ = buf.OnTick()
	before, _ := buf.DisplayPixels()
	before = append([]byte(nil), before...)

	s.paused = true
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	_ = buf.OnTick()
	after, _ := buf.DisplayPixels()
	if string(before) != string(after) {
		t.Error("paused scene changed the buffer")
	}
}

func TestUnknownMode(t *testing.T) {
	a := software.New()
	buf, err := pixbuf.Setup(a, pixbuf.DefaultBufferSize(), pixbuf.FillFixed())
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()
	if _, err := newScene("plasma", a, buf, 1); err == nil {
		t.Error("newScene(plasma) error = nil")
	}
}

func TestZoomWraps(t *testing.T) {
	p := kernels.DefaultMandelbrotParams()
	for range 1000 {
		zoom(p)
	}
	if p.Scale < 1e-5 || p.Scale > kernels.DefaultMandelbrotParams().Scale {
		t.Errorf("scale = %g, want within (1e-5, default]", p.Scale)
	}
}

func TestRunReturnsSetupErrors(t *testing.T) {
	tests := []struct {
		name string
		f    flags
	}{
		{"bad grid", flags{mode: "life", fill: "fixed", aspect: "none", grid: "big", pixel: "1x1", backend: "software"}},
		{"unknown backend", flags{mode: "life", fill: "fixed", aspect: "none", grid: "8x8", pixel: "1x1", backend: "nope"}},
		{"unknown mode", flags{mode: "plasma", fill: "fixed", aspect: "none", grid: "8x8", pixel: "1x1", backend: "software"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.f); err == nil {
				t.Error("run() error = nil")
			}
		})
	}
}
