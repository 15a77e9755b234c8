// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"
	"math/rand/v2"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/compute"
	"github.com/gogpu/pixbuf/gpucore"
	"github.com/gogpu/pixbuf/kernels"
)

// scene animates one buffer. When bridge is nil the scene steps on the CPU
// in Update.
type scene struct {
	buf    *pixbuf.PixelBuffer
	bridge *compute.Bridge
	rng    *rand.Rand

	paused  bool
	restart bool
	cancel  func()

	seed    func(f *pixbuf.Frame) error
	step    func(f *pixbuf.Frame) error
	animate func()
}

func newScene(mode string, adapter gpucore.GPUAdapter, buf *pixbuf.PixelBuffer, seed uint64) (*scene, error) {
	s := &scene{
		buf:     buf,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		restart: true,
	}
	s.cancel = buf.OnResized(func(pixbuf.ResizeEvent) { s.restart = true })

	var k compute.Kernel
	switch mode {
	case "life":
		k = kernels.GameOfLife()
		s.seed = s.seedLife
		s.step = s.stepLife
	case "mandelbrot":
		params := kernels.DefaultMandelbrotParams()
		params.Center = [2]float32{-0.743643, 0.131825}
		k = kernels.Mandelbrot(params)
		s.seed = func(*pixbuf.Frame) error {
			params.Scale = kernels.DefaultMandelbrotParams().Scale
			params.MaxIter = kernels.DefaultMandelbrotParams().MaxIter
			return nil
		}
		s.animate = func() { zoom(params) }
		s.step = func(f *pixbuf.Frame) error {
			return kernels.RenderMandelbrot(f, *params)
		}
	case "noise":
		s.seed = func(*pixbuf.Frame) error { return nil }
		s.step = s.stepNoise
		return s, nil
	default:
		s.cancel()
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	bridge, err := compute.New(adapter, k)
	if err == nil {
		if err = bridge.Attach(buf); err != nil {
			_ = bridge.Close()
		}
	}
	if err != nil {
		pixbuf.Logger().Warn("pixbufdemo: kernel unavailable, stepping on the CPU", "kernel", k.Label, "err", err)
		return s, nil
	}
	s.bridge = bridge
	return s, nil
}

// Participants returns the values the host ticks after the buffer.
func (s *scene) Participants() []any {
	if s.bridge == nil {
		return nil
	}
	return []any{s.bridge}
}

// Update runs before every tick.
func (s *scene) Update() error {
	if s.restart {
		s.restart = false
		if err := s.buf.Edit(s.seed); err != nil {
			return err
		}
	}
	if s.paused {
		return nil
	}
	if s.animate != nil {
		s.animate()
	}
	if s.bridge != nil {
		return nil
	}
	return s.buf.Edit(s.step)
}

func (s *scene) HandleKey(ev *tcell.EventKey) {
	if ev.Key() != tcell.KeyRune {
		return
	}
	switch ev.Rune() {
	case ' ':
		s.paused = !s.paused
		if s.bridge != nil {
			if s.paused {
				s.bridge.Pause()
			} else {
				s.bridge.Start()
			}
		}
	case 'r':
		s.restart = true
	}
}

func (s *scene) Close() error {
	s.cancel()
	if s.bridge != nil {
		return s.bridge.Close()
	}
	return nil
}

func (s *scene) seedLife(f *pixbuf.Frame) error {
	return f.PerPixel(func(int, int, pixbuf.Pixel) pixbuf.Pixel {
		if s.rng.Float64() < 0.3 {
			return kernels.Alive
		}
		return kernels.Dead
	})
}

func (s *scene) stepLife(f *pixbuf.Frame) error {
	src, err := pixbuf.NewFrame(bytes.Clone(f.Raw()), f.Width(), f.Height())
	if err != nil {
		return err
	}
	return kernels.LifeStep(f, src)
}

func (s *scene) stepNoise(f *pixbuf.Frame) error {
	return f.PerPixel(func(int, int, pixbuf.Pixel) pixbuf.Pixel {
		return pixbuf.PixelFromHSV(s.rng.Float64()*360, 0.8, s.rng.Float64())
	})
}

// zoom shrinks the view and starts over once float32 precision runs out.
func zoom(p *kernels.MandelbrotParams) {
	p.Scale *= 0.97
	p.MaxIter = min(1024, p.MaxIter+1)
	if p.Scale < 1e-5 {
		p.Scale = kernels.DefaultMandelbrotParams().Scale
		p.MaxIter = kernels.DefaultMandelbrotParams().MaxIter
	}
}
