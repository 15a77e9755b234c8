// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command pixbufdemo animates a pixel buffer in the terminal.
//
// It runs Conway's game of life, a mandelbrot zoom or colored noise on a
// buffer that follows the terminal size. Kernels run through the compute
// bridge; when the shader cannot be compiled the demo steps on the CPU.
//
//	pixbufdemo -mode mandelbrot -aspect keep -snapshot out.webp
//
// Keys: space pauses, r restarts, q or Esc quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend"
	"github.com/gogpu/pixbuf/backend/software"
	_ "github.com/gogpu/pixbuf/backend/wgpu"
	"github.com/gogpu/pixbuf/gpucore"
	"github.com/gogpu/pixbuf/integration/tcellhost"
	"github.com/gogpu/pixbuf/kernels"
	"github.com/gogpu/pixbuf/snapshot"
)

type flags struct {
	mode, fill, aspect, grid, pixel string
	fps                             int
	backend                         string
	seed                            uint64
	snapshot, log                   string
}

func main() {
	var f flags
	flag.StringVar(&f.mode, "mode", "life", "scene: life, mandelbrot or noise")
	flag.StringVar(&f.fill, "fill", "window", "sizing policy: window or fixed")
	flag.StringVar(&f.aspect, "aspect", "none", "aspect lock: none, stretch or keep")
	flag.StringVar(&f.grid, "grid", "64x48", "grid size in cells")
	flag.StringVar(&f.pixel, "pixel", "1x1", "screen pixels per cell")
	flag.IntVar(&f.fps, "fps", tcellhost.DefaultFrameRate, "ticks per second")
	flag.StringVar(&f.backend, "backend", "", "backend name (default: best available)")
	flag.Uint64Var(&f.seed, "seed", 1, "random seed")
	flag.StringVar(&f.snapshot, "snapshot", "", "save the last frame to this .webp or .png file")
	flag.StringVar(&f.log, "log", "", "write debug logs to this file")
	flag.Parse()

	if err := run(f); err != nil {
		log.Fatal(err)
	}
}

// run owns every resource, so deferred cleanup happens before main exits.
func run(f flags) error {
	if f.log != "" {
		lf, err := os.Create(f.log)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer lf.Close()
		pixbuf.SetLogger(slog.New(slog.NewTextHandler(lf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := parseConfig(f.grid, f.pixel, f.fill, f.aspect)
	if err != nil {
		return err
	}

	name, adapter, err := openBackend(f.backend)
	if err != nil {
		return fmt.Errorf("open backend: %w", err)
	}
	if c, ok := adapter.(interface{ Close() }); ok {
		defer c.Close()
	}
	if sw, ok := adapter.(*software.Adapter); ok {
		kernels.Install(sw)
	}
	pixbuf.Logger().Info("pixbufdemo: backend", "name", name)

	buf, err := pixbuf.Setup(adapter, cfg.size, cfg.fill,
		pixbuf.WithLabel(f.mode), pixbuf.WithClearColor(pixbuf.Black))
	if err != nil {
		return fmt.Errorf("create buffer: %w", err)
	}
	defer buf.Close()

	sc, err := newScene(f.mode, adapter, buf, f.seed)
	if err != nil {
		return err
	}
	defer sc.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}

	host, err := tcellhost.New(screen, buf, sc.Participants(),
		tcellhost.WithFrameRate(f.fps),
		tcellhost.WithKeyHandler(sc.HandleKey))
	if err != nil {
		screen.Fini()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	runErr := host.Run(ctx, sc.Update)
	stop()
	_ = host.Close()

	if runErr != nil && ctx.Err() == nil {
		log.Printf("Stopped: %v", runErr)
	}
	if f.snapshot != "" {
		if err := snapshot.SaveBuffer(f.snapshot, buf); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
		log.Printf("Snapshot saved to %s (%v)\n", f.snapshot, buf.Size().Size)
	}
	return nil
}

type config struct {
	size pixbuf.BufferSize
	fill pixbuf.Fill
}

func parseConfig(grid, pixel, fillName, aspect string) (config, error) {
	g, err := parseExtent(grid)
	if err != nil {
		return config{}, err
	}
	p, err := parseExtent(pixel)
	if err != nil {
		return config{}, err
	}
	size, err := pixbuf.NewBufferSize(g, p)
	if err != nil {
		return config{}, err
	}

	var lock pixbuf.AspectLock
	switch aspect {
	case "none":
		lock = pixbuf.AspectNone
	case "stretch":
		lock = pixbuf.AspectStretch
	case "keep":
		lock = pixbuf.AspectKeep
	default:
		return config{}, fmt.Errorf("unknown aspect %q", aspect)
	}

	var fill pixbuf.Fill
	switch fillName {
	case "window":
		// Whole workgroups keep every kernel invocation inside the grid.
		fill = pixbuf.FillWindow(lock).WithGridResize(8)
	case "fixed":
		fill = pixbuf.FillFixed()
	default:
		return config{}, fmt.Errorf("unknown fill %q", fillName)
	}
	return config{size: size, fill: fill}, nil
}

func parseExtent(s string) (pixbuf.Extent, error) {
	var e pixbuf.Extent
	if _, err := fmt.Sscanf(s, "%dx%d", &e.Width, &e.Height); err != nil {
		return e, fmt.Errorf("bad size %q: want WxH", s)
	}
	return e, nil
}

func openBackend(name string) (string, gpucore.GPUAdapter, error) {
	if name == "" {
		return backend.OpenDefault()
	}
	a, err := backend.Open(name)
	return name, a, err
}
