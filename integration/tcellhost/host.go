// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tcellhost

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/pixbuf"
)

// DefaultFrameRate is the tick rate of Run.
const DefaultFrameRate = 30

// Option configures a Host.
type Option func(*Host)

// WithFrameRate sets the number of ticks per second.
func WithFrameRate(fps int) Option {
	return func(h *Host) {
		if fps > 0 {
			h.interval = time.Second / time.Duration(fps)
		}
	}
}

// WithKeyHandler installs fn for key events that do not quit.
func WithKeyHandler(fn func(*tcell.EventKey)) Option {
	return func(h *Host) {
		h.onKey = fn
	}
}

// Host drives one pixel buffer and its participants (compute bridges and
// the like) from a terminal: resizes reach Runner.OnResize, and every tick
// runs the update, ticks the runner and redraws.
type Host struct {
	screen   tcell.Screen
	buf      *pixbuf.PixelBuffer
	runner   *pixbuf.Runner
	interval time.Duration
	onKey    func(*tcell.EventKey)

	ticks  uint64
	closed bool
}

// New returns a host for buf on an initialized screen. Participants are
// ticked after buf, in order. The host takes ownership of the screen.
func New(screen tcell.Screen, buf *pixbuf.PixelBuffer, participants []any, opts ...Option) (*Host, error) {
	if screen == nil || buf == nil {
		return nil, errors.New("tcellhost: nil screen or buffer")
	}
	screen.HideCursor()

	h := &Host{
		screen:   screen,
		buf:      buf,
		runner:   pixbuf.NewRunner(append([]any{buf}, participants...)...),
		interval: time.Second / DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(h)
	}
	if err := h.Resize(); err != nil {
		pixbuf.Logger().Warn("tcellhost: initial resize failed", "err", err)
	}
	return h, nil
}

// Screen returns the terminal screen.
func (h *Host) Screen() tcell.Screen { return h.screen }

// Ticks returns the number of completed ticks.
func (h *Host) Ticks() uint64 { return h.ticks }

// Viewport returns the current pixel viewport of the terminal.
func (h *Host) Viewport() pixbuf.Extent {
	return Viewport(h.screen.Size())
}

// Resize forwards the terminal size to the participants.
func (h *Host) Resize() error {
	return h.runner.OnResize(h.Viewport())
}

// Step runs one tick: update (may be nil), then every participant's
// OnTick, then a redraw.
func (h *Host) Step(update func() error) error {
	if update != nil {
		if err := update(); err != nil {
			return err
		}
	}
	if err := h.runner.OnTick(); err != nil {
		return err
	}
	h.ticks++
	return h.Draw()
}

// Draw blits the buffer's displayed pixels and shows the screen.
func (h *Host) Draw() error {
	pixels, err := h.buf.DisplayPixels()
	if err != nil {
		return err
	}
	Blit(h.screen, pixels, h.buf.Size().Size, h.buf.Placement())
	h.screen.Show()
	return nil
}

// Run ticks at the configured rate until Esc, Ctrl-C or q is pressed
// (returning nil), ctx is done (returning ctx.Err()), or a tick fails.
func (h *Host) Run(ctx context.Context, update func() error) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go h.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				h.screen.Sync()
				// A degenerate terminal is skipped until it recovers.
				if err := h.Resize(); err != nil && !errors.Is(err, pixbuf.ErrInvalidSize) {
					return err
				}
			case *tcell.EventKey:
				if isQuit(ev) {
					return nil
				}
				if h.onKey != nil {
					h.onKey(ev)
				}
			}

		case <-ticker.C:
			if err := h.Step(update); err != nil {
				return err
			}
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

// Close restores the terminal. It does not close the buffer. Close is
// idempotent.
func (h *Host) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	h.screen.Fini()
	return nil
}
