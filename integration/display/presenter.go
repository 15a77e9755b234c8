// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pixbuf"
)

func slogger() *slog.Logger { return pixbuf.Logger() }

// ErrPresenterClosed is returned when a closed presenter is used.
var ErrPresenterClosed = errors.New("display: presenter is closed")

// Presenter uploads a pixel buffer to a host texture and draws it.
//
// The host texture is created lazily on the first Present. When the buffer
// reallocates for a new grid size the host texture is recreated; the old
// one is destroyed only after its replacement exists, because in-flight
// command buffers may still sample it.
type Presenter struct {
	buf    *pixbuf.PixelBuffer
	cancel func()

	texture     any
	oldTexture  any
	size        pixbuf.Extent
	sizeChanged bool

	presents int
	closed   bool
}

// NewPresenter returns a presenter for buf.
func NewPresenter(buf *pixbuf.PixelBuffer) *Presenter {
	p := &Presenter{buf: buf}
	p.cancel = buf.OnResized(func(pixbuf.ResizeEvent) { p.sizeChanged = true })
	return p
}

// Buffer returns the presented buffer.
func (p *Presenter) Buffer() *pixbuf.PixelBuffer { return p.buf }

// Texture returns the current host texture, or nil before the first
// Present.
func (p *Presenter) Texture() any { return p.texture }

// Presents returns the number of successful presents.
func (p *Presenter) Presents() int { return p.presents }

// RenderTo draws the buffer through a gpucontext.TextureDrawer.
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    presenter.RenderTo(dc.AsTextureDrawer())
//	})
func (p *Presenter) RenderTo(dc gpucontext.TextureDrawer) error {
	return p.Present(FromDrawer(dc))
}

// Present uploads the buffer's displayed pixels and draws them at the
// buffer's placement.
func (p *Presenter) Present(s Surface) error {
	if p.closed {
		return ErrPresenterClosed
	}
	data, err := p.buf.DisplayPixels()
	if err != nil {
		return err
	}
	grid := p.buf.Size().Size

	if p.sizeChanged || (p.texture != nil && grid != p.size) {
		if p.texture != nil {
			if p.oldTexture != nil {
				destroyTexture(p.oldTexture)
			}
			p.oldTexture = p.texture
			p.texture = nil
		}
		p.sizeChanged = false
	}

	if p.texture == nil {
		tex, err := s.CreateTexture(grid.Width, grid.Height, data)
		if err != nil {
			return err
		}
		p.texture = tex
		p.size = grid
		slogger().Debug("display: host texture created", "buffer", p.buf.Label(), "size", grid)

		// The replacement exists, so the GPU no longer needs the old one.
		if p.oldTexture != nil {
			destroyTexture(p.oldTexture)
			p.oldTexture = nil
		}
	} else if err := s.UpdateTexture(p.texture, data); err != nil {
		return fmt.Errorf("display: texture update failed: %w", err)
	}

	if err := s.DrawTexture(p.texture, p.buf.Placement()); err != nil {
		return err
	}
	p.presents++
	return nil
}

// Close releases the host textures and stops listening to the buffer. It
// does not close the buffer. Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.oldTexture != nil {
		destroyTexture(p.oldTexture)
		p.oldTexture = nil
	}
	if p.texture != nil {
		destroyTexture(p.texture)
		p.texture = nil
	}
	return nil
}
