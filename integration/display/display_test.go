// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend/software"
	"github.com/gogpu/pixbuf/gpucore"
)

type mockTexture struct {
	width, height int
	data          []byte
	updated       int
	destroyed     bool
}

func (m *mockTexture) Destroy() { m.destroyed = true }

type drawCall struct {
	tex *mockTexture
	pl  pixbuf.Placement
}

type mockSurface struct {
	textures []*mockTexture
	draws    []drawCall
	failNext bool
}

func (m *mockSurface) CreateTexture(width, height int, data []byte) (any, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock texture creation failed")
	}
	tex := &mockTexture{width: width, height: height, data: bytes.Clone(data)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

func (m *mockSurface) UpdateTexture(tex any, data []byte) error {
	mt := tex.(*mockTexture)
	mt.data = bytes.Clone(data)
	mt.updated++
	return nil
}

func (m *mockSurface) DrawTexture(tex any, pl pixbuf.Placement) error {
	m.draws = append(m.draws, drawCall{tex: tex.(*mockTexture), pl: pl})
	return nil
}

func (m *mockSurface) lastDraw() drawCall { return m.draws[len(m.draws)-1] }

func newBuffer(t *testing.T, opts ...pixbuf.Option) *pixbuf.PixelBuffer {
	t.Helper()
	size := pixbuf.BufferSize{Size: pixbuf.Ext(4, 2), PixelSize: pixbuf.Ext(1, 1)}
	buf, err := pixbuf.Setup(software.New(), size, pixbuf.FillWindow(pixbuf.AspectKeep).WithGridResize(1), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = buf.Close() })
	return buf
}

func TestSpriteFollowsBuffer(t *testing.T) {
	s := &Sprite{}
	buf := newBuffer(t, pixbuf.WithGeometry(s))
	if s.Updates() != 1 {
		t.Fatalf("Updates() after Setup = %d, want 1", s.Updates())
	}

	if err := buf.Resize(pixbuf.Ext(9, 5)); err != nil {
		t.Fatal(err)
	}
	if s.Placement() != buf.Placement() {
		t.Errorf("Placement() = %+v, buffer %+v", s.Placement(), buf.Placement())
	}
	if got := s.Bounds(); got != image.Rect(0, 0, 9, 5) {
		t.Errorf("Bounds() = %v, want (0,0)-(9,5)", got)
	}

	s.SetPlacement(pixbuf.Placement{X: 0.5, Y: 1.25, Width: 2, Height: 2})
	if got := s.Bounds(); got != image.Rect(0, 1, 3, 4) {
		t.Errorf("Bounds() = %v, want (0,1)-(3,4)", got)
	}
}

func TestPresenterUploadsAndDraws(t *testing.T) {
	buf := newBuffer(t)
	p := NewPresenter(buf)
	defer p.Close()
	s := &mockSurface{}

	_ = buf.Edit(func(f *pixbuf.Frame) error { return f.Fill(pixbuf.Red) })
	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}
	if len(s.textures) != 1 {
		t.Fatalf("textures = %d, want 1", len(s.textures))
	}
	tex := s.textures[0]
	if tex.width != 4 || tex.height != 2 {
		t.Errorf("texture %dx%d, want 4x2", tex.width, tex.height)
	}
	if !bytes.Equal(tex.data, bytes.Repeat([]byte{255, 0, 0, 255}, 8)) {
		t.Errorf("texture data = %v", tex.data)
	}
	if s.lastDraw().pl != buf.Placement() {
		t.Errorf("drawn at %+v, want %+v", s.lastDraw().pl, buf.Placement())
	}

	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}
	if len(s.textures) != 1 || tex.updated != 1 {
		t.Errorf("second present: textures %d updates %d, want 1 and 1", len(s.textures), tex.updated)
	}
	if p.Presents() != 2 || p.Texture() != any(tex) {
		t.Errorf("Presents() = %d, Texture() = %v", p.Presents(), p.Texture())
	}
}

func TestPresenterRecreatesOnResize(t *testing.T) {
	buf := newBuffer(t)
	p := NewPresenter(buf)
	defer p.Close()
	s := &mockSurface{}

	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}
	old := s.textures[0]

	if err := buf.Resize(pixbuf.Ext(8, 8)); err != nil {
		t.Fatal(err)
	}
	// Creation fails: the old texture must survive.
	s.failNext = true
	if err := p.Present(s); err == nil {
		t.Fatal("Present() error = nil, want creation failure")
	}
	if old.destroyed {
		t.Error("old texture destroyed before its replacement existed")
	}

	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}
	if len(s.textures) != 2 {
		t.Fatalf("textures = %d, want 2", len(s.textures))
	}
	if !old.destroyed {
		t.Error("old texture not destroyed after replacement")
	}
	if nt := s.textures[1]; nt.width != 8 || nt.height != 8 {
		t.Errorf("new texture %dx%d, want 8x8", nt.width, nt.height)
	}

	// Pixel-size-only changes keep the texture.
	if err := buf.Resize(pixbuf.Ext(8, 8)); err != nil {
		t.Fatal(err)
	}
	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}
	if len(s.textures) != 2 {
		t.Errorf("textures = %d, want 2", len(s.textures))
	}
}

func TestPresenterClose(t *testing.T) {
	buf := newBuffer(t)
	p := NewPresenter(buf)
	s := &mockSurface{}
	if err := p.Present(s); err != nil {
		t.Fatal(err)
	}

	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !s.textures[0].destroyed {
		t.Error("Close() did not destroy the host texture")
	}
	if err := p.Present(s); !errors.Is(err, ErrPresenterClosed) {
		t.Errorf("Present() after Close error = %v, want ErrPresenterClosed", err)
	}
	if buf.Closed() {
		t.Error("Close() closed the buffer")
	}
}

func TestPresenterClosedBuffer(t *testing.T) {
	buf := newBuffer(t)
	p := NewPresenter(buf)
	defer p.Close()
	_ = buf.Close()
	if err := p.Present(&mockSurface{}); !errors.Is(err, pixbuf.ErrBufferClosed) {
		t.Errorf("Present() error = %v, want ErrBufferClosed", err)
	}
}

type mockOverlay struct {
	tex           gpucore.TextureID
	width, height float32
	shown         int
}

func (m *mockOverlay) ShowTexture(tex gpucore.TextureID, width, height float32) {
	m.tex, m.width, m.height = tex, width, height
	m.shown++
}

func TestShowIn(t *testing.T) {
	size := pixbuf.BufferSize{Size: pixbuf.Ext(16, 8), PixelSize: pixbuf.Ext(3, 2)}
	buf, err := pixbuf.Setup(software.New(), size, pixbuf.FillArea("canvas", pixbuf.AspectKeep))
	if err != nil {
		t.Fatal(err)
	}
	o := &mockOverlay{}

	if err := ShowIn(o, buf); err != nil {
		t.Fatal(err)
	}
	if o.tex != buf.Front() || o.width != 48 || o.height != 16 {
		t.Errorf("ShowTexture(%d, %v, %v), want (%d, 48, 16)", o.tex, o.width, o.height, buf.Front())
	}

	_ = buf.Close()
	if err := ShowIn(o, buf); !errors.Is(err, pixbuf.ErrBufferClosed) {
		t.Errorf("ShowIn(closed) error = %v, want ErrBufferClosed", err)
	}
	if o.shown != 1 {
		t.Errorf("shown %d times, want 1", o.shown)
	}
}
