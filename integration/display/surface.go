// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package display

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pixbuf"
)

// Rendering errors.
var (
	// ErrInvalidDrawContext is returned when a host texture cannot be drawn
	// by the draw context.
	ErrInvalidDrawContext = errors.New("display: texture is not a gpucontext.Texture")

	// ErrInvalidRenderer is returned when the draw context has no texture
	// creator.
	ErrInvalidRenderer = errors.New("display: draw context has no gpucontext.TextureCreator")
)

// Surface is the host renderer a Presenter draws into. Textures are opaque
// values owned by the host.
type Surface interface {
	// CreateTexture creates a host texture holding RGBA8 data.
	CreateTexture(width, height int, data []byte) (any, error)

	// UpdateTexture replaces the contents of tex.
	UpdateTexture(tex any, data []byte) error

	// DrawTexture draws tex covering the placement's quad.
	DrawTexture(tex any, p pixbuf.Placement) error
}

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

func destroyTexture(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// scaledDrawer is implemented by draw contexts that can stretch a texture.
type scaledDrawer interface {
	DrawTextureScaled(tex gpucontext.Texture, x, y, width, height float32) error
}

// FromDrawer adapts a gpucontext.TextureDrawer, as returned by
// gogpu.Context.AsTextureDrawer, into a Surface.
//
// Draw contexts without DrawTextureScaled draw the texture at its natural
// size at the placement's origin.
func FromDrawer(dc gpucontext.TextureDrawer) Surface {
	return drawerSurface{dc: dc}
}

type drawerSurface struct {
	dc gpucontext.TextureDrawer
}

func (s drawerSurface) CreateTexture(width, height int, data []byte) (any, error) {
	creator := s.dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, fmt.Errorf("display: NewTextureFromRGBA failed: %w", err)
	}
	return tex, nil
}

func (s drawerSurface) UpdateTexture(tex any, data []byte) error {
	updater, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		return fmt.Errorf("%w: %T cannot be updated", ErrInvalidDrawContext, tex)
	}
	return updater.UpdateData(data)
}

func (s drawerSurface) DrawTexture(tex any, p pixbuf.Placement) error {
	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	if sd, ok := s.dc.(scaledDrawer); ok {
		return sd.DrawTextureScaled(gpuTex, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height))
	}
	return s.dc.DrawTexture(gpuTex, float32(p.X), float32(p.Y))
}
