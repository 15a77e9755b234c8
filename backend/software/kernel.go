// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"fmt"

	"github.com/gogpu/pixbuf/gpucore"
)

// Kernel is the CPU implementation of a compute entry point. It is called
// once per dispatch and must cover the whole workgroup grid itself.
type Kernel func(inv *Invocation) error

// Texture is the in-memory storage of a texture.
type Texture struct {
	Desc gpucore.TextureDesc
	Data []byte
}

// Stride returns the byte length of one row.
func (t *Texture) Stride() int {
	return t.Desc.Width * gpucore.BytesPerTexel(t.Desc.Format)
}

// Texel returns the bytes of the texel at (x, y). The slice aliases the
// texture.
func (t *Texture) Texel(x, y int) []byte {
	n := gpucore.BytesPerTexel(t.Desc.Format)
	i := y*t.Stride() + x*n
	return t.Data[i : i+n : i+n]
}

type bindingKey struct {
	group, binding uint32
}

// Invocation gives a kernel access to the resources bound for one dispatch.
type Invocation struct {
	// Workgroups is the dispatched workgroup count.
	Workgroups [3]uint32

	textures map[bindingKey]*Texture
	uniforms map[bindingKey][]byte
}

// Texture returns the storage texture bound at (group, binding).
func (inv *Invocation) Texture(group, binding uint32) (*Texture, error) {
	t, ok := inv.textures[bindingKey{group, binding}]
	if !ok {
		return nil, fmt.Errorf("software: no texture at group %d binding %d", group, binding)
	}
	return t, nil
}

// Uniform returns the bytes of the buffer bound at (group, binding).
func (inv *Invocation) Uniform(group, binding uint32) ([]byte, error) {
	b, ok := inv.uniforms[bindingKey{group, binding}]
	if !ok {
		return nil, fmt.Errorf("software: no buffer at group %d binding %d", group, binding)
	}
	return b, nil
}
