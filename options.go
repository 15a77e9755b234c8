// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import "github.com/gogpu/gputypes"

// DefaultTextureUsage is the usage set of buffer textures: sampled by the
// renderer, written from the CPU, read back, and bindable as a compute
// storage texture.
var DefaultTextureUsage = gputypes.TextureUsageTextureBinding |
	gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageCopySrc |
	gputypes.TextureUsageStorageBinding

// Option configures a PixelBuffer during Setup.
//
// Example:
//
//	buf, err := pixbuf.Setup(storage, size, fill,
//	    pixbuf.WithLabel("life"),
//	    pixbuf.WithClearColor(pixbuf.Black),
//	)
type Option func(*options)

type options struct {
	label    string
	clear    Pixel
	usage    gputypes.TextureUsage
	geometry Geometry
	workers  int

	viewport    Extent
	viewportSet bool
}

func defaultOptions() options {
	return options{
		label: "pixbuf",
		usage: DefaultTextureUsage,
	}
}

// WithLabel sets the debug label of the buffer's textures.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithClearColor sets the color of freshly allocated textures, at setup and
// after every grid resize. The default is Transparent.
func WithClearColor(p Pixel) Option {
	return func(o *options) {
		o.clear = p
	}
}

// WithUsage overrides DefaultTextureUsage. Dropping
// TextureUsageStorageBinding makes the buffer unusable by compute kernels.
func WithUsage(u gputypes.TextureUsage) Option {
	return func(o *options) {
		o.usage = u
	}
}

// WithGeometry attaches the displayed geometry. It receives the placement
// at setup and after every change.
func WithGeometry(g Geometry) Option {
	return func(o *options) {
		o.geometry = g
	}
}

// WithWorkers gives the buffer its own pool of n workers for
// Frame.PerPixelPar instead of the shared GOMAXPROCS pool.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithViewport applies an initial viewport during Setup, so the first
// texture is already sized by the fill policy. A degenerate viewport makes
// Setup fail with ErrInvalidSize.
func WithViewport(viewport Extent) Option {
	return func(o *options) {
		o.viewport = viewport
		o.viewportSet = true
	}
}
