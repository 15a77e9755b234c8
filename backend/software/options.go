// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

// Option configures an Adapter.
type Option func(*Adapter)

// WithLatency makes every submission complete only after polls calls to
// Poll, modelling a device that finishes work a few frames later.
func WithLatency(polls int) Option {
	return func(a *Adapter) {
		a.latency = max(polls, 0)
	}
}

// WithMaxTextureDimension limits texture width and height (default 8192).
func WithMaxTextureDimension(n int) Option {
	return func(a *Adapter) {
		a.maxDim = n
	}
}

// WithMemoryLimit caps the total bytes of live textures. Zero means no
// limit.
func WithMemoryLimit(bytes int) Option {
	return func(a *Adapter) {
		a.memoryLimit = bytes
	}
}

// WithoutCompute makes the adapter report no compute support, as a
// storage-only host would.
func WithoutCompute() Option {
	return func(a *Adapter) {
		a.compute = false
	}
}
