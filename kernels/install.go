// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kernels

import "github.com/gogpu/pixbuf/backend/software"

// Install registers the Go twins of every kernel in this package on a.
func Install(a *software.Adapter) {
	a.RegisterKernel(lifeEntry, lifeStep)
	a.RegisterKernel(mandelbrotEntry, mandelbrot)
}
