// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"github.com/gogpu/pixbuf/backend"
	"github.com/gogpu/pixbuf/gpucore"
)

func init() {
	backend.Register(backend.Software, func() (gpucore.GPUAdapter, error) {
		return New(), nil
	})
}
