// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/pixbuf/backend"
	"github.com/gogpu/pixbuf/gpucore"
)

// Name is the registry name of the wgpu backend.
const Name = "wgpu"

func init() {
	backend.Register(Name, factory)
}

// factory opens a hardware device. It fails with ErrNoGPU when none is
// available so backend.OpenDefault moves on to the next backend.
func factory() (gpucore.GPUAdapter, error) {
	a, err := Open()
	if err != nil {
		return nil, err
	}
	return a, nil
}
