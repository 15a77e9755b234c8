// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/pixbuf/gpucore"
)

// Backend names.
const (
	// Software is the in-memory adapter in backend/software.
	Software = "software"
)

var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// registered.
	ErrBackendNotAvailable = errors.New("backend: not available")
)

// Factory opens a GPU adapter.
type Factory func() (gpucore.GPUAdapter, error)
