// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"errors"
	"fmt"
	"image"
)

// Errors returned by pixel buffers, frames and the sizing policy.
var (
	// ErrOutOfBounds is returned when a coordinate lies outside a frame.
	ErrOutOfBounds = errors.New("pixbuf: location out of bounds")

	// ErrSizeMismatch is returned when a bulk byte slice does not match
	// the frame's exact byte length.
	ErrSizeMismatch = errors.New("pixbuf: byte length does not match frame size")

	// ErrAllocation is returned when the texture storage cannot create
	// a buffer's texture.
	ErrAllocation = errors.New("pixbuf: texture allocation failed")

	// ErrInvalidSize is returned for zero or negative sizes and for
	// degenerate viewports.
	ErrInvalidSize = errors.New("pixbuf: invalid size")

	// ErrIncompatibleBinding is returned when a compute kernel cannot bind
	// a buffer's texture (format, usage or device mismatch).
	ErrIncompatibleBinding = errors.New("pixbuf: texture incompatible with kernel binding")

	// ErrFrameExpired is returned when a frame is used after the tick it
	// was obtained in.
	ErrFrameExpired = errors.New("pixbuf: frame used after its tick ended")

	// ErrBufferClosed is returned by operations on a closed buffer.
	ErrBufferClosed = errors.New("pixbuf: buffer is closed")
)

// BoundsError reports an out-of-range coordinate together with the frame
// size it was checked against. It matches ErrOutOfBounds with errors.Is.
type BoundsError struct {
	Point         image.Point
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pixbuf: location (%d, %d) out of bounds for %dx%d frame",
		e.Point.X, e.Point.Y, e.Width, e.Height)
}

// Is reports whether target is ErrOutOfBounds.
func (e *BoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
