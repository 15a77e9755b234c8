// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package snapshot saves and loads pixel buffer contents as images.
//
// Snapshots are written as lossless WebP or PNG. Decode also understands
// TGA, which has no magic number and is tried last.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"github.com/gogpu/pixbuf"
)

// ErrUnsupportedFormat is returned for file extensions and data that no
// codec handles.
var ErrUnsupportedFormat = errors.New("snapshot: unsupported image format")

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("snapshot: WebP encode: %w", err)
	}
	return nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("snapshot: PNG encode: %w", err)
	}
	return nil
}

// Decode reads a PNG or TGA image.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}

	var img image.Image
	switch {
	case bytes.HasPrefix(data, pngMagic):
		img, err = png.Decode(bytes.NewReader(data))
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return nil, fmt.Errorf("%w: WebP decoding", ErrUnsupportedFormat)
	default:
		img, err = tga.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	return img, nil
}

func encoderFor(path string) (func(io.Writer, image.Image) error, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".webp":
		return EncodeWebP, nil
	case ".png":
		return EncodePNG, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// SaveFrame writes f to path, choosing the encoder by extension (.webp or
// .png).
func SaveFrame(path string, f *pixbuf.Frame) error {
	encode, err := encoderFor(path)
	if err != nil {
		return err
	}
	img := f.Image()
	if img == nil {
		return pixbuf.ErrFrameExpired
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	if err := encode(out, img); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", path, err)
	}
	pixbuf.Logger().Info("snapshot: saved", "path", path, "size", f.Size())
	return nil
}

// SaveBuffer writes the displayed pixels of buf to path. Compute output is
// read back first.
func SaveBuffer(path string, buf *pixbuf.PixelBuffer) error {
	pixels, err := buf.DisplayPixels()
	if err != nil {
		return err
	}
	grid := buf.Size().Size
	f, err := pixbuf.NewFrame(bytes.Clone(pixels), grid.Width, grid.Height)
	if err != nil {
		return err
	}
	return SaveFrame(path, f)
}

// LoadInto decodes the image at path and scales it onto f.
func LoadInto(path string, f *pixbuf.Frame) error {
	in, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer in.Close()

	img, err := Decode(in)
	if err != nil {
		return fmt.Errorf("snapshot: %s: %w", path, err)
	}
	return f.DrawImage(img)
}
