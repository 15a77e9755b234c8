// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf/backend/software"
)

// TestSetupDefaultOptions tests the texture description without options.
func TestSetupDefaultOptions(t *testing.T) {
	b := newTestBuffer(t, DefaultBufferSize(), FillFixed())

	desc := b.TextureDesc()
	if desc.Label != "pixbuf" {
		t.Errorf("Label = %q, want %q", desc.Label, "pixbuf")
	}
	if desc.Usage != DefaultTextureUsage {
		t.Errorf("Usage = %v, want DefaultTextureUsage", desc.Usage)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", desc.Format)
	}

	// Transparent clear: the fresh shadow is all zero.
	pixels, err := b.DisplayPixels()
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range pixels {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
}

// TestWithUsage tests that the usage override reaches the allocated texture.
func TestWithUsage(t *testing.T) {
	a := software.New()
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	b, err := Setup(a, DefaultBufferSize(), FillFixed(), WithUsage(usage), WithLabel("sampled"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	desc, ok := a.TextureDesc(b.Front())
	if !ok {
		t.Fatal("front texture unknown to storage")
	}
	if desc.Usage != usage {
		t.Errorf("storage usage = %v, want %v", desc.Usage, usage)
	}
	if desc.Label != "sampled" {
		t.Errorf("storage label = %q, want %q", desc.Label, "sampled")
	}
}

// TestOptionsApplyInOrder tests that later options win.
func TestOptionsApplyInOrder(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []Option{WithLabel("a"), WithClearColor(Red), WithLabel("b"), WithWorkers(4)} {
		opt(&o)
	}
	if o.label != "b" {
		t.Errorf("label = %q, want %q", o.label, "b")
	}
	if o.clear != Red {
		t.Errorf("clear = %+v, want Red", o.clear)
	}
	if o.workers != 4 {
		t.Errorf("workers = %d, want 4", o.workers)
	}
}
