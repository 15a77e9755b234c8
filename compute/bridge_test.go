// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package compute

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/backend/software"
	"github.com/gogpu/pixbuf/gpucore"
)

var stubSPIRV = []uint32{0x07230203, 0x00010000}

// increment reads binding 0 and writes binding 1 with red raised by one.
func increment(inv *software.Invocation) error {
	in, err := inv.Texture(0, 0)
	if err != nil {
		return err
	}
	out, err := inv.Texture(0, 1)
	if err != nil {
		return err
	}
	copy(out.Data, in.Data)
	for i := 0; i < len(out.Data); i += 4 {
		out.Data[i]++
	}
	return nil
}

// stamp writes the first uniform byte into the red channel in place.
func stamp(inv *software.Invocation) error {
	tex, err := inv.Texture(0, 0)
	if err != nil {
		return err
	}
	u, err := inv.Uniform(1, 0)
	if err != nil {
		return err
	}
	for i := 0; i < len(tex.Data); i += 4 {
		tex.Data[i] = u[0]
	}
	return nil
}

type byteParams struct{ v byte }

func (p *byteParams) UniformBytes() []byte { return []byte{p.v, 0, 0, 0} }

func newAdapter(opts ...software.Option) *software.Adapter {
	a := software.New(opts...)
	a.RegisterKernel("increment", increment)
	a.RegisterKernel("stamp", stamp)
	return a
}

func incrementKernel() Kernel {
	return Kernel{Label: "increment", SPIRV: stubSPIRV, EntryPoint: "increment"}
}

func newBuffer(t *testing.T, a *software.Adapter, opts ...pixbuf.Option) *pixbuf.PixelBuffer {
	t.Helper()
	size := pixbuf.BufferSize{Size: pixbuf.Ext(4, 4), PixelSize: pixbuf.Ext(1, 1)}
	buf, err := pixbuf.Setup(a, size, pixbuf.FillWindow(pixbuf.AspectNone).WithGridResize(1), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = buf.Close() })
	return buf
}

func newAttached(t *testing.T, a *software.Adapter, k Kernel, buf *pixbuf.PixelBuffer) *Bridge {
	t.Helper()
	br, err := New(a, k)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = br.Close() })
	if err := br.Attach(buf); err != nil {
		t.Fatal(err)
	}
	return br
}

func red(t *testing.T, buf *pixbuf.PixelBuffer) byte {
	t.Helper()
	pix, err := buf.DisplayPixels()
	if err != nil {
		t.Fatal(err)
	}
	return pix[0]
}

func tick(t *testing.T, buf *pixbuf.PixelBuffer, br *Bridge) {
	t.Helper()
	if err := buf.OnTick(); err != nil {
		t.Fatal(err)
	}
	if err := br.Tick(); err != nil {
		t.Fatal(err)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name    string
		adapter *software.Adapter
		kernel  Kernel
		wantErr error
	}{
		{"no compute", newAdapter(software.WithoutCompute()), incrementKernel(), pixbuf.ErrIncompatibleBinding},
		{"workgroup too large", newAdapter(), Kernel{SPIRV: stubSPIRV, EntryPoint: "increment", WorkgroupSize: [2]uint32{1024, 1}}, pixbuf.ErrIncompatibleBinding},
		{"unknown entry point", newAdapter(), Kernel{SPIRV: stubSPIRV, EntryPoint: "missing"}, software.ErrNoKernel},
		{"not spirv", newAdapter(), Kernel{SPIRV: []uint32{1, 2}, EntryPoint: "increment"}, nil},
		{"no shader", newAdapter(), Kernel{EntryPoint: "increment"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br, err := New(tt.adapter, tt.kernel)
			if err == nil {
				br.Close()
				t.Fatal("New() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestKernelDefaults(t *testing.T) {
	br, err := New(newAdapter(), Kernel{SPIRV: stubSPIRV, EntryPoint: "increment"})
	if err != nil {
		t.Fatal(err)
	}
	defer br.Close()

	k := br.Kernel()
	if k.Label != "kernel" || k.WorkgroupSize != DefaultWorkgroupSize || k.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("defaults = %+v", k)
	}
	if br.State() != StateIdle || !br.Running() || br.Attached() {
		t.Errorf("new bridge: state %v running %v attached %v", br.State(), br.Running(), br.Attached())
	}
}

func TestPingPongAlternates(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	if !buf.DoubleBuffered() {
		t.Fatal("Attach did not enable double buffering")
	}

	seen := map[gpucore.TextureID]bool{}
	var fronts []gpucore.TextureID
	for range 3 {
		tick(t, buf, br)
		fronts = append(fronts, buf.Front())
		seen[buf.Front()] = true
	}
	if err := a.Err(); err != nil {
		t.Fatal(err)
	}

	if len(seen) != 2 {
		t.Errorf("displayed %d distinct textures, want 2", len(seen))
	}
	if fronts[0] == fronts[1] || fronts[1] == fronts[2] || fronts[0] != fronts[2] {
		t.Errorf("fronts = %v, want alternating", fronts)
	}
	if got := a.LiveTextures(); got != 2 {
		t.Errorf("LiveTextures() = %d, want 2", got)
	}
	if got := red(t, buf); got != 3 {
		t.Errorf("red = %d after 3 dispatches, want 3", got)
	}
	if br.Dispatches() != 3 {
		t.Errorf("Dispatches() = %d, want 3", br.Dispatches())
	}
}

func TestHostEditsReachKernel(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	f, err := buf.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Fill(pixbuf.Pixel{R: 100, A: 255}); err != nil {
		t.Fatal(err)
	}
	tick(t, buf, br)
	if got := red(t, buf); got != 101 {
		t.Errorf("red = %d, want 101", got)
	}
}

func TestLatency(t *testing.T) {
	a := newAdapter(software.WithLatency(2))
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)
	front := buf.Front()

	tick(t, buf, br)
	if br.State() != StateDispatching {
		t.Fatalf("state after first tick = %v, want Dispatching", br.State())
	}
	if buf.Front() != front {
		t.Error("front swapped before the dispatch completed")
	}

	tick(t, buf, br)
	if br.Dispatches() != 2 {
		t.Errorf("Dispatches() = %d, want 2", br.Dispatches())
	}
	if buf.Front() == front {
		t.Error("front not swapped after completion")
	}

	if err := br.Wait(); err != nil {
		t.Fatal(err)
	}
	if br.State() != StateIdle {
		t.Errorf("state after Wait = %v, want Idle", br.State())
	}
	if got := red(t, buf); got != 2 {
		t.Errorf("red = %d, want 2", got)
	}
}

func TestPause(t *testing.T) {
	a := newAdapter(software.WithLatency(2))
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	tick(t, buf, br)
	br.Pause()
	tick(t, buf, br)
	tick(t, buf, br)

	if br.Dispatches() != 1 {
		t.Errorf("Dispatches() = %d, want 1", br.Dispatches())
	}
	if br.State() != StateIdle {
		t.Errorf("state = %v, want Idle", br.State())
	}
	if got := red(t, buf); got != 1 {
		t.Errorf("in-flight dispatch not published, red = %d", got)
	}

	br.Start()
	tick(t, buf, br)
	if br.Dispatches() != 2 {
		t.Errorf("Dispatches() after Start = %d, want 2", br.Dispatches())
	}
}

func TestIncompatibleBinding(t *testing.T) {
	a := newAdapter()

	t.Run("missing storage usage", func(t *testing.T) {
		buf := newBuffer(t, a, pixbuf.WithUsage(gputypes.TextureUsageTextureBinding|gputypes.TextureUsageCopyDst))
		br, err := New(a, incrementKernel())
		if err != nil {
			t.Fatal(err)
		}
		defer br.Close()

		if err := br.Attach(buf); !errors.Is(err, pixbuf.ErrIncompatibleBinding) {
			t.Fatalf("Attach() error = %v, want ErrIncompatibleBinding", err)
		}
		if br.Attached() || buf.DoubleBuffered() {
			t.Error("failed Attach left state behind")
		}

		// The buffer keeps displaying host edits unmodified.
		_ = buf.Edit(func(f *pixbuf.Frame) error { return f.Fill(pixbuf.Pixel{R: 9, A: 255}) })
		tick(t, buf, br)
		if got := red(t, buf); got != 9 {
			t.Errorf("red = %d, want 9", got)
		}
		if br.Dispatches() != 0 {
			t.Errorf("Dispatches() = %d, want 0", br.Dispatches())
		}
	})

	t.Run("other device", func(t *testing.T) {
		buf := newBuffer(t, newAdapter())
		br, err := New(a, incrementKernel())
		if err != nil {
			t.Fatal(err)
		}
		defer br.Close()
		if err := br.Attach(buf); !errors.Is(err, pixbuf.ErrIncompatibleBinding) {
			t.Errorf("Attach() error = %v, want ErrIncompatibleBinding", err)
		}
	})

	t.Run("format", func(t *testing.T) {
		buf := newBuffer(t, a)
		k := incrementKernel()
		k.Format = gputypes.TextureFormatBGRA8Unorm
		br, err := New(a, k)
		if err != nil {
			t.Fatal(err)
		}
		defer br.Close()
		if err := br.Attach(buf); !errors.Is(err, pixbuf.ErrIncompatibleBinding) {
			t.Errorf("Attach() error = %v, want ErrIncompatibleBinding", err)
		}
	})
}

func TestResizeDuringDispatch(t *testing.T) {
	a := newAdapter(software.WithLatency(2))
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	tick(t, buf, br)
	if br.State() != StateDispatching {
		t.Fatalf("state = %v, want Dispatching", br.State())
	}

	if err := buf.Resize(pixbuf.Ext(6, 5)); err != nil {
		t.Fatal(err)
	}
	// The in-flight dispatch still references the old pair.
	if got := a.LiveTextures(); got != 4 {
		t.Errorf("LiveTextures() during dispatch = %d, want 4", got)
	}
	front := buf.Front()

	tick(t, buf, br)
	if err := a.Err(); err != nil {
		t.Fatalf("kernel error: %v", err)
	}
	if got := a.LiveTextures(); got != 2 {
		t.Errorf("LiveTextures() after completion = %d, want 2", got)
	}
	// Output for the old generation is dropped; the new dispatch is in flight.
	if buf.Front() != front {
		t.Error("stale dispatch swapped the new textures")
	}
	if got := red(t, buf); got != 0 {
		t.Errorf("red = %d, want 0", got)
	}

	if err := br.Wait(); err != nil {
		t.Fatal(err)
	}
	if got := red(t, buf); got != 1 {
		t.Errorf("red after rebound dispatch = %d, want 1", got)
	}
	if buf.Size().Size != pixbuf.Ext(6, 5) {
		t.Errorf("grid = %v", buf.Size().Size)
	}
}

func TestParamsUploaded(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	params := &byteParams{v: 42}
	br := newAttached(t, a, Kernel{Label: "stamp", SPIRV: stubSPIRV, EntryPoint: "stamp", InPlace: true, Params: params}, buf)

	if buf.DoubleBuffered() {
		t.Error("in-place kernel enabled double buffering")
	}
	tick(t, buf, br)
	if got := red(t, buf); got != 42 {
		t.Errorf("red = %d, want 42", got)
	}

	params.v = 7
	tick(t, buf, br)
	if got := red(t, buf); got != 7 {
		t.Errorf("red = %d, want 7", got)
	}
	if got := a.LiveTextures(); got != 1 {
		t.Errorf("LiveTextures() = %d, want 1", got)
	}
}

func TestDetach(t *testing.T) {
	a := newAdapter(software.WithLatency(5))
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	tick(t, buf, br)
	br.Detach()

	if br.Attached() || br.State() != StateIdle {
		t.Errorf("after Detach: attached %v state %v", br.Attached(), br.State())
	}
	if buf.DoubleBuffered() || a.LiveTextures() != 1 {
		t.Errorf("after Detach: double %v live %d", buf.DoubleBuffered(), a.LiveTextures())
	}
	if got := red(t, buf); got != 1 {
		t.Errorf("in-flight result lost on Detach, red = %d", got)
	}

	// Resizes no longer reach the bridge.
	if err := buf.Resize(pixbuf.Ext(8, 8)); err != nil {
		t.Fatal(err)
	}
	if err := br.Tick(); err != nil {
		t.Fatal(err)
	}
	if br.Dispatches() != 1 {
		t.Errorf("detached bridge dispatched")
	}
	if err := br.Wait(); err == nil {
		t.Error("Wait() on detached bridge returned nil")
	}
}

func TestBufferClosedDuringDispatch(t *testing.T) {
	a := newAdapter(software.WithLatency(3))
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	tick(t, buf, br)
	if br.State() != StateDispatching {
		t.Fatalf("State() = %v, want Dispatching", br.State())
	}

	if err := buf.Close(); err != nil {
		t.Fatal(err)
	}
	if n := a.LiveTextures(); n != 2 {
		t.Errorf("LiveTextures() after Close with dispatch in flight = %d, want 2", n)
	}

	if err := br.Tick(); err != nil {
		t.Fatal(err)
	}
	if br.Attached() {
		t.Error("bridge still attached to closed buffer")
	}
	if err := a.Err(); err != nil {
		t.Errorf("adapter error after completion = %v", err)
	}
	if n := a.LiveTextures(); n != 0 {
		t.Errorf("LiveTextures() after completion = %d, want 0", n)
	}
}

func TestBufferClosedDetaches(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	if err := buf.Close(); err != nil {
		t.Fatal(err)
	}
	if err := br.Tick(); err != nil {
		t.Fatal(err)
	}
	if br.Attached() {
		t.Error("bridge still attached to closed buffer")
	}
	if err := br.Attach(buf); !errors.Is(err, pixbuf.ErrBufferClosed) {
		t.Errorf("Attach(closed) error = %v, want ErrBufferClosed", err)
	}
}

func TestClose(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	if err := br.Close(); err != nil {
		t.Fatal(err)
	}
	if err := br.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := br.Attach(buf); err == nil {
		t.Error("Attach() on closed bridge succeeded")
	}
	if err := br.Tick(); err != nil {
		t.Errorf("Tick() on closed bridge error = %v", err)
	}
}

func TestRunnerDrivesBridge(t *testing.T) {
	a := newAdapter()
	buf := newBuffer(t, a)
	br := newAttached(t, a, incrementKernel(), buf)

	r := pixbuf.NewRunner(buf, br)
	for range 4 {
		if err := r.OnTick(); err != nil {
			t.Fatal(err)
		}
	}
	if err := r.OnResize(pixbuf.Ext(3, 3)); err != nil {
		t.Fatal(err)
	}
	if err := r.OnTick(); err != nil {
		t.Fatal(err)
	}
	if err := a.Err(); err != nil {
		t.Fatal(err)
	}
	if br.Dispatches() != 5 {
		t.Errorf("Dispatches() = %d, want 5", br.Dispatches())
	}
}

func TestWorkgroups(t *testing.T) {
	tests := []struct {
		grid   pixbuf.Extent
		wg     [2]uint32
		wx, wy uint32
	}{
		{pixbuf.Ext(64, 64), [2]uint32{8, 8}, 8, 8},
		{pixbuf.Ext(65, 1), [2]uint32{8, 8}, 9, 1},
		{pixbuf.Ext(1, 1), [2]uint32{16, 16}, 1, 1},
		{pixbuf.Ext(0, 10), [2]uint32{8, 8}, 0, 0},
		{pixbuf.Ext(10, 10), [2]uint32{0, 8}, 0, 0},
	}
	for _, tt := range tests {
		wx, wy := Workgroups(tt.grid, tt.wg)
		if wx != tt.wx || wy != tt.wy {
			t.Errorf("Workgroups(%v, %v) = %d, %d, want %d, %d", tt.grid, tt.wg, wx, wy, tt.wx, tt.wy)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{StateIdle, "Idle"},
		{StateDispatching, "Dispatching"},
		{StateReady, "Ready"},
		{State(9), "Unknown(9)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
