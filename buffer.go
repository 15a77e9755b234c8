// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixbuf/gpucore"
	"github.com/gogpu/pixbuf/internal/parallel"
)

// ErrNilStorage is returned by Setup when no texture storage is given.
var ErrNilStorage = errors.New("pixbuf: nil texture storage")

// Geometry is the displayed quad of a buffer. The buffer pushes a new
// placement whenever the sizing policy moves or rescales it.
type Geometry interface {
	SetPlacement(Placement)
}

// ResizeEvent is delivered to OnResized listeners after a buffer's texture
// was reallocated for a new grid size.
type ResizeEvent struct {
	Old, New BufferSize
	Layout   Layout

	// Generation is the buffer generation after the reallocation.
	Generation uint64
}

// PixelBuffer is a GPU texture of RGBA8 cells with a CPU shadow copy.
//
// Host code edits the shadow through Frame; OnTick uploads the edits.
// Resize (or OnResize / OnAreaResize) applies the fill policy: a new grid
// size reallocates the texture and emits a ResizeEvent, a new pixel size
// only moves the geometry.
//
// PixelBuffer is NOT safe for concurrent use. It is driven from the host's
// tick loop.
type PixelBuffer struct {
	storage gpucore.TextureStorage
	opts    options
	pool    *parallel.WorkerPool

	config    BufferSize // as requested; grid-resizing fills derive from it
	size      BufferSize // effective
	fill      Fill
	viewport  Extent
	placement Placement

	// textures[front] is displayed and receives uploads. The other slot is
	// only allocated in double-buffered mode.
	textures [2]gpucore.TextureID
	front    int
	double   bool

	shadow     []byte
	dirty      bool // shadow newer than the front texture
	gpuWritten bool // front texture newer than the shadow

	epoch      uint64
	generation uint64
	pins       int
	retired    []gpucore.TextureID

	listeners []*resizeListener
	closed    bool
}

type resizeListener struct {
	fn func(ResizeEvent)
}

// Setup allocates a pixel buffer's texture in storage.
//
// It returns ErrInvalidSize for an invalid size or fill, and ErrAllocation
// (wrapping the storage error) when the texture cannot be created.
func Setup(storage gpucore.TextureStorage, size BufferSize, fill Fill, opts ...Option) (*PixelBuffer, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}
	if err := fill.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &PixelBuffer{
		storage: storage,
		opts:    o,
		config:  size,
		fill:    fill,
	}

	layout := fixedLayout(size)
	if o.viewportSet {
		l, err := ComputeLayout(size, o.viewport, fill)
		if err != nil {
			return nil, err
		}
		layout = l
		b.viewport = o.viewport
	}

	if err := b.reallocate(layout.Grid); err != nil {
		return nil, err
	}
	b.size = BufferSize{Size: layout.Grid, PixelSize: layout.PixelSize}
	b.setPlacement(layout.Placement, true)

	if o.workers > 0 {
		b.pool = parallel.NewWorkerPool(o.workers)
	}

	Logger().Info("pixbuf: buffer created",
		"label", o.label, "grid", b.size.Size, "pixelSize", b.size.PixelSize, "fill", fill.Kind)
	return b, nil
}

// MustSetup is like Setup but panics on error.
func MustSetup(storage gpucore.TextureStorage, size BufferSize, fill Fill, opts ...Option) *PixelBuffer {
	b, err := Setup(storage, size, fill, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

func fixedLayout(size BufferSize) Layout {
	return Layout{
		Grid:      size.Size,
		PixelSize: size.PixelSize,
		Placement: Placement{
			Width:  float64(size.Size.Width * size.PixelSize.Width),
			Height: float64(size.Size.Height * size.PixelSize.Height),
			ScaleX: float64(size.PixelSize.Width),
			ScaleY: float64(size.PixelSize.Height),
		},
	}
}

func (b *PixelBuffer) textureDesc(grid Extent) gpucore.TextureDesc {
	return gpucore.TextureDesc{
		Label:  b.opts.label,
		Width:  grid.Width,
		Height: grid.Height,
		Format: gputypes.TextureFormatRGBA8Unorm,
		Usage:  b.opts.usage,
	}
}

func (b *PixelBuffer) allocate(grid Extent) (gpucore.TextureID, error) {
	desc := b.textureDesc(grid)
	id, err := b.storage.CreateTexture(&desc)
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("%w: %s %v: %w", ErrAllocation, b.opts.label, grid, err)
	}
	Logger().Debug("pixbuf: texture allocated", "label", b.opts.label, "id", id, "size", grid)
	return id, nil
}

// reallocate replaces the texture(s) with fresh ones of the given grid
// size. On error nothing changes.
func (b *PixelBuffer) reallocate(grid Extent) error {
	front, err := b.allocate(grid)
	if err != nil {
		return err
	}
	back := gpucore.TextureID(gpucore.InvalidID)
	if b.double {
		if back, err = b.allocate(grid); err != nil {
			b.storage.DestroyTexture(front)
			return err
		}
	}

	for _, id := range b.textures {
		if id != gpucore.InvalidID {
			b.retired = append(b.retired, id)
		}
	}
	b.textures = [2]gpucore.TextureID{front, back}
	b.front = 0

	b.shadow = make([]byte, grid.Width*grid.Height*BytesPerPixel)
	b.gpuWritten = false
	b.dirty = false
	if b.opts.clear != Transparent {
		f := &Frame{width: grid.Width, height: grid.Height, pix: b.shadow}
		_ = f.Fill(b.opts.clear)
		b.dirty = true
	}
	b.generation++
	// Frames over the old shadow must not write into a detached slice.
	b.epoch++
	b.releaseRetired()
	return nil
}

func (b *PixelBuffer) releaseRetired() {
	if b.pins > 0 || len(b.retired) == 0 {
		return
	}
	for _, id := range b.retired {
		b.storage.DestroyTexture(id)
		Logger().Debug("pixbuf: texture released", "label", b.opts.label, "id", id)
	}
	b.retired = b.retired[:0]
}

func (b *PixelBuffer) setPlacement(p Placement, force bool) {
	if !force && p == b.placement {
		return
	}
	b.placement = p
	if b.opts.geometry != nil {
		b.opts.geometry.SetPlacement(p)
	}
}

// Frame returns a view over the buffer's pixels, valid until the next
// OnTick. Taking a frame marks the buffer dirty, so the shadow is uploaded
// on the next Sync.
//
// If a compute kernel wrote the texture since the last upload, the shadow
// is refreshed from the texture first. Edits made while a dispatch is in
// flight may be overwritten by its result.
func (b *PixelBuffer) Frame() (*Frame, error) {
	if b.closed {
		return nil, ErrBufferClosed
	}
	if err := b.readback(); err != nil {
		return nil, err
	}
	b.dirty = true
	return &Frame{
		width:  b.size.Size.Width,
		height: b.size.Size.Height,
		pix:    b.shadow,
		owner:  b,
		epoch:  b.epoch,
		pool:   b.pool,
	}, nil
}

// Edit calls fn with the buffer's frame.
func (b *PixelBuffer) Edit(fn func(*Frame) error) error {
	f, err := b.Frame()
	if err != nil {
		return err
	}
	return fn(f)
}

func (b *PixelBuffer) readback() error {
	if !b.gpuWritten {
		return nil
	}
	data, err := b.storage.ReadTexture(b.textures[b.front])
	if err != nil {
		return fmt.Errorf("pixbuf: read back %s: %w", b.opts.label, err)
	}
	if len(data) != len(b.shadow) {
		return fmt.Errorf("%w: texture holds %d bytes, shadow %d", ErrSizeMismatch, len(data), len(b.shadow))
	}
	copy(b.shadow, data)
	b.gpuWritten = false
	return nil
}

// Sync uploads pending frame edits to the front texture. Edits are visible
// to the GPU once Sync returns.
func (b *PixelBuffer) Sync() error {
	if b.closed {
		return ErrBufferClosed
	}
	if !b.dirty {
		return nil
	}
	if err := b.storage.WriteTexture(b.textures[b.front], b.shadow); err != nil {
		return fmt.Errorf("pixbuf: upload %s: %w", b.opts.label, err)
	}
	b.dirty = false
	return nil
}

// OnTick ends the current tick: retired textures are released when no
// dispatch pins them, pending edits are uploaded and outstanding frames
// expire.
func (b *PixelBuffer) OnTick() error {
	if b.closed {
		return ErrBufferClosed
	}
	b.releaseRetired()
	err := b.Sync()
	b.epoch++
	return err
}

// Resize applies the fill policy for a new viewport. A degenerate viewport
// returns ErrInvalidSize and leaves the buffer untouched. Resizing to the
// current viewport is a no-op.
func (b *PixelBuffer) Resize(viewport Extent) error {
	if b.closed {
		return ErrBufferClosed
	}
	layout, err := ComputeLayout(b.config, viewport, b.fill)
	if err != nil {
		return err
	}
	if err := b.apply(layout); err != nil {
		return err
	}
	b.viewport = viewport
	return nil
}

// OnResize is the host's window-resize callback. Buffers filling a UI area
// ignore it.
func (b *PixelBuffer) OnResize(viewport Extent) error {
	if b.fill.Kind == FillKindArea {
		return nil
	}
	return b.Resize(viewport)
}

// OnAreaResize is the UI overlay's callback for the size of region area.
// Only a FillKindArea buffer for that region reacts.
func (b *PixelBuffer) OnAreaResize(area string, size Extent) error {
	if b.fill.Kind != FillKindArea || b.fill.Area != area {
		return nil
	}
	return b.Resize(size)
}

// SetSize changes the requested grid and pixel size and reconciles against
// the last viewport.
func (b *PixelBuffer) SetSize(size BufferSize) error {
	if b.closed {
		return ErrBufferClosed
	}
	if err := size.Validate(); err != nil {
		return err
	}
	layout, err := b.layoutFor(size, b.fill)
	if err != nil {
		return err
	}
	if err := b.apply(layout); err != nil {
		return err
	}
	b.config = size
	return nil
}

// SetFill changes the sizing policy and reconciles against the last
// viewport.
func (b *PixelBuffer) SetFill(fill Fill) error {
	if b.closed {
		return ErrBufferClosed
	}
	if err := fill.Validate(); err != nil {
		return err
	}
	layout, err := b.layoutFor(b.config, fill)
	if err != nil {
		return err
	}
	if err := b.apply(layout); err != nil {
		return err
	}
	b.fill = fill
	return nil
}

func (b *PixelBuffer) layoutFor(size BufferSize, fill Fill) (Layout, error) {
	if b.viewport.Empty() {
		return fixedLayout(size), nil
	}
	return ComputeLayout(size, b.viewport, fill)
}

func (b *PixelBuffer) apply(layout Layout) error {
	old := b.size
	next := BufferSize{Size: layout.Grid, PixelSize: layout.PixelSize}

	reallocated := false
	if next.Size != old.Size {
		if err := b.reallocate(next.Size); err != nil {
			return err
		}
		reallocated = true
	}
	b.size = next
	b.setPlacement(layout.Placement, false)

	if !reallocated {
		return nil
	}

	Logger().Info("pixbuf: grid resized",
		"label", b.opts.label, "from", old.Size, "to", next.Size, "generation", b.generation)
	ev := ResizeEvent{Old: old, New: next, Layout: layout, Generation: b.generation}
	// Listeners may unsubscribe while being notified.
	for _, l := range slices.Clone(b.listeners) {
		l.fn(ev)
	}
	return nil
}

// OnResized registers fn to be called after every texture reallocation.
// The returned function unregisters it.
func (b *PixelBuffer) OnResized(fn func(ResizeEvent)) (cancel func()) {
	l := &resizeListener{fn: fn}
	b.listeners = append(b.listeners, l)
	return func() {
		b.listeners = slices.DeleteFunc(b.listeners, func(x *resizeListener) bool { return x == l })
	}
}

// EnableDoubleBuffer allocates a second texture of the same size for
// ping-pong rendering. It is a no-op when already enabled.
func (b *PixelBuffer) EnableDoubleBuffer() error {
	if b.closed {
		return ErrBufferClosed
	}
	if b.double {
		return nil
	}
	back, err := b.allocate(b.size.Size)
	if err != nil {
		return err
	}
	b.textures[1-b.front] = back
	b.double = true
	return nil
}

// DisableDoubleBuffer releases the back texture, keeping the front one.
func (b *PixelBuffer) DisableDoubleBuffer() {
	if !b.double || b.closed {
		return
	}
	back := &b.textures[1-b.front]
	b.retired = append(b.retired, *back)
	*back = gpucore.InvalidID
	b.double = false
	b.releaseRetired()
}

// DoubleBuffered reports whether a back texture is allocated.
func (b *PixelBuffer) DoubleBuffered() bool { return b.double }

// Front returns the displayed texture.
func (b *PixelBuffer) Front() gpucore.TextureID { return b.textures[b.front] }

// Back returns the back texture, or InvalidID when not double-buffered.
func (b *PixelBuffer) Back() gpucore.TextureID {
	if !b.double {
		return gpucore.InvalidID
	}
	return b.textures[1-b.front]
}

// Swap exchanges front and back. It is a no-op unless double-buffered.
func (b *PixelBuffer) Swap() {
	if b.double {
		b.front = 1 - b.front
	}
}

// MarkGPUWritten records that the front texture was written on the GPU, so
// the next Frame or DisplayPixels reads it back.
func (b *PixelBuffer) MarkGPUWritten() { b.gpuWritten = true }

// Pin keeps retired textures alive until the returned release function is
// called. Compute dispatches pin the buffer while in flight. The last
// release frees the textures retired in the meantime.
func (b *PixelBuffer) Pin() (release func()) {
	b.pins++
	return sync.OnceFunc(func() {
		b.pins--
		b.releaseRetired()
	})
}

// Generation increases every time the texture is reallocated.
func (b *PixelBuffer) Generation() uint64 { return b.generation }

// DisplayPixels returns the bytes of the displayed texture. The slice is
// owned by the buffer and must not be modified.
func (b *PixelBuffer) DisplayPixels() ([]byte, error) {
	if b.closed {
		return nil, ErrBufferClosed
	}
	if err := b.readback(); err != nil {
		return nil, err
	}
	return b.shadow, nil
}

// Storage returns the texture storage the buffer allocates from.
func (b *PixelBuffer) Storage() gpucore.TextureStorage { return b.storage }

// TextureDesc returns the descriptor of the current textures.
func (b *PixelBuffer) TextureDesc() gpucore.TextureDesc { return b.textureDesc(b.size.Size) }

// Size returns the effective grid and pixel size.
func (b *PixelBuffer) Size() BufferSize { return b.size }

// Fill returns the sizing policy.
func (b *PixelBuffer) Fill() Fill { return b.fill }

// Viewport returns the last viewport applied, or the zero Extent.
func (b *PixelBuffer) Viewport() Extent { return b.viewport }

// Placement returns where the quad is displayed in the viewport.
func (b *PixelBuffer) Placement() Placement { return b.placement }

// Label returns the debug label.
func (b *PixelBuffer) Label() string { return b.opts.label }

// Closed reports whether Close has been called.
func (b *PixelBuffer) Closed() bool { return b.closed }

// Close releases every texture of the buffer. Textures pinned by a
// dispatch in flight are destroyed when the dispatch releases them. Close
// is idempotent.
func (b *PixelBuffer) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	// Textures an in-flight dispatch still uses outlive Close until the
	// last pin is released.
	for _, id := range b.textures {
		if id != gpucore.InvalidID {
			b.retired = append(b.retired, id)
		}
	}
	b.textures = [2]gpucore.TextureID{}
	b.releaseRetired()
	b.listeners = nil
	b.shadow = nil
	b.epoch++

	if b.pool != nil {
		b.pool.Close()
	}
	Logger().Info("pixbuf: buffer closed", "label", b.opts.label)
	return nil
}
