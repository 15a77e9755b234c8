// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pixbuf

import "errors"

// Resizer receives the host's viewport changes.
type Resizer interface {
	OnResize(viewport Extent) error
}

// Ticker receives the host's per-frame tick.
type Ticker interface {
	OnTick() error
}

// Runner fans the host's callbacks out to buffers, compute bridges and
// presenters in registration order. It makes no assumption about the
// host's scheduler: the host calls OnResize and OnTick from its own loop.
//
// A failing participant does not stop the others. Its error is logged and
// returned joined with the other failures of the same call.
type Runner struct {
	participants []any
}

// NewRunner returns a runner for the given participants.
func NewRunner(participants ...any) *Runner {
	r := &Runner{}
	r.Add(participants...)
	return r
}

// Add appends participants. Values implementing neither Resizer nor Ticker
// are ignored.
func (r *Runner) Add(participants ...any) {
	for _, p := range participants {
		switch p.(type) {
		case Resizer, Ticker:
			r.participants = append(r.participants, p)
		}
	}
}

// Len returns the number of registered participants.
func (r *Runner) Len() int { return len(r.participants) }

// OnResize forwards a viewport change to every Resizer.
func (r *Runner) OnResize(viewport Extent) error {
	var errs []error
	for _, p := range r.participants {
		if rs, ok := p.(Resizer); ok {
			if err := rs.OnResize(viewport); err != nil {
				Logger().Warn("pixbuf: resize failed", "participant", describe(p), "viewport", viewport, "err", err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// OnTick forwards the tick to every Ticker.
func (r *Runner) OnTick() error {
	var errs []error
	for _, p := range r.participants {
		if t, ok := p.(Ticker); ok {
			if err := t.OnTick(); err != nil {
				Logger().Warn("pixbuf: tick failed", "participant", describe(p), "err", err)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func describe(p any) string {
	if l, ok := p.(interface{ Label() string }); ok {
		return l.Label()
	}
	return "unnamed"
}

// Compile-time checks.
var (
	_ Resizer = (*PixelBuffer)(nil)
	_ Ticker  = (*PixelBuffer)(nil)
)
