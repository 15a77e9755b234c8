// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package tcellhost displays pixel buffers in a terminal.
//
// Every terminal cell shows two vertically stacked pixels with the upper
// half block rune: the foreground colors the top pixel and the background
// the bottom one. A terminal of C columns and R rows is therefore a C x 2R
// viewport for the sizing policy.
//
// Host is a complete tick loop for a single buffer:
//
//	screen, _ := tcell.NewScreen()
//	_ = screen.Init()
//	h, _ := tcellhost.New(screen, buf, []any{bridge})
//	defer h.Close()
//	err := h.Run(ctx, func() error {
//	    return buf.Edit(drawScene)
//	})
package tcellhost
