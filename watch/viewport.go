// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/viewport.go
// Summary: Scroll offset and page-bound arithmetic over the canvas.

package watch

// viewport tracks the top-left offset of the visible slice of the
// displayed canvas, plus the derived page and bound sizes. Offset
// mutations are deliberately unclamped; clamp runs once per redraw, so
// a burst of navigation keys and a content change between redraws only
// pay for one bounds pass.
type viewport struct {
	x, y int

	screenWidth  int
	screenHeight int

	pageWidth  int
	pageHeight int

	contentWidth  int
	contentHeight int

	// headerRows is the fixed number of screen rows reserved above the
	// content area (2 with the header, 0 without).
	headerRows int

	right  int
	bottom int
}

// resize records a new terminal size and recomputes the page bounds.
func (v *viewport) resize(w, h int) {
	v.screenWidth = w
	v.screenHeight = h
	v.recompute()
}

// setContent records the displayed canvas size and recomputes bounds.
func (v *viewport) setContent(w, h int) {
	v.contentWidth = w
	v.contentHeight = h
	v.recompute()
}

func (v *viewport) recompute() {
	v.pageWidth = v.screenWidth
	v.pageHeight = max(v.screenHeight-v.headerRows, 0)
	v.right = max(v.contentWidth-v.pageWidth, 0)
	v.bottom = max(v.contentHeight-v.pageHeight, 0)
}

// clamp pulls the offsets back into [0, right] x [0, bottom]. It is
// idempotent and safe to run with stale offsets after a content swap.
func (v *viewport) clamp() {
	v.x = max(min(v.x, v.right), 0)
	v.y = max(min(v.y, v.bottom), 0)
}

func (v *viewport) moveLines(delta int) { v.y += delta }
func (v *viewport) moveCols(delta int)  { v.x += delta }
func (v *viewport) pageUp()             { v.y -= v.pageHeight }
func (v *viewport) pageDown()           { v.y += v.pageHeight }
func (v *viewport) blockLeft()          { v.x -= v.pageWidth }
func (v *viewport) blockRight()         { v.x += v.pageWidth }
func (v *viewport) home()               { v.y = 0 }
func (v *viewport) end()                { v.y = v.bottom }
