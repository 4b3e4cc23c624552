// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/canvas_test.go
// Summary: Canvas growth and geometry tests.

package watch

import "testing"

func TestCanvasSingleLineGeometry(t *testing.T) {
	c := newCanvas(0)
	c.AppendLine("hello")

	if c.Height() != 1 {
		t.Errorf("expected height 1, got %d", c.Height())
	}
	// Five visible characters plus the trailing newline cell.
	if c.Width() != 6 {
		t.Errorf("expected width 6, got %d", c.Width())
	}
}

func TestCanvasEmpty(t *testing.T) {
	c := newCanvas(0)
	if c.Height() != 0 || c.Width() != 0 {
		t.Errorf("expected empty canvas, got %dx%d", c.Width(), c.Height())
	}
	if _, ok := c.CellAt(0, 0); ok {
		t.Error("expected no cell at (0,0) in an empty canvas")
	}
}

func TestCanvasAllocDoubles(t *testing.T) {
	c := newCanvas(4)
	before := c.Alloc()
	c.AppendLine("a line much longer than four cells")
	after := c.Alloc()

	if after < 2*before {
		t.Errorf("alloc grew %d -> %d, expected at least doubling", before, after)
	}
	if after < c.Width() {
		t.Errorf("alloc %d smaller than width %d", after, c.Width())
	}
}

func TestCanvasNeverShrinksMidRun(t *testing.T) {
	c := newCanvas(0)
	c.AppendLine("a long first line of output")
	w, a := c.Width(), c.Alloc()
	c.AppendLine("x")
	if c.Width() != w {
		t.Errorf("width shrank from %d to %d after a short line", w, c.Width())
	}
	if c.Alloc() != a {
		t.Errorf("alloc changed from %d to %d after a short line", a, c.Alloc())
	}
	if c.Height() != 2 {
		t.Errorf("expected height 2, got %d", c.Height())
	}
}

func TestCanvasHintSeedsAlloc(t *testing.T) {
	c := newCanvas(40)
	c.AppendLine("short")
	if c.Alloc() != 40 {
		t.Errorf("expected alloc to stay at the 40-cell hint, got %d", c.Alloc())
	}
}

func TestCanvasCellAt(t *testing.T) {
	c := newCanvas(0)
	c.AppendLine("ab")
	c.AppendLine("wider line")

	if cell, ok := c.CellAt(0, 0); !ok || cell.Ch != 'a' {
		t.Errorf("CellAt(0,0) = %q, %v", cell.Ch, ok)
	}
	// Inside the canvas rectangle but past row 0's content: blank.
	if cell, ok := c.CellAt(0, 5); !ok || cell.Ch != ' ' {
		t.Errorf("CellAt(0,5) = %q, %v; expected blank", cell.Ch, ok)
	}
	if _, ok := c.CellAt(2, 0); ok {
		t.Error("CellAt(2,0) reported a cell past the last row")
	}
	if _, ok := c.CellAt(0, c.Width()); ok {
		t.Error("CellAt past the canvas width reported a cell")
	}
}

func TestCanvasTabsExpand(t *testing.T) {
	c := newCanvas(0)
	c.AppendLine("a\tb")

	if cell, _ := c.CellAt(0, 8); cell.Ch != 'b' {
		t.Errorf("expected 'b' at the 8-column tab stop, got %q", cell.Ch)
	}
	for col := 1; col < 8; col++ {
		if cell, _ := c.CellAt(0, col); cell.Ch != ' ' {
			t.Errorf("expected space at col %d, got %q", col, cell.Ch)
		}
	}
}

func TestCanvasWideRunes(t *testing.T) {
	c := newCanvas(0)
	c.AppendLine("日本")

	// Two wide runes occupy four cells plus the newline cell.
	if c.Width() != 5 {
		t.Errorf("expected width 5, got %d", c.Width())
	}
	if cell, _ := c.CellAt(0, 0); cell.Ch != '日' {
		t.Errorf("expected wide rune at col 0, got %q", cell.Ch)
	}
	if cell, _ := c.CellAt(0, 1); cell.Ch != 0 {
		t.Errorf("expected continuation cell at col 1, got %q", cell.Ch)
	}
}
