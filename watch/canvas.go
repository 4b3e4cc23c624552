// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/canvas.go
// Summary: Growable virtual cell grid holding one run's full output.

package watch

import "github.com/mattn/go-runewidth"

// Canvas is the full character+attribute grid for one run of the command,
// independent of the terminal size. Rows are appended as lines arrive;
// row capacity grows by doubling so repeated long lines do not trigger a
// reallocation per line. A canvas never shrinks within a run; the display
// is only ever replaced by a whole-canvas swap once the run finishes.
type Canvas struct {
	rows    [][]Cell
	alloc   int // current row allocation width in cells
	content int // widest line appended so far, in display cells
}

// newCanvas returns an empty canvas. hint is the previous run's content
// width and seeds the allocation width, which keeps the doubling loop
// quiet when consecutive runs produce similar output.
func newCanvas(hint int) *Canvas {
	if hint < 1 {
		hint = 1
	}
	return &Canvas{alloc: hint}
}

// Height returns the number of appended lines.
func (c *Canvas) Height() int {
	return len(c.rows)
}

// Width returns the canvas width in cells: the widest line plus one
// trailing cell standing in for the line's newline.
func (c *Canvas) Width() int {
	if len(c.rows) == 0 {
		return 0
	}
	return c.content + 1
}

// Alloc returns the current row allocation width.
func (c *Canvas) Alloc() int {
	return c.alloc
}

// AppendLine adds one line of output (without its trailing newline) as a
// new row. Tabs expand to 8-column stops; wide runes occupy two cells,
// the second with Ch == 0.
func (c *Canvas) AppendLine(line string) {
	row := make([]Cell, 0, c.alloc)
	for _, r := range line {
		if r == '\t' {
			for {
				row = append(row, Cell{Ch: ' '})
				if len(row)%8 == 0 {
					break
				}
			}
			continue
		}
		row = append(row, Cell{Ch: r})
		if runewidth.RuneWidth(r) == 2 {
			row = append(row, Cell{})
		}
	}
	w := len(row)
	for w+1 > c.alloc {
		c.alloc *= 2
	}
	c.rows = append(c.rows, row)
	if w > c.content {
		c.content = w
	}
}

// CellAt returns the cell at (row, col) and whether that position exists.
// Positions inside the canvas bounds but past a row's line content report
// a blank cell, matching how the output would paint on a terminal.
func (c *Canvas) CellAt(row, col int) (Cell, bool) {
	if row < 0 || row >= len(c.rows) || col < 0 || col >= c.Width() {
		return Cell{}, false
	}
	r := c.rows[row]
	if col >= len(r) {
		return Cell{Ch: ' '}, true
	}
	cell := r[col]
	if cell.Ch == 0 {
		// Continuation cell of a wide rune; keep its attributes.
		return cell, true
	}
	return cell, true
}

// setAttr stamps attribute flags on a cell. Out-of-range positions are
// ignored; the diff engine only visits positions it obtained from the
// canvas itself.
func (c *Canvas) setAttr(row, col int, attr AttrMask) {
	if row < 0 || row >= len(c.rows) {
		return
	}
	r := c.rows[row]
	if col < 0 || col >= len(r) {
		return
	}
	r[col].Attr = attr
}
