// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/diff.go
// Summary: Positional cell diffing between consecutive run canvases.

package watch

import "fmt"

// DiffMode selects how changes between consecutive runs are highlighted.
type DiffMode int

const (
	// DiffNone leaves every cell with the normal style.
	DiffNone DiffMode = iota
	// DiffSequential highlights cells that changed since the previous run.
	DiffSequential
	// DiffCumulative highlights cells that have ever changed this session.
	DiffCumulative
)

// ParseDiffMode resolves the user-facing mode names. "permanent" is
// accepted as the watch(1) spelling of cumulative.
func ParseDiffMode(name string) (DiffMode, error) {
	switch name {
	case "", "none":
		return DiffNone, nil
	case "sequential":
		return DiffSequential, nil
	case "cumulative", "permanent":
		return DiffCumulative, nil
	}
	return DiffNone, fmt.Errorf("unknown diff mode %q (want none, sequential or cumulative)", name)
}

// stampDiff compares next against prev position by position and stamps
// attribute flags onto next in place. The comparison is purely by (row,
// col) index; there is no line matching. prev is the canvas currently on
// display, next the just-finished run. A nil prev means this is the first
// run and nothing is stamped, whatever the mode.
func stampDiff(prev, next *Canvas, mode DiffMode) {
	if prev == nil || next == nil || mode == DiffNone {
		return
	}
	for r := 0; r < next.Height(); r++ {
		row := next.rows[r]
		for col := range row {
			pc, ok := prev.CellAt(r, col)

			var attr AttrMask
			if mode == DiffCumulative {
				// Carry earned highlights forward so they never clear.
				attr = pc.Attr
			}
			if !ok || pc.Ch != row[col].Ch {
				attr |= AttrChanged
			}
			row[col].Attr = attr
		}
	}
}
