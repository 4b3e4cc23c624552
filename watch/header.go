// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/header.go
// Summary: Two-row header with the command line and last finish time.

package watch

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// headerTimeLayout approximates the locale %c form used by watch-style
// tools.
const headerTimeLayout = "Mon Jan  2 15:04:05 2006"

// headerLine lays out `Every <n>s: <command>` on the left and the last
// finish time on the right, truncating the command with an ellipsis when
// the two would collide. A zero finished time renders no timestamp. The
// returned string is exactly width cells wide.
func headerLine(cmdStr string, finished time.Time, width int) string {
	if width <= 0 {
		return ""
	}

	tpos := width
	tstr := ""
	if !finished.IsZero() {
		tstr = finished.Format(headerTimeLayout)
		tpos = width - len(tstr)
		if tpos < 0 {
			// Terminal narrower than the timestamp; show what fits.
			return runewidth.Truncate(tstr, width, "")
		}
	}

	left := ""
	// `Every Ns: ` plus one command character plus a separating space
	// needs a dozen columns before showing the command is worthwhile.
	if tpos >= 12 {
		avail := tpos - 2
		if runewidth.StringWidth(cmdStr) > avail {
			left = runewidth.Truncate(cmdStr, avail, "...")
		} else {
			left = cmdStr
		}
	}

	pad := width - runewidth.StringWidth(left) - len(tstr)
	if pad < 0 {
		pad = 0
	}
	return left + strings.Repeat(" ", pad) + tstr
}

// drawHeader paints the header rows. Row 1 stays blank; it only exists
// to separate the header from the content.
func (s *Session) drawHeader() {
	line := headerLine(s.headerCmd, s.lastFinish, s.view.screenWidth)
	x := 0
	for _, r := range line {
		s.driver.SetContent(x, 0, r, nil, tcell.StyleDefault)
		x += runewidth.RuneWidth(r)
	}
	for ; x < s.view.screenWidth; x++ {
		s.driver.SetContent(x, 0, ' ', nil, tcell.StyleDefault)
	}
	for x := 0; x < s.view.screenWidth; x++ {
		s.driver.SetContent(x, 1, ' ', nil, tcell.StyleDefault)
	}
}

// commandString renders the session config into the header's fixed
// prefix form, e.g. "Every 2s: make test".
func commandString(cfg Config) string {
	return fmt.Sprintf("Every %gs: %s", cfg.Interval, strings.Join(cfg.Command, " "))
}
