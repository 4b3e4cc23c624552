// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/fake_driver_test.go
// Summary: In-memory ScreenDriver used by the scheduler tests.

package watch

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// fakeDriver records draws into an in-memory grid and feeds scripted
// events to the session's pump. All methods are safe to call while the
// session loop runs on another goroutine.
type fakeDriver struct {
	mu     sync.Mutex
	width  int
	height int
	cells  [][]rune
	styles [][]tcell.Style

	events   chan tcell.Event
	finiOnce sync.Once

	beeps int
	shows int
	syncs int
}

func newFakeDriver(w, h int) *fakeDriver {
	d := &fakeDriver{
		width:  w,
		height: h,
		events: make(chan tcell.Event, 32),
	}
	d.clearLocked()
	return d
}

func (d *fakeDriver) clearLocked() {
	d.cells = make([][]rune, d.height)
	d.styles = make([][]tcell.Style, d.height)
	for y := range d.cells {
		d.cells[y] = make([]rune, d.width)
		d.styles[y] = make([]tcell.Style, d.width)
		for x := range d.cells[y] {
			d.cells[y][x] = ' '
		}
	}
}

func (d *fakeDriver) Init() error { return nil }

func (d *fakeDriver) Fini() {
	d.finiOnce.Do(func() { close(d.events) })
}

func (d *fakeDriver) Size() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *fakeDriver) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearLocked()
}

func (d *fakeDriver) HideCursor() {}

func (d *fakeDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	d.cells[y][x] = mainc
	d.styles[y][x] = style
}

func (d *fakeDriver) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shows++
}

func (d *fakeDriver) Sync() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.syncs++
}

func (d *fakeDriver) Beep() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.beeps++
	return nil
}

func (d *fakeDriver) PollEvent() tcell.Event {
	ev, ok := <-d.events
	if !ok {
		return nil
	}
	return ev
}

// post feeds an event to the session as if the terminal produced it.
func (d *fakeDriver) post(ev tcell.Event) {
	d.events <- ev
}

// row returns the current content of one screen row.
func (d *fakeDriver) row(y int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if y < 0 || y >= d.height {
		return ""
	}
	return string(d.cells[y])
}

// snapshot returns the whole grid as one string, rows joined by \n.
func (d *fakeDriver) snapshot() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := make([]string, d.height)
	for y := range d.cells {
		rows[y] = string(d.cells[y])
	}
	return strings.Join(rows, "\n")
}

// counters returns the beep/show/sync counts.
func (d *fakeDriver) counters() (beeps, shows, syncs int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.beeps, d.shows, d.syncs
}

// styleAt returns the style last drawn at (x, y).
func (d *fakeDriver) styleAt(x, y int) tcell.Style {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.styles[y][x]
}
