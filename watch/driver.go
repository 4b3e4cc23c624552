// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/driver.go
// Summary: Rendering surface abstraction and the tcell implementation.

package watch

import "github.com/gdamore/tcell/v2"

// ScreenDriver abstracts the rendering surface the session draws on. It
// mirrors the subset of tcell.Screen functionality the loop needs, which
// keeps the scheduler testable against an in-memory surface.
type ScreenDriver interface {
	Init() error
	Fini()
	Size() (int, int)
	Clear()
	HideCursor()
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Show()
	Sync()
	Beep() error
	PollEvent() tcell.Event
}

// TcellScreenDriver adapts a tcell.Screen to the ScreenDriver interface.
type TcellScreenDriver struct {
	screen tcell.Screen
}

// NewTcellScreenDriver wraps the provided screen.
func NewTcellScreenDriver(screen tcell.Screen) *TcellScreenDriver {
	return &TcellScreenDriver{screen: screen}
}

func (d *TcellScreenDriver) Init() error {
	if err := d.screen.Init(); err != nil {
		return err
	}
	d.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	return nil
}

func (d *TcellScreenDriver) Fini() {
	d.screen.Fini()
}

func (d *TcellScreenDriver) Size() (int, int) {
	return d.screen.Size()
}

func (d *TcellScreenDriver) Clear() {
	d.screen.Clear()
}

func (d *TcellScreenDriver) HideCursor() {
	d.screen.HideCursor()
}

func (d *TcellScreenDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	d.screen.SetContent(x, y, mainc, combc, style)
}

func (d *TcellScreenDriver) Show() {
	d.screen.Show()
}

func (d *TcellScreenDriver) Sync() {
	d.screen.Sync()
}

func (d *TcellScreenDriver) Beep() error {
	return d.screen.Beep()
}

func (d *TcellScreenDriver) PollEvent() tcell.Event {
	return d.screen.PollEvent()
}
