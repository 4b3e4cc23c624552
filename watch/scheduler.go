// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/scheduler.go
// Summary: The run/poll/redraw loop driving one watch session.
// Usage: Build a Session with New and hand it the terminal via Run.

package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"pkt.systems/pslog"
)

// tick is the cooperative loop period. Small enough to keep keys
// responsive, large enough that an idle session costs nothing.
const tick = 10 * time.Millisecond

// ErrChildFailed reports that the command exited non-zero while
// ExitOnError was set.
var ErrChildFailed = errors.New("command exited with a non-zero status")

// Session owns the whole run/poll/redraw cycle: the run state, the
// displayed and scratch canvases, the viewport, and the terminal driver.
// Everything runs on the one goroutine that called Run; the only
// concurrency is the child process itself and the pumps feeding the
// event and output channels.
type Session struct {
	cfg    Config
	driver ScreenDriver
	log    pslog.Logger
	now    func() time.Time

	displayed *Canvas
	scratch   *Canvas
	run       *run
	partial   []byte

	view       viewport
	headerCmd  string
	lastFinish time.Time

	startTime time.Time
	nextRun   time.Time // zero means run immediately
	anchor    time.Time // precise-mode scheduled start of the current run

	dirty     bool
	forceSync bool
}

// New validates cfg and builds a session on the given driver. A nil
// logger disables logging.
func New(cfg Config, driver ScreenDriver, logger pslog.Logger) (*Session, error) {
	if len(cfg.Command) == 0 {
		return nil, errors.New("no command given")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval must be positive, got %g", cfg.Interval)
	}
	if logger == nil {
		logger = pslog.NewWithOptions(io.Discard, pslog.Options{})
	}
	s := &Session{
		cfg:       cfg,
		driver:    driver,
		log:       logger,
		now:       time.Now,
		headerCmd: commandString(cfg),
	}
	if cfg.ShowHeader {
		s.view.headerRows = 2
	}
	return s, nil
}

// Run drives the session until the user quits, ctx is cancelled, or the
// command fails with ExitOnError set. The terminal is always restored on
// the way out, even with a child still running; the child is killed and
// not waited for.
func (s *Session) Run(ctx context.Context) error {
	if err := s.driver.Init(); err != nil {
		return fmt.Errorf("initialize screen: %w", err)
	}
	defer s.driver.Fini()
	defer func() {
		if s.run != nil {
			s.run.kill()
		}
	}()

	s.driver.HideCursor()
	s.view.resize(s.driver.Size())
	// Draw the header right away so the user sees the session is up
	// before the first run completes.
	s.dirty = true

	events := make(chan tcell.Event, 16)
	pumpDone := make(chan struct{})
	defer close(pumpDone)
	go func() {
		// PollEvent returns nil once the driver is finalized.
		for {
			ev := s.driver.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-pumpDone:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		// Route pending input first; navigation must stay responsive
		// however long the child takes.
	drain:
		for {
			select {
			case ev := <-events:
				if s.handleEvent(ev) {
					s.log.Info("session stopped by user")
					return nil
				}
			default:
				break drain
			}
		}

		if s.run == nil && !s.now().Before(s.nextRun) {
			if err := s.beginRun(); err != nil {
				return err
			}
		}

		if s.run != nil {
			if err := s.pollRun(); err != nil {
				return err
			}
		}

		if s.dirty {
			s.redraw()
		}

		select {
		case <-ctx.Done():
			s.log.Info("session interrupted")
			return nil
		case <-ticker.C:
		}
	}
}

// handleEvent applies one logical input event and reports whether the
// session should stop. Offset mutations are unclamped here; redraw
// clamps once.
func (s *Session) handleEvent(ev tcell.Event) (quit bool) {
	routed := routeEvent(ev)
	switch routed {
	case evNone:
		return false
	case evQuit:
		return true
	case evResize:
		// Stale artifacts survive a partial refresh after a resize, so
		// force a full repaint regardless of the dirty path.
		s.view.resize(s.driver.Size())
		s.driver.Clear()
		s.forceSync = true
	case evLineUp:
		s.view.moveLines(-1)
	case evLineDown:
		s.view.moveLines(1)
	case evPageUp:
		s.view.pageUp()
	case evPageDown:
		s.view.pageDown()
	case evColLeft:
		s.view.moveCols(-1)
	case evColRight:
		s.view.moveCols(1)
	case evBlockLeft:
		s.view.blockLeft()
	case evBlockRight:
		s.view.blockRight()
	case evHome:
		s.view.home()
	case evEnd:
		s.view.end()
	}
	s.dirty = true
	return false
}

// beginRun starts a new execution and resets the scratch canvas, seeding
// its allocation from the previous run's width.
func (s *Session) beginRun() error {
	start := s.now()
	if s.cfg.Precise && s.anchor.IsZero() {
		s.anchor = start
	}
	r, err := startRun(s.cfg.Command, s.cfg.Shell)
	if err != nil {
		return err
	}
	hint := 0
	if s.displayed != nil {
		hint = s.displayed.content
	}
	s.run = r
	s.scratch = newCanvas(hint)
	s.partial = nil
	s.startTime = start
	s.log.Debug("child started", "command", strings.Join(s.cfg.Command, " "))
	return nil
}

// pollRun drains available output into the scratch canvas and, once the
// child has exited and its output is fully consumed, diffs, swaps and
// schedules the next run.
func (s *Session) pollRun() error {
	chunks, code, done := s.run.poll()
	for _, chunk := range chunks {
		s.appendOutput(chunk)
	}
	if !done {
		return nil
	}

	if len(s.partial) > 0 {
		s.scratch.AppendLine(string(trimCR(s.partial)))
		s.partial = nil
	}

	finish := s.now()
	s.run = nil

	if s.cfg.Diff != DiffNone {
		stampDiff(s.displayed, s.scratch, s.cfg.Diff)
	}
	s.displayed = s.scratch
	s.scratch = nil
	s.view.setContent(s.displayed.Width(), s.displayed.Height())
	s.lastFinish = finish
	s.nextRun, s.anchor = scheduleNext(s.cfg.Precise, s.interval(), s.anchor, finish)
	s.dirty = true
	s.log.Debug("child finished", "exit_code", code, "duration", finish.Sub(s.startTime))

	if code != 0 {
		if s.cfg.BeepOnError {
			_ = s.driver.Beep()
		}
		if s.cfg.ExitOnError {
			return ErrChildFailed
		}
	}
	return nil
}

// appendOutput splits buffered bytes into lines, holding the unfinished
// tail until more output or the run's end completes it.
func (s *Session) appendOutput(chunk []byte) {
	s.partial = append(s.partial, chunk...)
	for {
		i := bytes.IndexByte(s.partial, '\n')
		if i < 0 {
			return
		}
		line := s.partial[:i]
		s.partial = s.partial[i+1:]
		s.scratch.AppendLine(string(trimCR(line)))
	}
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

// scheduleNext computes when the next run starts. Gap timing counts the
// interval from finish; precise timing advances a fixed grid anchored at
// the first start, resyncing to the finish time when a run overran so
// the next run starts immediately instead of piling up in the past.
func scheduleNext(precise bool, interval time.Duration, anchor, finish time.Time) (next, newAnchor time.Time) {
	if !precise {
		return finish.Add(interval), time.Time{}
	}
	newAnchor = anchor.Add(interval)
	if newAnchor.Before(finish) {
		newAnchor = finish
	}
	return newAnchor, newAnchor
}

func (s *Session) interval() time.Duration {
	return time.Duration(s.cfg.Interval * float64(time.Second))
}

// redraw clamps the viewport and repaints the header and the visible
// canvas slice. Cells past the content paint as blanks, which also
// clears leftovers when a run shrinks the output.
func (s *Session) redraw() {
	s.view.clamp()
	if s.cfg.ShowHeader {
		s.drawHeader()
	}
	top := s.view.headerRows
	for row := 0; row < s.view.pageHeight; row++ {
		cy := s.view.y + row
		for col := 0; col < s.view.pageWidth; col++ {
			cx := s.view.x + col
			ch := ' '
			style := tcell.StyleDefault
			if s.displayed != nil {
				if cell, ok := s.displayed.CellAt(cy, cx); ok {
					if cell.Ch == 0 && col > 0 {
						// Continuation of a wide rune already set.
						continue
					}
					if cell.Ch != 0 {
						ch = cell.Ch
					}
					if cell.Attr&AttrChanged != 0 {
						style = style.Reverse(true)
					}
				}
			}
			s.driver.SetContent(col, top+row, ch, nil, style)
		}
	}
	if s.forceSync {
		s.driver.Sync()
		s.forceSync = false
	} else {
		s.driver.Show()
	}
	s.dirty = false
}
