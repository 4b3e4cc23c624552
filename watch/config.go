// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/config.go
// Summary: Resolved, immutable session configuration for the core loop.

package watch

// Config is the fully resolved session configuration. The CLI layer
// builds it once; the core never parses argv or reads files itself, and
// nothing in the session mutates it afterwards.
type Config struct {
	// Command is the target argv. Must be non-empty.
	Command []string
	// Shell selects how Command is spawned.
	Shell ShellMode
	// Interval is the seconds between runs. Must be > 0.
	Interval float64
	// Precise schedules run n at first-start + n*Interval instead of
	// finish + Interval.
	Precise bool
	// Diff selects change highlighting between consecutive runs.
	Diff DiffMode
	// BeepOnError rings the terminal bell when the command fails.
	BeepOnError bool
	// ExitOnError stops the session when the command fails.
	ExitOnError bool
	// ShowHeader reserves two screen rows for the command/timestamp
	// header.
	ShowHeader bool
}
