// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/periscope/main.go
// Summary: CLI entry point; resolves flags and defaults into a session.
// Usage: periscope [flags] command [args...]

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"pkt.systems/pslog"

	"github.com/framegrace/periscope/config"
	"github.com/framegrace/periscope/watch"
)

const version = "0.1.0"

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, watch.ErrChildFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:     "periscope [flags] command [args...]",
		Short:   "Execute a command periodically and page over its output",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("no command given")
			}
			def, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			wcfg, logFile, err := resolveConfig(cmd, args, def)
			if err != nil {
				return err
			}

			logger, closeLog, err := buildLogger(logFile)
			if err != nil {
				return err
			}
			defer closeLog()

			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("standard input is not a terminal")
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("open terminal: %w", err)
			}

			session, err := watch.New(wcfg, watch.NewTcellScreenDriver(screen), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return session.Run(ctx)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Stop flag parsing at the first non-flag token so the watched
	// command keeps its own flags.
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().Float64P("interval", "n", 2.0, "seconds to wait between updates")
	cmd.Flags().BoolP("precise", "p", false, "schedule runs on a fixed grid from the first start")
	cmd.Flags().StringP("differences", "d", "", "highlight changes between updates (sequential or cumulative)")
	cmd.Flags().Lookup("differences").NoOptDefVal = "sequential"
	cmd.Flags().BoolP("beep", "b", false, "beep when the command exits non-zero")
	cmd.Flags().BoolP("errexit", "e", false, "exit when the command exits non-zero")
	cmd.Flags().BoolP("no-title", "t", false, "turn off the header")
	cmd.Flags().Bool("shell", false, "always run the command through a shell")
	cmd.Flags().Bool("no-shell", false, "never run the command through a shell")
	cmd.Flags().String("log-file", "", "append debug logs to this file")
	cmd.Flags().StringVar(&cfgPath, "config", "", "config file (default ~/.config/periscope/config.yaml)")

	return cmd
}

// resolveConfig overlays explicit flags on the loaded defaults and
// validates the result. The core receives only this resolved value.
func resolveConfig(cmd *cobra.Command, args []string, def config.Defaults) (watch.Config, string, error) {
	flags := cmd.Flags()

	interval := def.Interval
	if flags.Changed("interval") {
		interval, _ = flags.GetFloat64("interval")
	}
	if interval <= 0 {
		return watch.Config{}, "", fmt.Errorf("interval must be positive, got %g", interval)
	}

	diffName := def.Differences
	if flags.Changed("differences") {
		diffName, _ = flags.GetString("differences")
	}
	diff, err := watch.ParseDiffMode(diffName)
	if err != nil {
		return watch.Config{}, "", err
	}

	forceShell, _ := flags.GetBool("shell")
	noShell, _ := flags.GetBool("no-shell")
	if forceShell && noShell {
		return watch.Config{}, "", errors.New("--shell and --no-shell are mutually exclusive")
	}
	shell := watch.ShellAuto
	if forceShell {
		shell = watch.ShellAlways
	} else if noShell {
		shell = watch.ShellNever
	}

	precise := def.Precise
	if flags.Changed("precise") {
		precise, _ = flags.GetBool("precise")
	}
	beep := def.Beep
	if flags.Changed("beep") {
		beep, _ = flags.GetBool("beep")
	}
	errExit := def.ErrExit
	if flags.Changed("errexit") {
		errExit, _ = flags.GetBool("errexit")
	}
	noTitle := def.NoTitle
	if flags.Changed("no-title") {
		noTitle, _ = flags.GetBool("no-title")
	}
	logFile := def.LogFile
	if flags.Changed("log-file") {
		logFile, _ = flags.GetString("log-file")
	}

	return watch.Config{
		Command:     args,
		Shell:       shell,
		Interval:    interval,
		Precise:     precise,
		Diff:        diff,
		BeepOnError: beep,
		ExitOnError: errExit,
		ShowHeader:  !noTitle,
	}, logFile, nil
}

// buildLogger opens the side-channel debug log. The terminal belongs to
// the session while it runs, so nothing may log to stderr; without a
// log file everything is discarded. Stdlib log output from dependencies
// is routed into the same sink.
func buildLogger(path string) (pslog.Logger, func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return pslog.NewWithOptions(io.Discard, pslog.Options{}), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := pslog.NewWithOptions(f, pslog.Options{
		Mode:     pslog.ModeConsole,
		MinLevel: pslog.DebugLevel,
	})
	log.SetOutput(pslog.LogLogger(logger).Writer())
	log.SetFlags(0)
	return logger, func() { _ = f.Close() }, nil
}
