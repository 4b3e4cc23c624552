// Copyright © 2025 Periscope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: watch/runner.go
// Summary: Child command spawning and non-blocking output collection.

package watch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
)

// ShellMode controls whether the command runs through an external shell.
type ShellMode int

const (
	// ShellAuto infers shell use from the command shape.
	ShellAuto ShellMode = iota
	// ShellNever always execs the command directly.
	ShellNever
	// ShellAlways always runs the command through /bin/sh -c.
	ShellAlways
)

// shellChars are the characters that force a single-token command
// through an external shell: they only mean something to one.
const shellChars = "*|&(["

// shellNeeded reports whether argv must run in a shell under ShellAuto.
// A multi-token command was tokenized by the caller's shell already and
// so cannot contain unescaped metacharacters; a single token is checked
// for them.
func shellNeeded(argv []string) bool {
	if len(argv) != 1 {
		return false
	}
	return strings.ContainsAny(argv[0], shellChars)
}

// run is the handle for one execution of the command. Its stdout and
// stderr share a single pipe, so the collected stream interleaves them
// in arrival order. One goroutine drains the pipe into chunks and one
// waits for the exit status; neither is ever waited on by the loop,
// which only polls.
type run struct {
	cmd    *exec.Cmd
	out    *os.File
	chunks chan []byte
	exit   chan int

	eof    bool
	exited bool
	code   int
}

// startRun spawns the command without blocking on its output. A spawn
// failure is returned immediately and is fatal upstream.
func startRun(argv []string, mode ShellMode) (*run, error) {
	shell := false
	switch mode {
	case ShellAlways:
		shell = true
	case ShellNever:
		shell = false
	default:
		shell = shellNeeded(argv)
	}

	var cmd *exec.Cmd
	if shell {
		cmd = exec.Command("/bin/sh", "-c", strings.Join(argv, " "))
	} else {
		cmd = exec.Command(argv[0], argv[1:]...)
	}

	rd, wr, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("create output pipe: %w", err)
	}
	cmd.Stdout = wr
	cmd.Stderr = wr

	if err := cmd.Start(); err != nil {
		rd.Close()
		wr.Close()
		return nil, fmt.Errorf("start command %q: %w", strings.Join(argv, " "), err)
	}
	// The child holds the write end now; drop ours so the reader sees
	// EOF when the child exits.
	wr.Close()

	r := &run{
		cmd:    cmd,
		out:    rd,
		chunks: make(chan []byte, 16),
		exit:   make(chan int, 1),
	}
	go r.read()
	go r.wait()
	return r, nil
}

func (r *run) read() {
	defer close(r.chunks)
	defer r.out.Close()
	buf := make([]byte, 4096)
	for {
		n, err := r.out.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			r.chunks <- chunk
		}
		if err != nil {
			return
		}
	}
}

func (r *run) wait() {
	err := r.cmd.Wait()
	code := 0
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
				code = 128 + int(ws.Signal())
			} else {
				code = exitErr.ExitCode()
			}
		} else {
			code = -1
		}
	}
	r.exit <- code
}

// poll returns whatever output chunks are buffered right now, possibly
// none, and reports the exit code once the process has exited and its
// output is fully drained. It never blocks.
func (r *run) poll() (chunks [][]byte, code int, done bool) {
drain:
	for {
		select {
		case b, ok := <-r.chunks:
			if !ok {
				r.eof = true
				break drain
			}
			chunks = append(chunks, b)
		default:
			break drain
		}
	}
	if !r.eof {
		return chunks, 0, false
	}
	if !r.exited {
		select {
		case c := <-r.exit:
			r.exited = true
			r.code = c
		default:
			return chunks, 0, false
		}
	}
	return chunks, r.code, true
}

// kill terminates the child without waiting for it. Used on the
// interrupt path, where restoring the terminal must not depend on the
// child exiting.
func (r *run) kill() {
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
}
