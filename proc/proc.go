// Package proc is crun's view of external processes: every compiler, analyzer,
// package manager, build tool and compiled program is run through a Host.
package proc

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"
)

// Outcome classifies how the pipeline treats a finished external process.
type Outcome int

// Enumeration of process outcomes
const (
	Success  Outcome = iota // exited with status zero
	Advisory                // failed, but the failure is only logged
	Fatal                   // failed, and the pipeline must halt
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Advisory:
		return "advisory"
	default:
		return "fatal"
	}
}

// Command describes a single external invocation.  Nil streams are connected
// to the null device, as with os/exec.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory of the process.  Empty means the current
	// directory.
	Dir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Advisory marks a command whose failure must never halt the pipeline.
	Advisory bool
}

// Argv returns the full argument vector including the command name.
func (c *Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}

// Result is the outcome of running a Command.
type Result struct {
	Name string

	// ExitCode is the process exit status, or 128+N if it was killed by
	// signal N.  It is -1 if the process could not be run at all.
	ExitCode int

	// Err is set only when the process could not be started or waited on.
	Err error

	Outcome Outcome
}

// Failed reports whether the command did not exit cleanly.
func (r Result) Failed() bool {
	return r.Outcome != Success
}

// Complete builds the Result of running c given its exit code and start error.
func Complete(c *Command, exitCode int, err error) Result {
	res := Result{Name: c.Name, ExitCode: exitCode, Err: err}

	switch {
	case err == nil && exitCode == 0:
		res.Outcome = Success
	case c.Advisory:
		res.Outcome = Advisory
	default:
		res.Outcome = Fatal
	}

	return res
}

// Host runs external processes.  System is the real implementation;
// proctest.Host records invocations for tests.
type Host interface {
	// LookPath searches for an executable on the execution search path.
	LookPath(name string) (string, error)

	// Run runs c to completion.
	Run(ctx context.Context, c *Command) Result

	// Exec transfers control to c: on success it does not return, and the
	// exit status of c becomes the exit status of crun.  When the platform
	// cannot replace the process image it falls back to Run.
	Exec(c *Command) Result
}

// Present reports whether the named tool can be found by h.
func Present(h Host, name string) bool {
	_, err := h.LookPath(name)
	return err == nil
}

// exitStatus extracts the exit code from the error returned by exec.Cmd.Run.
// The returned error is non-nil only if the process never ran.
func exitStatus(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}

		return exitErr.ExitCode(), nil
	}

	return -1, err
}
