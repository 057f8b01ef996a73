// Package build dispatches a build either to `make`, when the working
// directory has a Makefile, or to a direct single-file compilation.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/0Bleak/crun/common"
	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/proc"
	"github.com/0Bleak/crun/toolchain"
)

// ErrBuildFailed is returned when `make` exits with a non-zero status.
var ErrBuildFailed = errors.New("build failed")

// ErrCompilationFailed is returned when the compiler exits with a non-zero
// status.
var ErrCompilationFailed = errors.New("compilation failed")

// FindBuildFile returns the path of the build file in dir, if there is one.
func FindBuildFile(dir string) (string, bool) {
	for _, name := range common.BuildFileNames {
		path := filepath.Join(dir, name)
		if finfo, err := os.Stat(path); err == nil && !finfo.IsDir() {
			return path, true
		}
	}

	return "", false
}

// Dispatcher runs the build for a single invocation.
type Dispatcher struct {
	host proc.Host
	cfg  config.Config

	// WorkDir is the directory builds run in.
	WorkDir string

	Stdout io.Writer
	Stderr io.Writer

	// Jobs is the parallelism hint passed to `make`.
	Jobs int
}

// NewDispatcher creates a dispatcher for a configuration.
func NewDispatcher(host proc.Host, cfg config.Config, workDir string) *Dispatcher {
	return &Dispatcher{
		host:    host,
		cfg:     cfg,
		WorkDir: workDir,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Jobs:    runtime.NumCPU(),
	}
}

// Make runs `make` in the working directory, discarding its output, and then
// hands control to the built binary `./<base name>` with the program
// arguments.  Compiler flags from the configuration are not applied.  On
// success the returned exit code is that of the built binary; on platforms
// that replace the process image Make does not return at all.
func (d *Dispatcher) Make(ctx context.Context, target *toolchain.Target, programArgs []string) (int, error) {
	if !proc.Present(d.host, "make") {
		return 1, errors.New("make is not installed: run crun --install")
	}

	logging.BeginPhase("Building")
	res := d.host.Run(ctx, &proc.Command{
		Name:   "make",
		Args:   []string{"-j" + strconv.Itoa(d.Jobs)},
		Dir:    d.WorkDir,
		Stdout: io.Discard,
		Stderr: io.Discard,
	})
	logging.EndPhase(!res.Failed())

	if res.Failed() {
		return 1, ErrBuildFailed
	}

	res = d.host.Exec(&proc.Command{
		Name: "./" + target.BaseName,
		Args: programArgs,
		Dir:  d.WorkDir,
	})

	if res.Err != nil {
		return 1, fmt.Errorf("failed to run %s: %w", target.BaseName, res.Err)
	}

	return res.ExitCode, nil
}

// CompileCommand builds the direct compiler invocation.
func CompileCommand(sel *toolchain.Selection, flags []string, sourceFile string, target *toolchain.Target) *proc.Command {
	args := make([]string, 0, len(flags)+3)
	args = append(args, flags...)
	args = append(args, sourceFile, "-o", target.OutputPath)

	return &proc.Command{Name: sel.Compiler, Args: args}
}

// Compile compiles the source file directly.  Unless verbose mode is active,
// compiler stderr lines containing the warning marker are suppressed.  On
// failure no binary is assumed to exist.
func (d *Dispatcher) Compile(ctx context.Context, sel *toolchain.Selection, flags []string, sourceFile string, target *toolchain.Target) error {
	cmd := CompileCommand(sel, flags, sourceFile, target)
	cmd.Dir = d.WorkDir
	cmd.Stdout = d.Stdout

	var filter *LineFilter
	if d.cfg.Verbose {
		cmd.Stderr = d.Stderr
	} else {
		filter = NewWarningFilter(d.Stderr)
		cmd.Stderr = filter
	}

	res := d.host.Run(ctx, cmd)

	if filter != nil {
		if err := filter.Flush(); err != nil {
			logging.LogWarning("stderr", err.Error())
		}
	}

	if res.Err != nil {
		return fmt.Errorf("%w: %s", ErrCompilationFailed, res.Err)
	}

	if res.Failed() {
		return ErrCompilationFailed
	}

	return nil
}
