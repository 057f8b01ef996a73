// Package cmd is the top-level driver for crun: it parses the command line
// and runs each stage of the pipeline in order.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/0Bleak/crun/analysis"
	"github.com/0Bleak/crun/build"
	"github.com/0Bleak/crun/deps"
	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/proc"
	"github.com/0Bleak/crun/runner"
	"github.com/0Bleak/crun/toolchain"
)

// Driver runs the pipeline for a single invocation.
type Driver struct {
	Host proc.Host

	// WorkDir is the directory the source file and build file are resolved
	// against.
	WorkDir string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Artifact guards the compiled binary.  The caller releases it.
	Artifact *runner.Artifact
}

// NewDriver creates a driver on the host system with crun's own streams.
func NewDriver(workDir string, artifact *runner.Artifact) *Driver {
	return &Driver{
		Host:     proc.System{},
		WorkDir:  workDir,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Artifact: artifact,
	}
}

// Run runs the pipeline: dependency resolution (if forced), compiler
// selection, flag assembly, analysis, build dispatch and execution.  It
// returns the exit code crun should exit with; any error is fatal.
func (d *Driver) Run(ctx context.Context, inv *Invocation) (int, error) {
	cfg := inv.Config

	if cfg.ForceInstall {
		resolver := deps.NewResolver(d.Host, d.Stderr)
		if err := resolver.Resolve(ctx, deps.Dependencies); err != nil {
			return 1, err
		}

		if inv.SourceFile == "" {
			logging.LogInfo("Dependencies", "all dependencies are installed")
			return 0, nil
		}
	}

	if inv.SourceFile == "" {
		return 1, argumentError("no source file specified")
	}

	if err := d.checkSource(inv.SourceFile); err != nil {
		return 1, err
	}

	sel, err := toolchain.Select(d.Host, inv.SourceFile, cfg)
	if err != nil {
		return 1, err
	}
	logging.LogInfo(sel.Language.String(), "compiling with "+sel.Compiler)

	target, flags, err := toolchain.Prepare(cfg, d.WorkDir, inv.SourceFile)
	if err != nil {
		return 1, err
	}

	if _, err := analysis.Run(ctx, d.Host, cfg, d.WorkDir, inv.SourceFile, d.Stderr); err != nil {
		return 1, err
	}

	disp := build.NewDispatcher(d.Host, cfg, d.WorkDir)
	disp.Stdout, disp.Stderr = d.Stdout, d.Stderr

	if buildFile, ok := build.FindBuildFile(d.WorkDir); ok {
		logging.LogInfo("Build", "using "+filepath.Base(buildFile))
		return disp.Make(ctx, target, inv.ProgramArgs)
	}

	d.Artifact.Track(target.OutputPath, cfg.Keep)
	if err := disp.Compile(ctx, sel, flags, inv.SourceFile, target); err != nil {
		return 1, err
	}

	return runner.Run(ctx, d.Host, target.OutputPath, inv.ProgramArgs, runner.Stdio{
		Stdin:  d.Stdin,
		Stdout: d.Stdout,
		Stderr: d.Stderr,
	})
}

// checkSource makes sure the source file exists and is a regular file
func (d *Driver) checkSource(sourceFile string) error {
	path := sourceFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(d.WorkDir, path)
	}

	finfo, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source file not found: %s", sourceFile)
	}

	if !finfo.Mode().IsRegular() {
		return fmt.Errorf("source file is not a regular file: %s", sourceFile)
	}

	return nil
}
