package proc

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/0Bleak/crun/logging"
)

// System runs processes on the host operating system.
type System struct{}

func (System) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (System) Run(ctx context.Context, c *Command) Result {
	logging.LogCommand(c.Argv())

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	code, err := exitStatus(cmd.Run())
	return Complete(c, code, err)
}

// execPath resolves the executable for c relative to its working directory.
func execPath(c *Command) (string, error) {
	if filepath.Base(c.Name) == c.Name {
		return exec.LookPath(c.Name)
	}

	if c.Dir != "" && !filepath.IsAbs(c.Name) {
		return filepath.Join(c.Dir, c.Name), nil
	}

	return c.Name, nil
}
