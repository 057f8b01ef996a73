//go:build unix

package proc

import (
	"context"
	"os"

	"golang.org/x/sys/unix"

	"github.com/0Bleak/crun/logging"
)

// Exec replaces the crun process image with c.  If the replacement itself
// fails, c is run as an ordinary child and its status returned instead.
func (s System) Exec(c *Command) Result {
	path, err := execPath(c)
	if err != nil {
		return Complete(c, -1, err)
	}

	if c.Dir != "" {
		if err := os.Chdir(c.Dir); err != nil {
			return Complete(c, -1, err)
		}
	}

	logging.LogCommand(c.Argv())

	// only returns on failure
	if err := unix.Exec(path, c.Argv(), os.Environ()); err != nil {
		logging.LogWarning("exec", "process replacement failed, running as child: "+err.Error())
	}

	return s.Run(context.Background(), &Command{
		Name:   path,
		Args:   c.Args,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}
