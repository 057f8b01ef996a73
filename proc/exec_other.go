//go:build !unix

package proc

import (
	"context"
	"os"
)

// Exec runs c as a blocking child process with crun's standard streams;
// there is no process replacement primitive on this platform.
func (s System) Exec(c *Command) Result {
	path, err := execPath(c)
	if err != nil {
		return Complete(c, -1, err)
	}

	return s.Run(context.Background(), &Command{
		Name:   path,
		Args:   c.Args,
		Dir:    c.Dir,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})
}
