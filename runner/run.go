package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/0Bleak/crun/proc"
)

// Stdio holds the standard streams handed to the compiled program.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run runs the compiled binary in the foreground with the program arguments
// and returns its exit status verbatim.
func Run(ctx context.Context, host proc.Host, binary string, programArgs []string, stdio Stdio) (int, error) {
	res := host.Run(ctx, &proc.Command{
		Name:   binary,
		Args:   programArgs,
		Stdin:  stdio.Stdin,
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	})

	if res.Err != nil {
		return 1, fmt.Errorf("failed to run %s: %w", binary, res.Err)
	}

	return res.ExitCode, nil
}
