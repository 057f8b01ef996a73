// Package analysis runs static analyzers over a source file before it is
// compiled.  Analyzer findings never stop compilation.
package analysis

import (
	"context"
	"fmt"
	"io"

	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/proc"
)

// Analyzer is a static analysis tool and the arguments it is run with.
type Analyzer struct {
	Name string
	Args func(sourceFile string) []string
}

// Analyzers are run in order when lint mode is enabled.
var Analyzers = []Analyzer{
	{
		Name: "clang-tidy",
		Args: func(src string) []string { return []string{"--quiet", src, "--"} },
	},
	{
		Name: "cppcheck",
		Args: func(src string) []string {
			return []string{"--enable=all", "--quiet", "--suppress=missingIncludeSystem", src}
		},
	},
}

// MissingToolError is returned when lint mode is on but an analyzer is not
// installed.
type MissingToolError struct {
	Tool string
}

func (me *MissingToolError) Error() string {
	return fmt.Sprintf("%s is required for --lint but is not installed: run crun --install", me.Tool)
}

// Run runs every analyzer against the source file if lint mode is enabled.
// Analyzer output goes to output in verbose mode and is discarded otherwise.
// Only a missing analyzer is an error; the results of the analyzers that ran
// are returned for inspection.
func Run(ctx context.Context, host proc.Host, cfg config.Config, dir, sourceFile string, output io.Writer) ([]proc.Result, error) {
	if !cfg.Lint {
		return nil, nil
	}

	for _, a := range Analyzers {
		if !proc.Present(host, a.Name) {
			return nil, &MissingToolError{Tool: a.Name}
		}
	}

	if !cfg.Verbose {
		output = io.Discard
	}

	results := make([]proc.Result, 0, len(Analyzers))
	for _, a := range Analyzers {
		res := host.Run(ctx, &proc.Command{
			Name:     a.Name,
			Args:     a.Args(sourceFile),
			Dir:      dir,
			Stdout:   output,
			Stderr:   output,
			Advisory: true,
		})

		if res.Failed() {
			logging.LogAdvisory(a.Name, res.ExitCode)
		}

		results = append(results, res)
	}

	return results, nil
}
