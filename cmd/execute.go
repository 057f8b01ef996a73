package cmd

import (
	"context"
	"os"

	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/runner"
)

// Execute is the main entry point for the `crun` CLI utility.  It never
// returns.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run runs crun and returns its exit code.  The artifact guard is set up
// before anything else so that the compiled binary is released on every
// path out of here, including signals.
func run(args []string) int {
	artifact := runner.NewArtifact()
	defer artifact.ReleaseAndLog()

	stop := artifact.ReleaseOnSignal(os.Exit)
	defer stop()

	if os.Getenv("NO_COLOR") != "" {
		logging.DisableColor()
	}

	// a broken defaults file must not get in the way of --help, so its error
	// is only reported once help has been ruled out
	workDir, err := os.Getwd()
	defaults := config.Default()
	if err == nil {
		defaults, err = config.Load(workDir)
	}

	inv, argErr := ParseArgs(args, defaults)
	if argErr == nil && inv.ShowHelp {
		printUsage(os.Stdout)
		return 0
	}

	if err != nil {
		logging.LogFatal(err)
		return 1
	}

	if argErr != nil {
		logging.LogFatal(argErr)
		return 1
	}

	if inv.Config.Verbose {
		logging.Initialize(logging.LogLevelVerbose)
	}

	code, err := NewDriver(workDir, artifact).Run(context.Background(), inv)
	if err != nil {
		logging.LogFatal(err)
		return 1
	}

	return code
}
