// Command crunctl manages the toolchain dependencies and configuration files
// used by crun.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ComedicChimera/olive"

	"github.com/0Bleak/crun/common"
	"github.com/0Bleak/crun/config"
	"github.com/0Bleak/crun/deps"
	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/proc"
)

func main() {
	os.Exit(execute())
}

// execute runs crunctl and returns its exit code
func execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("crunctl", "crunctl manages crun's toolchain and configuration", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("warn")

	depsCmd := cli.AddSubcommand("deps", "check toolchain dependencies", true)
	depsCmd.AddFlag("install", "i", "install any missing dependencies")

	configCmd := cli.AddSubcommand("config", "manage crun configuration files", true)
	configInitCmd := configCmd.AddSubcommand("init", "write a default configuration file", true)
	configInitCmd.AddFlag("force", "f", "overwrite an existing configuration file")
	configInitCmd.AddPrimaryArg("dir", "the directory to write the configuration file to", false)

	cli.AddSubcommand("version", "print the crun version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		logging.LogFatal(fmt.Errorf("usage error: %w", err))
		return 1
	}

	logging.Initialize(logging.LevelFromName(result.Arguments["loglevel"].(string)))

	// process the inputted command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "deps":
		err = execDepsCommand(subResult)
	case "config":
		err = execConfigCommand(subResult)
	case "version":
		fmt.Println("crun " + common.CrunVersion)
	}

	if err != nil {
		logging.LogFatal(err)
		return 1
	}

	return 0
}

// execDepsCommand reports every dependency and installs missing ones if
// requested
func execDepsCommand(result *olive.ArgParseResult) error {
	resolver := deps.NewResolver(proc.System{}, os.Stderr)

	if result.HasFlag("install") {
		if err := resolver.Resolve(context.Background(), deps.Dependencies); err != nil {
			return err
		}
	}

	missing := 0
	for _, status := range resolver.Check(deps.Dependencies) {
		if status.Present {
			fmt.Printf("%-12s %s\n", status.Tool, status.Path)
		} else {
			missing++
			fmt.Printf("%-12s %s\n", status.Tool, "missing")
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d dependencies missing: run crunctl deps --install", missing)
	}

	return nil
}

// execConfigCommand executes the `config` subcommand and its subcommands
func execConfigCommand(result *olive.ArgParseResult) error {
	subcmdName, subResult, _ := result.Subcommand()
	if subcmdName == "" {
		return errors.New("config requires a subcommand: init")
	}

	switch subcmdName {
	case "init":
		dir, _ := subResult.PrimaryArg()
		if dir == "" {
			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			dir = workDir
		}

		path := filepath.Join(dir, common.ConfigFileName)
		if err := config.WriteDefaultFile(path, subResult.HasFlag("force")); err != nil {
			return err
		}

		logging.LogInfo("Config", "wrote "+path)
	}

	return nil
}
