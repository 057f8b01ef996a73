// Package deps makes sure the external tools crun drives are installed,
// installing missing ones through the host's package manager.
package deps

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/0Bleak/crun/logging"
	"github.com/0Bleak/crun/proc"
)

// Dependencies is the fixed, ordered list of tools crun is willing to
// install.
var Dependencies = []string{
	"gcc",
	"g++",
	"clang",
	"clang++",
	"clang-tidy",
	"cppcheck",
	"make",
}

// NoPackageManagerError is returned when a tool is missing and no supported
// package manager exists to install it.
type NoPackageManagerError struct {
	Tool string
}

func (ne *NoPackageManagerError) Error() string {
	return fmt.Sprintf("%s is not installed and no supported package manager was found: install it manually", ne.Tool)
}

// InstallError is returned when the package manager fails to install a tool.
type InstallError struct {
	Tool     string
	Manager  string
	ExitCode int
	Err      error
}

func (ie *InstallError) Error() string {
	if ie.Err != nil {
		return fmt.Sprintf("failed to install %s with %s: %s", ie.Tool, ie.Manager, ie.Err)
	}

	return fmt.Sprintf("failed to install %s with %s (exit status %d)", ie.Tool, ie.Manager, ie.ExitCode)
}

func (ie *InstallError) Unwrap() error {
	return ie.Err
}

// Resolver checks for and installs tools.
type Resolver struct {
	host proc.Host

	// Output receives the package manager's output.
	Output io.Writer

	// IsRoot reports whether crun runs with root privileges.
	IsRoot func() bool

	pm *PackageManager
}

// NewResolver creates a resolver running commands through host.
func NewResolver(host proc.Host, output io.Writer) *Resolver {
	return &Resolver{
		host:   host,
		Output: output,
		IsRoot: func() bool { return os.Geteuid() == 0 },
	}
}

// Status is the presence of a single tool.
type Status struct {
	Tool    string
	Path    string
	Present bool
}

// Check reports the presence of each tool without installing anything.
func (r *Resolver) Check(tools []string) []Status {
	statuses := make([]Status, 0, len(tools))
	for _, tool := range tools {
		path, err := r.host.LookPath(tool)
		statuses = append(statuses, Status{Tool: tool, Path: path, Present: err == nil})
	}

	return statuses
}

// Resolve makes sure every tool is present, installing the missing ones in
// order.  Tools that are already present only cost a lookup.
func (r *Resolver) Resolve(ctx context.Context, tools []string) error {
	for _, tool := range tools {
		if proc.Present(r.host, tool) {
			continue
		}

		if err := r.install(ctx, tool); err != nil {
			return err
		}
	}

	return nil
}

// install installs a single tool with the detected package manager
func (r *Resolver) install(ctx context.Context, tool string) error {
	if r.pm == nil {
		pm, ok := DetectPackageManager(r.host)
		if !ok {
			return &NoPackageManagerError{Tool: tool}
		}

		r.pm = pm
	}

	useSudo := r.pm.NeedsRoot && !r.IsRoot() && proc.Present(r.host, "sudo")
	cmd := r.pm.InstallCommand(tool, useSudo)
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Output
	cmd.Stderr = r.Output

	logging.BeginPhase("Installing " + tool)
	res := r.host.Run(ctx, cmd)
	logging.EndPhase(!res.Failed())

	if res.Failed() {
		return &InstallError{Tool: tool, Manager: r.pm.Name, ExitCode: res.ExitCode, Err: res.Err}
	}

	logging.LogInfo("Installed", fmt.Sprintf("%s (package %s)", tool, r.pm.PackageFor(tool)))
	return nil
}
