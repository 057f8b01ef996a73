package common

const (
	CrunVersion = "0.1.0"

	// DefaultOutputDir is where compiled binaries are placed when no output
	// directory is given.
	DefaultOutputDir = "/tmp/crun"

	// ConfigFileName is the name of a project-local defaults file.
	ConfigFileName = ".crun.toml"

	// ConfigEnvVar names an explicit defaults file, overriding the search.
	ConfigEnvVar = "CRUN_CONFIG"

	// FlagsEnvVar holds extra compiler flags appended on the direct path.
	FlagsEnvVar = "CRUN_CFLAGS"
)

// BuildFileNames are the build file spellings that reroute a run to `make`.
var BuildFileNames = []string{"Makefile", "makefile"}
