package toolchain

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/0Bleak/crun/config"
)

// BaselineFlags are passed to every direct compilation after the
// optimization level.
var BaselineFlags = []string{
	"-pipe",         // use pipes rather than temporary files
	"-Wall",         // full warnings
	"-Wextra",       // ...and then some
	"-Werror",       // warnings are errors
	"-pthread",      // thread support
	"-march=native", // target the host CPU
}

// Conditional flags
const (
	DebugFlag  = "-g"
	ProfFlag   = "-pg"
	StaticFlag = "-static"
)

// SanitizeFlags enables the address and undefined behavior sanitizers.
var SanitizeFlags = []string{"-fsanitize=address", "-fsanitize=undefined"}

// AssembleFlags builds the ordered compiler flag list for a configuration:
// the optimization level, then the baseline flags, then conditional flags,
// then any extra flags from the defaults file or environment.
func AssembleFlags(cfg config.Config) []string {
	flags := make([]string, 0, 1+len(BaselineFlags)+len(SanitizeFlags)+3+len(cfg.ExtraFlags))
	flags = append(flags, cfg.OptLevel.Flag())
	flags = append(flags, BaselineFlags...)

	if cfg.Debug {
		flags = append(flags, DebugFlag)
	}

	if cfg.Sanitize {
		flags = append(flags, SanitizeFlags...)
	}

	if cfg.Profile {
		flags = append(flags, ProfFlag)
	}

	if cfg.StaticLink {
		flags = append(flags, StaticFlag)
	}

	return append(flags, cfg.ExtraFlags...)
}

// Prepare assembles the compiler flags and the build target for a source
// file, creating the output directory (and its parents) if needed.  A
// relative output directory is resolved against workDir.
func Prepare(cfg config.Config, workDir, sourceFile string) (*Target, []string, error) {
	outputDir := cfg.OutputDir
	if !filepath.IsAbs(outputDir) {
		outputDir = filepath.Join(workDir, outputDir)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	return NewTarget(sourceFile, outputDir), AssembleFlags(cfg), nil
}
