// Package config defines crun's configuration record: the immutable set of
// options that every stage of the pipeline reads.
package config

import (
	"fmt"

	"github.com/0Bleak/crun/common"
)

// OptLevel is a compiler optimization level.
type OptLevel int

// Enumeration of optimization levels
const (
	O0 OptLevel = iota
	O1
	O2
	O3
)

// DefaultOptLevel is used when no optimization token is given.
const DefaultOptLevel = O2

var optTokens = map[string]OptLevel{
	"-O0": O0,
	"-O1": O1,
	"-O2": O2,
	"-O3": O3,
}

// ParseOptLevel converts an optimization token such as `-O3` into a level.
func ParseOptLevel(token string) (OptLevel, bool) {
	level, ok := optTokens[token]
	return level, ok
}

// Flag returns the compiler flag selecting this level.
func (o OptLevel) Flag() string {
	return fmt.Sprintf("-O%d", int(o))
}

func (o OptLevel) String() string {
	return o.Flag()
}

// ToolchainPair is a (primary, fallback) pair of compiler names.
type ToolchainPair struct {
	Primary  string
	Fallback string
}

// Config is the configuration record.  It is built once per invocation and
// passed by value: nothing downstream of the parser modifies it.
type Config struct {
	OptLevel OptLevel

	Keep         bool // retain the compiled binary
	Debug        bool // emit debug symbols
	Sanitize     bool // address and undefined behavior sanitizers
	Profile      bool // gprof instrumentation
	Verbose      bool
	StaticLink   bool
	Lint         bool // run static analysis before compiling
	ForceInstall bool // resolve dependencies before anything else

	// OutputDir is the directory compiled binaries are written to.
	OutputDir string

	// ExtraFlags are appended to the compiler flags on the direct path.
	ExtraFlags []string

	// Toolchains overrides the compiler pair for a source extension.
	Toolchains map[string]ToolchainPair
}

// Default returns the configuration used when no defaults file and no
// options are given.
func Default() Config {
	return Config{
		OptLevel:  DefaultOptLevel,
		OutputDir: common.DefaultOutputDir,
	}
}

// Toolchain returns the overridden toolchain pair for an extension, if any.
func (c Config) Toolchain(ext string) (ToolchainPair, bool) {
	pair, ok := c.Toolchains[ext]
	return pair, ok
}
