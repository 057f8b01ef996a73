package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/0Bleak/crun/common"
	"github.com/0Bleak/crun/config"
)

const usage = `Usage: crun [OPTIONS] <source_file> [program_args...]

Compiles a single C or C++ source file (or the project in the current
directory, if it has a Makefile), runs it, and removes the binary.

Flags:
------
--help          Displays usage information (ie. this text).
--keep          Keeps the compiled binary in the output directory.
-d, --debug     Compiles with debug symbols.
-s, --sanitize  Compiles with the address and undefined behavior sanitizers.
-p, --profile   Compiles with gprof instrumentation.
-v, --verbose   Shows compiler warnings, analyzer output, and every command
                crun runs.
--static        Links statically.
--lint          Runs clang-tidy and cppcheck before compiling.
--install       Installs missing toolchain dependencies first.  Without a
                source file, only installs dependencies.
-O0|-O1|-O2|-O3 Sets the optimization level (default -O2).

Options:
--------
--outdir <dir>  Sets the directory the binary is written to.  Defaults to
                ` + common.DefaultOutputDir + `.

Every argument after the source file is passed to the program unchanged.
Defaults may be set in ` + common.ConfigFileName + ` (see crunctl config init).
`

// printUsage writes the usage text
func printUsage(w io.Writer) {
	fmt.Fprint(w, usage)
}

// UsageError is returned for invalid command lines.
type UsageError struct {
	Message string
}

func (ue *UsageError) Error() string {
	return ue.Message + " (see crun --help)"
}

// argumentError creates a new usage error
func argumentError(message string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(message, args...)}
}

// Invocation is a parsed command line.
type Invocation struct {
	Config config.Config

	// SourceFile is empty if no source file was given.
	SourceFile string

	// ProgramArgs are forwarded verbatim to the compiled program.
	ProgramArgs []string

	// ShowHelp short-circuits all other processing.
	ShowHelp bool
}

// argParser is a single pass, left-to-right command-line argument parser.
type argParser struct {
	// The arguments being parsed.
	args []string

	// The argument parser's position within those arguments.
	ndx int
}

// next returns the next argument if one exists
func (ap *argParser) next() (string, bool) {
	if ap.ndx < len(ap.args) {
		arg := ap.args[ap.ndx]
		ap.ndx++
		return arg, true
	}

	return "", false
}

// rest consumes and returns every remaining argument
func (ap *argParser) rest() []string {
	rest := append([]string{}, ap.args[ap.ndx:]...)
	ap.ndx = len(ap.args)
	return rest
}

// ParseArgs parses the command line (without the program name) on top of
// the given defaults.  Options are recognized until the first argument that
// is not an option: that argument is the source file and everything after it
// is a program argument.
func ParseArgs(args []string, defaults config.Config) (*Invocation, error) {
	inv := &Invocation{Config: defaults}
	cfg := &inv.Config

	ap := argParser{args: args}
	for {
		arg, ok := ap.next()
		if !ok {
			break
		}

		switch arg {
		case "--help":
			return &Invocation{Config: defaults, ShowHelp: true}, nil
		case "--keep":
			cfg.Keep = true
		case "-d", "--debug":
			cfg.Debug = true
		case "-s", "--sanitize":
			cfg.Sanitize = true
		case "-p", "--profile":
			cfg.Profile = true
		case "-v", "--verbose":
			cfg.Verbose = true
		case "--static":
			cfg.StaticLink = true
		case "--lint":
			cfg.Lint = true
		case "--install":
			cfg.ForceInstall = true
		case "--outdir":
			value, ok := ap.next()
			if !ok || value == "" || strings.HasPrefix(value, "-") {
				return nil, argumentError("option --outdir requires a directory")
			}

			cfg.OutputDir = value
		default:
			if level, ok := config.ParseOptLevel(arg); ok {
				cfg.OptLevel = level
				continue
			}

			if strings.HasPrefix(arg, "-") {
				return nil, argumentError("unknown option: %s", arg)
			}

			inv.SourceFile = arg
			inv.ProgramArgs = ap.rest()
			return inv, nil
		}
	}

	return inv, nil
}
