package logging

import (
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
)

// logger is the global logger shared by every stage of the pipeline
var logger = newLogger(LogLevelWarning)

// Initialize sets the global logger to the given log level
func Initialize(loglevel int) {
	logger.m.Lock()
	defer logger.m.Unlock()

	logger.LogLevel = loglevel
}

// LevelFromName converts a log level name into one of the enumerated log
// levels.  Unknown names select the default level.
func LevelFromName(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelWarning
	}
}

// SetOutput redirects all diagnostics to w.  It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	logger.m.Lock()
	defer logger.m.Unlock()

	prev := logger.out
	logger.out = w
	return prev
}

// DisableColor turns off all terminal styling
func DisableColor() {
	pterm.DisableColor()
}

// -----------------------------------------------------------------------------
// NOTE: All log functions only display if the appropriate log level is set.
// Below that level they fail silently.

// LogFatal logs an error that halts the pipeline.  The caller is responsible
// for exiting with a non-zero status.
func LogFatal(err error) {
	logger.display(LogLevelError, func(w io.Writer) {
		displayEndPhase(false)
		printErrorMessage(w, "error:", err)
	})
}

// LogWarning logs a non-fatal problem
func LogWarning(tag, msg string) {
	logger.display(LogLevelWarning, func(w io.Writer) {
		printWarningMessage(w, tag, msg)
	})
}

// LogInfo logs an informational message in verbose mode
func LogInfo(tag, msg string) {
	logger.display(LogLevelVerbose, func(w io.Writer) {
		printInfoMessage(w, tag, msg)
	})
}

// LogAdvisory logs a tolerated failure of an external tool
func LogAdvisory(tool string, exitCode int) {
	logger.display(LogLevelVerbose, func(w io.Writer) {
		printWarningMessage(w, tool, fmt.Sprintf("exited with status %d (ignored)", exitCode))
	})
}

// LogCommand traces an external command line in verbose mode
func LogCommand(argv []string) {
	logger.display(LogLevelVerbose, func(w io.Writer) {
		fmt.Fprintln(w, InfoColorFG.Sprint("$"), shellquote.Join(argv...))
	})
}

// BeginPhase starts a progress spinner for a long running external step.
// Spinners are only shown in verbose mode.
func BeginPhase(phase string) {
	logger.display(LogLevelVerbose, func(io.Writer) {
		displayBeginPhase(phase)
	})
}

// EndPhase stops the current progress spinner if there is one
func EndPhase(success bool) {
	logger.display(LogLevelVerbose, func(io.Writer) {
		displayEndPhase(success)
	})
}
