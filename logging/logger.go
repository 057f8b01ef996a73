package logging

import (
	"io"
	"os"
	"sync"
)

// Logger is a type that is responsible for displaying crun's own output:
// fatal errors, warnings, and verbose tracing of external commands.
type Logger struct {
	LogLevel int

	// out receives all of crun's diagnostics; stdout is left to the programs
	// crun runs.
	out io.Writer

	// m is the mutex used to synchronize printing between the pipeline and
	// the signal handler
	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only fatal errors
	LogLevelWarning        // errors and warnings (DEFAULT)
	LogLevelVerbose        // errors, warnings, phases and every external command
)

// newLogger creates a new logger struct
func newLogger(loglevel int) *Logger {
	return &Logger{
		LogLevel: loglevel,
		out:      os.Stderr,
		m:        &sync.Mutex{},
	}
}

// display runs fn with the output lock held if the logger is at or above the
// given log level.
func (l *Logger) display(level int, fn func(w io.Writer)) {
	l.m.Lock()
	defer l.m.Unlock()

	if l.LogLevel < level {
		return
	}

	fn(l.out)
}
