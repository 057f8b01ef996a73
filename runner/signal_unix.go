//go:build unix

package runner

import (
	"os"

	"golang.org/x/sys/unix"
)

var releaseSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(unix.Signal); ok {
		return int(s)
	}

	return int(unix.SIGINT)
}
