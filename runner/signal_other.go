//go:build !unix

package runner

import "os"

var releaseSignals = []os.Signal{os.Interrupt}

func signalNumber(os.Signal) int {
	return 2
}
