package runner

import (
	"os"
	"os/signal"
)

// ReleaseOnSignal releases the artifact when crun receives an interrupt or
// termination signal, then calls exit with 128 plus the signal number.  The
// returned function stops watching for signals.
func (a *Artifact) ReleaseOnSignal(exit func(code int)) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, releaseSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigs:
			a.ReleaseAndLog()
			exit(128 + signalNumber(sig))
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
