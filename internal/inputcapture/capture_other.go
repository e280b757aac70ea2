//go:build !windows && !linux

package inputcapture

// Run on platforms with no native capture binding wired up yet keeps the
// daemon process alive and the IPC sink connected, emitting nothing, until
// stop is closed. See DESIGN.md.
func Run(e *Emitter, stop <-chan struct{}) error {
	<-stop
	return nil
}
