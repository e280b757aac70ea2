// Command input-daemon is the out-of-process input tap (C2): it installs
// the platform keyboard/mouse hooks, classifies and labels every transition,
// detects the configured global hotkeys, and streams the result to the host
// process over the IPC transport (C3) until its stdin is closed or the
// transport is lost.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"dmnote/internal/applog"
	"dmnote/internal/config"
	"dmnote/internal/inputcapture"
	"dmnote/internal/ipc"
)

func main() {
	pipeName := flag.String("pipe", "dmnote-ipc", "named-pipe/FIFO identifier shared with the host process")
	flag.Parse()

	logger := applog.NewLogger(512)
	defer logger.Shutdown()

	hotkeys, err := inputcapture.ParseHotkeyConfig(os.Getenv(inputcapture.EnvHotkeys))
	if err != nil {
		logger.LogCapturef(applog.LevelWarning, "hotkey config: %v, falling back to defaults", err)
		hotkeys = config.DefaultHotkeys()
	}

	transport := ipc.DialNamedPipeOrFallback(*pipeName, os.Stdin, os.Stdout, nil)
	defer transport.Close()

	emitter := inputcapture.NewEmitter(transport, logger, hotkeys)

	stop := make(chan struct{})
	go watchStdinClosed(stop)

	// Windows low-level hooks are delivered on the thread that installed
	// them, so Run must own a dedicated OS thread for the life of the
	// process (mirrors the devkit's input-polling goroutine doing the same
	// for its SDL2 event pump).
	runtime.LockOSThread()

	if err := inputcapture.Run(emitter, stop); err != nil {
		logger.LogCapturef(applog.LevelError, "capture run exited: %v", err)
		fmt.Fprintln(os.Stderr, "input-daemon:", err)
		os.Exit(1)
	}
}

// watchStdinClosed signals stop once the host closes its end of the stdio
// fallback pipe, so the daemon exits cleanly even when it never had a
// native-transport handle to detect loss on.
func watchStdinClosed(stop chan<- struct{}) {
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			close(stop)
			return
		}
	}
}
