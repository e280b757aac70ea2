// Command dmnote-overlay is the host process (C6/C7): it spawns the input
// daemon as a child process, drives the note engine from its IPC stream, and
// hosts the overlay window. Modeled on the devkit's app.NewWithID/driver
// lifecycle in internal/ui/fyne_ui.go, generalized from an emulator frontend
// to this overlay's narrower window.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"

	"fyne.io/fyne/v2/app"

	"dmnote/internal/applog"
	"dmnote/internal/config"
	"dmnote/internal/inputcapture"
	"dmnote/internal/ipc"
	"dmnote/internal/noteengine"
	"dmnote/internal/overlay"
	"dmnote/internal/router"
)

const pipeName = "dmnote-ipc"

func main() {
	daemonPath := flag.String("daemon", "", "path to the input-daemon executable (defaults to the one built alongside this binary)")
	flag.Parse()

	logger := applog.NewLogger(2048)
	defer logger.Shutdown()

	settingsPath := config.Path()
	settings, err := config.Load(settingsPath)
	if err != nil {
		logger.LogSystemf(applog.LevelWarning, "settings load: %v, using defaults", err)
	}

	daemon, transport, err := spawnDaemon(*daemonPath, settings.Hotkeys)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dmnote-overlay: failed to start input daemon:", err)
		os.Exit(1)
	}
	defer transport.Close()

	engine := noteengine.New()

	fyneApp := app.NewWithID("dmnote.overlay")
	coordinator := overlay.New(
		overlay.NewFyneWindowHost(fyneApp),
		overlay.NewPlatformMonitorProvider(),
		func(b config.OverlayBounds) {
			settings.Overlay = b
			if err := config.Save(settingsPath, settings); err != nil {
				logger.LogSystemf(applog.LevelWarning, "settings save: %v", err)
			}
		},
	)
	coordinator.LoadPersisted(settings.Overlay)
	coordinator.SetAlwaysOnTop(true)

	r := router.New(engine, logger, commandDispatcher(coordinator))

	cancel := make(chan struct{})
	go func() {
		if err := r.Run(transport, cancel); err != nil {
			logger.LogRouterf(applog.LevelError, "router exited: %v", err)
		}
	}()

	if settings.Overlay.Visible {
		coordinator.SetVisibility(true)
	}

	fyneApp.Run()

	close(cancel)
	coordinator.SetForceClose(true)
	coordinator.SetVisibility(false)
	transport.Close()
	if daemon != nil {
		daemon.Process.Kill()
		daemon.Wait()
	}
}

// commandDispatcher translates daemon hotkey commands into coordinator calls.
func commandDispatcher(c *overlay.Coordinator) router.CommandHandler {
	return func(cmd ipc.Command) {
		switch cmd.Type {
		case ipc.CommandToggleOverlay:
			c.SetVisibility(!c.Visible())
		case ipc.CommandToggleOverlayLock:
			c.SetLock(!c.Locked(), true)
		case ipc.CommandToggleAlwaysOnTop:
			c.SetAlwaysOnTop(!c.AlwaysOnTop())
		}
	}
}

// spawnDaemon launches the input-daemon child process, wiring its stdio to
// an IPC transport (named pipe when available, stdio fallback otherwise;
// see ipc.ServeNamedPipeOrFallback) and passing the configured hotkey
// bindings through the environment the daemon reads at startup.
func spawnDaemon(path string, hotkeys map[string]config.HotkeyBinding) (*exec.Cmd, ipc.Transport, error) {
	if path == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, nil, err
		}
		path = self + "-daemon"
	}

	hotkeyJSON, err := json.Marshal(hotkeys)
	if err != nil {
		return nil, nil, err
	}

	cmd := exec.Command(path, "-pipe", pipeName)
	cmd.Env = append(os.Environ(), inputcapture.EnvHotkeys+"="+string(hotkeyJSON))
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}

	transport := ipc.ServeNamedPipeOrFallback(pipeName, stdout, stdin, multiCloser{stdin, stdout})
	return cmd, transport, nil
}

type multiCloser struct {
	w io.Closer
	r io.Closer
}

func (m multiCloser) Close() error {
	_ = m.w.Close()
	return m.r.Close()
}
