// Package applog is the host and daemon's shared diagnostics logger: a
// fixed-capacity entry ring fed through a non-blocking channel so a hot path
// (the reader thread, the capture loop) never stalls on log output. Adapted
// from the devkit's own centralized logger, trimmed to the three components
// and the warn/error reporting this repo's daemon and router actually emit.
package applog

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// Logger is the centralized logging system.
type Logger struct {
	entries    []Entry
	entriesMu  sync.RWMutex
	maxEntries int
	writeIndex int
	entryCount int

	logChan  chan Entry
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates a new logger instance with the given ring capacity.
func NewLogger(maxEntries int) *Logger {
	if maxEntries < 100 {
		maxEntries = 100 // Minimum buffer size
	}

	logger := &Logger{
		entries:    make([]Entry, maxEntries),
		maxEntries: maxEntries,
		logChan:    make(chan Entry, 1000), // Buffered channel
		shutdown:   make(chan struct{}),
	}

	logger.wg.Add(1)
	go logger.processLogs()

	return logger
}

// processLogs drains the log channel until Shutdown is called.
func (l *Logger) processLogs() {
	defer l.wg.Done()

	for {
		select {
		case entry := <-l.logChan:
			l.addEntry(entry)
		case <-l.shutdown:
			for {
				select {
				case entry := <-l.logChan:
					l.addEntry(entry)
				default:
					return
				}
			}
		}
	}
}

// addEntry records entry in the ring and mirrors it to stderr (spec §7:
// recoverable errors are logged and swallowed).
func (l *Logger) addEntry(entry Entry) {
	fmt.Fprintln(os.Stderr, entry.Format())

	l.entriesMu.Lock()
	defer l.entriesMu.Unlock()

	l.entries[l.writeIndex] = entry
	l.writeIndex = (l.writeIndex + 1) % l.maxEntries
	if l.entryCount < l.maxEntries {
		l.entryCount++
	}
}

func (l *Logger) logf(component Component, level Level, format string, args ...interface{}) {
	entry := Entry{
		Timestamp: time.Now(),
		Component: component,
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	}
	select {
	case l.logChan <- entry:
	default:
		// Channel full: drop rather than block the caller.
	}
}

// LogCapturef logs a formatted message from the capture daemon.
func (l *Logger) LogCapturef(level Level, format string, args ...interface{}) {
	l.logf(ComponentCapture, level, format, args...)
}

// LogRouterf logs a formatted message from the input router.
func (l *Logger) LogRouterf(level Level, format string, args ...interface{}) {
	l.logf(ComponentRouter, level, format, args...)
}

// LogSystemf logs a formatted message from host startup/shutdown/settings.
func (l *Logger) LogSystemf(level Level, format string, args ...interface{}) {
	l.logf(ComponentSystem, level, format, args...)
}

// Shutdown stops accepting new background processing and waits for every
// already-queued entry to drain.
func (l *Logger) Shutdown() {
	close(l.shutdown)
	l.wg.Wait()
}
