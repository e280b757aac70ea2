package applog

import (
	"fmt"
	"time"
)

// Level represents the severity level of a log entry.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}

// Component identifies the subsystem that produced a log entry.
type Component string

const (
	ComponentCapture Component = "Capture"
	ComponentRouter  Component = "Router"
	ComponentSystem  Component = "System"
)

// Entry represents a single log entry.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     Level
	Message   string
}

// Format renders the entry as a single human-readable line.
func (e *Entry) Format() string {
	timestamp := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", timestamp, e.Component, e.Level, e.Message)
}
