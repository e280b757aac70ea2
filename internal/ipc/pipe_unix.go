//go:build !windows

package ipc

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

func fifoPath(name string) string {
	return filepath.Join(os.TempDir(), name+".fifo")
}

// serveNamedPipeServer creates a FIFO special file and opens it for
// reading and writing. Opened read-write, the call returns at once; it does
// not wait for a peer to open the other end.
func serveNamedPipeServer(name string) (Transport, error) {
	path := fifoPath(name)
	_ = os.Remove(path)
	if err := unix.Mkfifo(path, 0600); err != nil {
		return nil, fmt.Errorf("ipc: mkfifo failed: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, os.ModeNamedPipe)
	if err != nil {
		return nil, fmt.Errorf("ipc: open fifo failed: %w", err)
	}
	return NewStdioTransport(f, f, f), nil
}

// dialNamedPipeClient opens the already-created FIFO from the daemon side.
func dialNamedPipeClient(name string) (Transport, error) {
	path := fifoPath(name)
	f, err := os.OpenFile(path, os.O_RDWR, os.ModeNamedPipe)
	if err != nil {
		return nil, fmt.Errorf("ipc: open fifo failed: %w", err)
	}
	return NewStdioTransport(f, f, f), nil
}
