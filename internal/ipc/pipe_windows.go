//go:build windows

package ipc

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

const pipeBufferSize = 4096

func pipePath(name string) string {
	return `\\.\pipe\` + name
}

// serveNamedPipeServer creates the named pipe on the host side and blocks
// until one client (the daemon) connects, via CreateNamedPipe/ConnectNamedPipe.
func serveNamedPipeServer(name string) (Transport, error) {
	path, err := windows.UTF16PtrFromString(pipePath(name))
	if err != nil {
		return nil, fmt.Errorf("ipc: pipe path encode failed: %w", err)
	}

	handle, err := windows.CreateNamedPipe(
		path,
		windows.PIPE_ACCESS_DUPLEX,
		windows.PIPE_TYPE_BYTE|windows.PIPE_READMODE_BYTE|windows.PIPE_WAIT,
		1,
		pipeBufferSize,
		pipeBufferSize,
		0,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("ipc: CreateNamedPipe failed: %w", err)
	}

	if err := windows.ConnectNamedPipe(handle, nil); err != nil && err != windows.ERROR_PIPE_CONNECTED {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("ipc: ConnectNamedPipe failed: %w", err)
	}

	f := os.NewFile(uintptr(handle), pipePath(name))
	return NewStdioTransport(f, f, f), nil
}

// dialNamedPipeClient opens the pipe as a regular file, as the daemon process
// does to write its event stream to the host.
func dialNamedPipeClient(name string) (Transport, error) {
	path := pipePath(name)
	pathPtr, err := syscall.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("ipc: pipe path encode failed: %w", err)
	}

	handle, err := syscall.CreateFile(
		pathPtr,
		syscall.GENERIC_READ|syscall.GENERIC_WRITE,
		0,
		nil,
		syscall.OPEN_EXISTING,
		syscall.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("ipc: CreateFile on pipe failed: %w", err)
	}

	f := os.NewFile(uintptr(handle), path)
	return NewStdioTransport(f, f, f), nil
}
