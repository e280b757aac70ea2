package ipc

import (
	"bufio"
	"io"
	"sync"
	"time"
)

// NamedPipeGrace is how long the host waits for a named-pipe connection
// before falling back to stdio piping deterministically.
const NamedPipeGrace = 1500 * time.Millisecond

// Transport is the common line-oriented interface both the named-pipe and
// stdio implementations satisfy.
type Transport interface {
	// ReadLine blocks for the next newline-terminated line, with the
	// trailing newline stripped. Returns io.EOF when the peer is gone.
	ReadLine() ([]byte, error)
	// WriteLine writes one line plus a trailing newline and flushes.
	WriteLine(line []byte) error
	Close() error
}

// stdioTransport is the universal fallback: newline-delimited JSON over the
// daemon child's stdout (read side) or the daemon's own stdout (write side).
type stdioTransport struct {
	scanner *bufio.Scanner
	writeMu sync.Mutex
	w       *bufio.Writer
	closer  io.Closer
}

// NewStdioTransport wraps a reader/writer pair (typically a child process's
// Stdout pipe and, on the daemon side, os.Stdout) as a Transport.
func NewStdioTransport(r io.Reader, w io.Writer, closer io.Closer) Transport {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 4096), 1<<20)
	return &stdioTransport{
		scanner: scanner,
		w:       bufio.NewWriter(w),
		closer:  closer,
	}
}

func (t *stdioTransport) ReadLine() ([]byte, error) {
	if t.scanner.Scan() {
		line := t.scanner.Bytes()
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (t *stdioTransport) WriteLine(line []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()

	if _, err := t.w.Write(line); err != nil {
		return err
	}
	if err := t.w.WriteByte('\n'); err != nil {
		return err
	}
	return t.w.Flush()
}

func (t *stdioTransport) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// DialNamedPipeOrFallback attempts to connect to the named pipe identified
// by name within NamedPipeGrace; on timeout or any error it deterministically
// falls back to the supplied stdio pair.
func DialNamedPipeOrFallback(name string, stdioR io.Reader, stdioW io.Writer, stdioClose io.Closer) Transport {
	type result struct {
		t   Transport
		err error
	}
	ch := make(chan result, 1)
	go func() {
		t, err := dialNamedPipeClient(name)
		ch <- result{t, err}
	}()

	select {
	case res := <-ch:
		if res.err == nil {
			return res.t
		}
	case <-time.After(NamedPipeGrace):
	}
	return NewStdioTransport(stdioR, stdioW, stdioClose)
}

// ServeNamedPipeOrFallback is the host-side counterpart: it tries to
// create and accept one connection on the named pipe within the grace
// period, falling back to the daemon child's stdout/stdin pipes otherwise.
func ServeNamedPipeOrFallback(name string, stdioR io.Reader, stdioW io.Writer, stdioClose io.Closer) Transport {
	type result struct {
		t   Transport
		err error
	}
	ch := make(chan result, 1)
	go func() {
		t, err := serveNamedPipeServer(name)
		ch <- result{t, err}
	}()

	select {
	case res := <-ch:
		if res.err == nil {
			return res.t
		}
	case <-time.After(NamedPipeGrace):
	}
	return NewStdioTransport(stdioR, stdioW, stdioClose)
}
