package device

import (
	"io"

	"github.com/irctrakz/devchan/pkg/core"
	"golang.org/x/sys/unix"
)

// NodeOpener opens device nodes with a read/write descriptor.
type NodeOpener struct{}

// OpenDevice implements core.DeviceOpener.
func (NodeOpener) OpenDevice(path string) (core.Handle, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, &core.OpError{Op: "open", Path: path, Err: err}
	}
	return &nodeHandle{fd: fd, path: path}, nil
}

type nodeHandle struct {
	fd   int
	path string
}

func (h *nodeHandle) Read(p []byte) (int, error) {
	if h.fd < 0 {
		return 0, &core.OpError{Op: "read", Path: h.path, Err: unix.EBADF}
	}
	n, err := unix.Read(h.fd, p)
	if err != nil {
		return 0, &core.OpError{Op: "read", Path: h.path, Err: err}
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (h *nodeHandle) Write(p []byte) (int, error) {
	if h.fd < 0 {
		return 0, &core.OpError{Op: "write", Path: h.path, Err: unix.EBADF}
	}
	n, err := unix.Write(h.fd, p)
	if err != nil {
		return 0, &core.OpError{Op: "write", Path: h.path, Err: err}
	}
	return n, nil
}

// Close releases the descriptor. The descriptor is forgotten only once the
// kernel accepted the close; a released handle reports EBADF without touching
// a possibly reused descriptor number.
func (h *nodeHandle) Close() error {
	if h.fd < 0 {
		return &core.OpError{Op: "close", Path: h.path, Err: unix.EBADF}
	}
	if err := unix.Close(h.fd); err != nil {
		return &core.OpError{Op: "close", Path: h.path, Err: err}
	}
	h.fd = -1
	return nil
}

func (h *nodeHandle) Fd() uintptr {
	return uintptr(h.fd)
}
