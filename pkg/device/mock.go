package device

import (
	"io"
	"sync"
	"syscall"

	"github.com/irctrakz/devchan/pkg/core"
)

// MockOpener is an in-memory core.DeviceOpener for tests that doesn't
// require kernel access or elevated privileges. Only registered paths can
// be opened; anything else fails with ENOENT.
type MockOpener struct {
	mu         sync.Mutex
	devices    map[string]bool
	openErrs   map[string]error
	closeErrs  []error
	opens      int
	releases   int
	closeCalls int
	nextFd     uintptr
	lastHandle *MockHandle
}

// NewMockOpener creates a mock opener with the given device paths present.
func NewMockOpener(paths ...string) *MockOpener {
	m := &MockOpener{
		devices:  make(map[string]bool),
		openErrs: make(map[string]error),
		nextFd:   3,
	}
	for _, p := range paths {
		m.devices[p] = true
	}
	return m
}

// AddDevice makes path openable.
func (m *MockOpener) AddDevice(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[path] = true
}

// FailOpen makes every open of path fail with err until cleared with a nil err.
func (m *MockOpener) FailOpen(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.openErrs, path)
		return
	}
	m.openErrs[path] = err
}

// FailNextCloses queues errors returned by the next handle closes, in order.
func (m *MockOpener) FailNextCloses(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErrs = append(m.closeErrs, errs...)
}

// OpenDevice implements core.DeviceOpener.
func (m *MockOpener) OpenDevice(path string) (core.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.openErrs[path]; ok {
		return nil, &core.OpError{Op: "open", Path: path, Err: err}
	}
	if !m.devices[path] {
		return nil, &core.OpError{Op: "open", Path: path, Err: syscall.ENOENT}
	}

	m.opens++
	h := &MockHandle{owner: m, path: path, fd: m.nextFd}
	m.nextFd++
	m.lastHandle = h
	return h, nil
}

// Opens returns the number of handles acquired.
func (m *MockOpener) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Releases returns the number of handles successfully released.
func (m *MockOpener) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// CloseCalls returns the number of close attempts, successful or not.
func (m *MockOpener) CloseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCalls
}

// Live returns the number of handles acquired and not yet released.
func (m *MockOpener) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens - m.releases
}

// LastHandle returns the most recently opened handle, or nil.
func (m *MockOpener) LastHandle() *MockHandle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHandle
}

// MockHandle is the core.Handle produced by MockOpener.
type MockHandle struct {
	owner    *MockOpener
	path     string
	fd       uintptr
	released bool
	inbound  [][]byte
	written  [][]byte
}

// Path returns the device path the handle was opened for.
func (h *MockHandle) Path() string { return h.path }

// Fd returns a fake descriptor number unique per opener.
func (h *MockHandle) Fd() uintptr { return h.fd }

// SimulateInbound queues data to be returned by Read.
func (h *MockHandle) SimulateInbound(data []byte) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	h.inbound = append(h.inbound, append([]byte(nil), data...))
}

// Written returns copies of every buffer written to the handle.
func (h *MockHandle) Written() [][]byte {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	result := make([][]byte, len(h.written))
	for i, b := range h.written {
		result[i] = append([]byte(nil), b...)
	}
	return result
}

func (h *MockHandle) Read(p []byte) (int, error) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	if h.released {
		return 0, &core.OpError{Op: "read", Path: h.path, Err: syscall.EBADF}
	}
	if len(h.inbound) == 0 {
		return 0, io.EOF
	}
	n := copy(p, h.inbound[0])
	if n < len(h.inbound[0]) {
		h.inbound[0] = h.inbound[0][n:]
	} else {
		h.inbound = h.inbound[1:]
	}
	return n, nil
}

func (h *MockHandle) Write(p []byte) (int, error) {
	h.owner.mu.Lock()
	defer h.owner.mu.Unlock()
	if h.released {
		return 0, &core.OpError{Op: "write", Path: h.path, Err: syscall.EBADF}
	}
	h.written = append(h.written, append([]byte(nil), p...))
	return len(p), nil
}

// Close consumes a queued close failure if one exists; otherwise the handle
// is released. Closing a released handle fails with EBADF.
func (h *MockHandle) Close() error {
	m := h.owner
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closeCalls++
	if h.released {
		return &core.OpError{Op: "close", Path: h.path, Err: syscall.EBADF}
	}
	if len(m.closeErrs) > 0 {
		err := m.closeErrs[0]
		m.closeErrs = m.closeErrs[1:]
		return &core.OpError{Op: "close", Path: h.path, Err: err}
	}
	h.released = true
	m.releases++
	return nil
}
