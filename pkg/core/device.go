package core

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Severity is the level at which a channel condition is reported.
type Severity int

// Severities understood by a Reporter.
const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Reporter receives diagnostics from a device channel.
type Reporter interface {
	// Report records msg at the given severity. err carries the system-level
	// detail of the failed call and may be nil.
	Report(sev Severity, msg string, err error)
}

// Handle is an open, exclusively owned device handle.
type Handle interface {
	io.ReadWriter

	// Close releases the underlying platform resource.
	Close() error

	// Fd returns the platform descriptor backing the handle.
	Fd() uintptr
}

// DeviceOpener acquires read/write handles to device endpoints.
type DeviceOpener interface {
	// OpenDevice opens the endpoint named by path.
	OpenDevice(path string) (Handle, error)
}

// OpError records a failed system call against a device path.
type OpError struct {
	Op   string
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Errno extracts the operating system error number from err, if any.
func Errno(err error) (syscall.Errno, bool) {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno, true
	}
	return 0, false
}
