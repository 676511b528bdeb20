// Package channel guards the lifecycle of a single privileged device handle.
//
// A DeviceChannel owns zero or one open handle. It is not safe for concurrent
// state transitions; callers serialize Open, Close and Release themselves.
// Only Metrics may be read from other goroutines.
package channel

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/irctrakz/devchan/pkg/core"
	"github.com/irctrakz/devchan/pkg/device"
	"github.com/irctrakz/devchan/pkg/logging"
)

var (
	// ErrAlreadyOpen is reported when Open is called on an open channel.
	ErrAlreadyOpen = errors.New("channel already open")

	// ErrNotOpen is reported when Close is called on a closed channel, and
	// returned by Read and Write.
	ErrNotOpen = errors.New("channel not open")

	// ErrOpenFailed is returned by With when the device could not be opened.
	ErrOpenFailed = errors.New("channel open failed")
)

// DeviceChannel owns at most one open device handle.
type DeviceChannel struct {
	opener   core.DeviceOpener
	reporter core.Reporter

	// handle is nil while the channel is not open.
	handle  core.Handle
	path    string
	session string

	released bool
	metrics  core.ChannelMetrics
}

// New creates a channel in the not-open state. No resource is acquired.
func New(opener core.DeviceOpener, reporter core.Reporter) *DeviceChannel {
	if opener == nil {
		opener = device.NodeOpener{}
	}
	if reporter == nil {
		reporter = logging.DiscardReporter
	}
	return &DeviceChannel{opener: opener, reporter: reporter}
}

// IsOpen reports whether the channel holds a handle.
func (c *DeviceChannel) IsOpen() bool {
	return c.handle != nil
}

// Path returns the path of the open device, or "" when not open.
func (c *DeviceChannel) Path() string {
	return c.path
}

// Session returns the identifier assigned by the last successful Open, or ""
// when not open.
func (c *DeviceChannel) Session() string {
	return c.session
}

// Open acquires a read/write handle to the device named by path. It returns
// false if the channel is already open (the existing handle is kept) or if
// the acquisition fails.
func (c *DeviceChannel) Open(path string) bool {
	if c.IsOpen() {
		atomic.AddUint64(&c.metrics.InvalidState, 1)
		c.reporter.Report(core.SeverityWarn, "channel already open: "+c.path, ErrAlreadyOpen)
		return false
	}

	c.reporter.Report(core.SeverityInfo, "opening channel: "+path, nil)

	h, err := c.opener.OpenDevice(path)
	if err != nil {
		atomic.AddUint64(&c.metrics.OpenFailures, 1)
		c.reporter.Report(core.SeverityError, "failed to open channel: "+path, err)
		return false
	}

	c.handle = h
	c.path = path
	c.session = uuid.NewString()
	atomic.AddUint64(&c.metrics.Opens, 1)
	return true
}

// Close releases the handle. Closing a channel that is not open is a no-op.
// If the release fails the channel stays open so Close can be retried.
func (c *DeviceChannel) Close() {
	if !c.IsOpen() {
		atomic.AddUint64(&c.metrics.InvalidState, 1)
		c.reporter.Report(core.SeverityWarn, "channel not open", ErrNotOpen)
		return
	}

	if err := c.handle.Close(); err != nil {
		atomic.AddUint64(&c.metrics.CloseFailures, 1)
		c.reporter.Report(core.SeverityError, "failed to close channel: "+c.path, err)
		return
	}

	c.handle = nil
	c.path = ""
	c.session = ""
	atomic.AddUint64(&c.metrics.Closes, 1)
}

// Release ends the channel's lifetime. The first call runs Close; later
// calls do nothing. A failed release is not retried.
func (c *DeviceChannel) Release() {
	if c.released {
		return
	}
	c.released = true
	c.Close()
}

// Read reads from the open device.
func (c *DeviceChannel) Read(p []byte) (int, error) {
	if !c.IsOpen() {
		return 0, ErrNotOpen
	}
	return c.handle.Read(p)
}

// Write writes to the open device.
func (c *DeviceChannel) Write(p []byte) (int, error) {
	if !c.IsOpen() {
		return 0, ErrNotOpen
	}
	return c.handle.Write(p)
}

// Metrics returns a snapshot of the channel counters. Safe for concurrent use.
func (c *DeviceChannel) Metrics() core.ChannelMetrics {
	return core.ChannelMetrics{
		Opens:         atomic.LoadUint64(&c.metrics.Opens),
		OpenFailures:  atomic.LoadUint64(&c.metrics.OpenFailures),
		Closes:        atomic.LoadUint64(&c.metrics.Closes),
		CloseFailures: atomic.LoadUint64(&c.metrics.CloseFailures),
		InvalidState:  atomic.LoadUint64(&c.metrics.InvalidState),
	}
}
