package channel

import (
	"fmt"

	"github.com/irctrakz/devchan/pkg/core"
)

// With opens path on a new channel, runs fn, and releases the channel on
// every exit path, including a panic in fn.
func With(path string, opener core.DeviceOpener, reporter core.Reporter, fn func(*DeviceChannel) error) error {
	c := New(opener, reporter)
	defer c.Release()

	if !c.Open(path) {
		return fmt.Errorf("%w: %s", ErrOpenFailed, path)
	}
	return fn(c)
}
