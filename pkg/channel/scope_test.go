package channel

import (
	"errors"
	"syscall"
	"testing"

	"github.com/irctrakz/devchan/pkg/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithReleasesOnReturn(t *testing.T) {
	opener := device.NewMockOpener("/dev/example")

	err := With("/dev/example", opener, nil, func(c *DeviceChannel) error {
		assert.True(t, c.IsOpen())
		_, err := c.Write([]byte("hello"))
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, opener.Opens())
	assert.Equal(t, 1, opener.Releases())
}

func TestWithPropagatesError(t *testing.T) {
	opener := device.NewMockOpener("/dev/example")
	boom := errors.New("boom")

	err := With("/dev/example", opener, nil, func(*DeviceChannel) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, opener.Releases())
}

func TestWithReleasesOnPanic(t *testing.T) {
	opener := device.NewMockOpener("/dev/example")

	assert.Panics(t, func() {
		_ = With("/dev/example", opener, nil, func(*DeviceChannel) error {
			panic("driver gone")
		})
	})

	assert.Equal(t, 1, opener.Releases())
	assert.Equal(t, 0, opener.Live())
}

func TestWithOpenFailure(t *testing.T) {
	opener := device.NewMockOpener()
	called := false

	err := With("/dev/missing", opener, nil, func(*DeviceChannel) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrOpenFailed)
	assert.False(t, called)
	assert.Equal(t, 0, opener.CloseCalls())
}

func TestWithCloseFailureLeavesHandle(t *testing.T) {
	opener := device.NewMockOpener("/dev/example")
	opener.FailNextCloses(syscall.EIO)

	var ch *DeviceChannel
	err := With("/dev/example", opener, nil, func(c *DeviceChannel) error {
		ch = c
		return nil
	})

	require.NoError(t, err)
	assert.True(t, ch.IsOpen())
	assert.Equal(t, 1, opener.CloseCalls())
	assert.Equal(t, 1, opener.Live())
}
