package device

import (
	"fmt"
	"os"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/irctrakz/devchan/pkg/logging"
	wtun "golang.zx2c4.com/wireguard/tun"
)

const (
	// DefaultTUNMTU matches the plaintext MTU wireguard-go uses by default.
	DefaultTUNMTU = 1420

	// tunOffset leaves headroom in front of written packets for the
	// virtio-net header the kernel TUN driver expects.
	tunOffset = 16

	maxPacketSize = 65535
)

// TUNOpener attaches to a kernel TUN interface. The path passed to OpenDevice
// is the interface name.
type TUNOpener struct {
	MTU int
}

// OpenDevice implements core.DeviceOpener.
func (o TUNOpener) OpenDevice(name string) (core.Handle, error) {
	mtu := o.MTU
	if mtu <= 0 {
		mtu = DefaultTUNMTU
	}
	dev, err := wtun.CreateTUN(name, mtu)
	if err != nil {
		return nil, &core.OpError{Op: "open", Path: name, Err: err}
	}
	batch := dev.BatchSize()
	if batch < 1 {
		batch = 1
	}
	h := &tunHandle{
		dev:   dev,
		name:  name,
		bufs:  make([][]byte, batch),
		sizes: make([]int, batch),
	}
	for i := range h.bufs {
		h.bufs[i] = make([]byte, maxPacketSize)
	}
	if actual, err := dev.Name(); err == nil && actual != name {
		logging.Debugf("TUN %s attached as %s", name, actual)
	}
	return h, nil
}

// tunHandle adapts wireguard-go's batch API to single packet reads and writes.
type tunHandle struct {
	dev    wtun.Device
	name   string
	closed bool

	bufs    [][]byte
	sizes   []int
	pending [][]byte
}

// Read returns one packet per call, draining a previously read batch first.
func (h *tunHandle) Read(p []byte) (int, error) {
	if h.closed {
		return 0, &core.OpError{Op: "read", Path: h.name, Err: os.ErrClosed}
	}
	if len(h.pending) == 0 {
		n, err := h.dev.Read(h.bufs, h.sizes, 0)
		if err != nil {
			return 0, &core.OpError{Op: "read", Path: h.name, Err: err}
		}
		for i := 0; i < n; i++ {
			h.pending = append(h.pending, h.bufs[i][:h.sizes[i]])
		}
		if len(h.pending) == 0 {
			return 0, nil
		}
	}
	pkt := h.pending[0]
	h.pending = h.pending[1:]
	if len(pkt) > len(p) {
		return 0, fmt.Errorf("tun %s: packet of %d bytes exceeds buffer of %d", h.name, len(pkt), len(p))
	}
	return copy(p, pkt), nil
}

// Write sends p as a single packet.
func (h *tunHandle) Write(p []byte) (int, error) {
	if h.closed {
		return 0, &core.OpError{Op: "write", Path: h.name, Err: os.ErrClosed}
	}
	buf := make([]byte, tunOffset+len(p))
	copy(buf[tunOffset:], p)
	if _, err := h.dev.Write([][]byte{buf}, tunOffset); err != nil {
		return 0, &core.OpError{Op: "write", Path: h.name, Err: err}
	}
	return len(p), nil
}

func (h *tunHandle) Close() error {
	if h.closed {
		return &core.OpError{Op: "close", Path: h.name, Err: os.ErrClosed}
	}
	if err := h.dev.Close(); err != nil {
		return &core.OpError{Op: "close", Path: h.name, Err: err}
	}
	h.closed = true
	h.pending = nil
	return nil
}

func (h *tunHandle) Fd() uintptr {
	if f := h.dev.File(); f != nil {
		return f.Fd()
	}
	return ^uintptr(0)
}
