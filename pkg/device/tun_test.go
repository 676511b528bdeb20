//go:build integration
// +build integration

package device

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTUNOpener attaches to a real kernel TUN interface. It needs
// CAP_NET_ADMIN and /dev/net/tun.
func TestTUNOpener(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("Skipping test because creating TUN devices requires root")
	}
	if _, err := os.Stat("/dev/net/tun"); err != nil {
		t.Skipf("Skipping test because /dev/net/tun is unavailable: %v", err)
	}

	h, err := TUNOpener{MTU: 1380}.OpenDevice("devchan-test0")
	require.NoError(t, err)
	assert.NotEqual(t, ^uintptr(0), h.Fd())

	require.NoError(t, h.Close())
	assert.Error(t, h.Close())
}
