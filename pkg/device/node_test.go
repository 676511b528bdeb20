package device

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeOpenerReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	h, err := NodeOpener{}.OpenDevice(path)
	require.NoError(t, err)

	n, err := h.Write([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	require.NoError(t, h.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(data))
}

func TestNodeOpenerReadEOF(t *testing.T) {
	h, err := NodeOpener{}.OpenDevice("/dev/null")
	require.NoError(t, err)
	defer h.Close()

	buf := make([]byte, 8)
	_, err = h.Read(buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestNodeOpenerMissingDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	h, err := NodeOpener{}.OpenDevice(path)
	assert.Nil(t, h)
	require.Error(t, err)

	var opErr *core.OpError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, path, opErr.Path)

	errno, ok := core.Errno(err)
	require.True(t, ok)
	assert.Equal(t, syscall.ENOENT, errno)
}

func TestNodeOpenerPermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	path := filepath.Join(t.TempDir(), "readonly")
	require.NoError(t, os.WriteFile(path, nil, 0400))

	_, err := NodeOpener{}.OpenDevice(path)
	assert.ErrorIs(t, err, syscall.EACCES)
}

func TestNodeHandleCloseTwice(t *testing.T) {
	h, err := NodeOpener{}.OpenDevice("/dev/null")
	require.NoError(t, err)

	require.NoError(t, h.Close())

	err = h.Close()
	assert.ErrorIs(t, err, syscall.EBADF)

	_, err = h.Write([]byte("x"))
	assert.ErrorIs(t, err, syscall.EBADF)
}
