package logging

import (
	"errors"
	"syscall"
	"testing"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestReporterSeverities(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(DebugLevel)

	r := NewReporter("channel")

	r.Report(core.SeverityInfo, "opening channel", nil)
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "component=channel")

	buf.Reset()
	r.Report(core.SeverityWarn, "channel not open", errors.New("not open"))
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "error=\"not open\"")
	assert.NotContains(t, buf.String(), "errno")

	buf.Reset()
	r.Report(core.SeverityError, "open failed", &core.OpError{Op: "open", Path: "/dev/missing", Err: syscall.ENOENT})
	out := buf.String()
	assert.Contains(t, out, "level=error")
	assert.Contains(t, out, "errno=2")
	assert.Contains(t, out, "errno_name=ENOENT")
}

func TestReporterWithDoesNotShareFields(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(InfoLevel)

	base := NewReporter("channel")
	tagged := base.With("path", "/dev/example")

	base.Report(core.SeverityInfo, "base", nil)
	assert.NotContains(t, buf.String(), "path=")

	buf.Reset()
	tagged.Report(core.SeverityInfo, "tagged", nil)
	assert.Contains(t, buf.String(), "path=/dev/example")
}

func TestDiscardReporter(t *testing.T) {
	buf := captureOutput(t)

	DiscardReporter.Report(core.SeverityError, "dropped", syscall.EIO)
	assert.Empty(t, buf.String())
}
