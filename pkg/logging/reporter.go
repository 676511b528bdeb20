package logging

import (
	"github.com/irctrakz/devchan/pkg/core"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Reporter forwards channel diagnostics to the package logger.
type Reporter struct {
	fields logrus.Fields
}

// NewReporter returns a Reporter tagging every entry with component.
func NewReporter(component string) *Reporter {
	return &Reporter{fields: logrus.Fields{"component": component}}
}

// With returns a copy of r carrying an extra field.
func (r *Reporter) With(key string, value interface{}) *Reporter {
	fields := make(logrus.Fields, len(r.fields)+1)
	for k, v := range r.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Reporter{fields: fields}
}

// Report implements core.Reporter. System errors gain errno and errno_name fields.
func (r *Reporter) Report(sev core.Severity, msg string, err error) {
	entry := logger.WithFields(r.fields)
	if err != nil {
		entry = entry.WithError(err)
		if errno, ok := core.Errno(err); ok {
			entry = entry.WithFields(logrus.Fields{
				"errno":      int(errno),
				"errno_name": unix.ErrnoName(errno),
			})
		}
	}

	switch sev {
	case core.SeverityInfo:
		entry.Info(msg)
	case core.SeverityWarn:
		entry.Warn(msg)
	default:
		entry.Error(msg)
	}
}

type discard struct{}

func (discard) Report(core.Severity, string, error) {}

// DiscardReporter drops every report.
var DiscardReporter core.Reporter = discard{}
