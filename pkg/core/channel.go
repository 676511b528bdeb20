package core

// ChannelMetrics contains counters for a device channel
type ChannelMetrics struct {
	// Opens is the number of successful opens
	Opens uint64

	// OpenFailures is the number of failed acquisitions
	OpenFailures uint64

	// Closes is the number of successful releases
	Closes uint64

	// CloseFailures is the number of failed releases
	CloseFailures uint64

	// InvalidState is the number of open-when-open and close-when-not-open calls
	InvalidState uint64
}

// Live reports whether the counters describe a channel holding a handle.
func (m ChannelMetrics) Live() bool {
	return m.Opens > m.Closes
}
