package main

import (
	"encoding/json"
	"time"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/irctrakz/devchan/pkg/logging"
	"github.com/sirupsen/logrus"
)

type metricsSnapshot struct {
	Timestamp string            `json:"ts"`
	Open      bool              `json:"open"`
	Channel   map[string]uint64 `json:"channel"`
}

func runMetricsReporter(src metricsSource, interval time.Duration, format string, stop <-chan struct{}) {
	if format == "" {
		format = "text"
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		dumpMetrics(src, format)
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

func dumpMetrics(src metricsSource, format string) {
	m := src.Metrics()
	snap := metricsSnapshot{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Open:      m.Live(),
		Channel:   metricsMap(m),
	}

	if format == "json" {
		b, err := json.Marshal(snap)
		if err != nil {
			logging.Warnf("Metrics: marshal failed: %v", err)
			return
		}
		logging.Infof("%s", b)
		return
	}

	fields := logrus.Fields{"open": snap.Open}
	for k, v := range snap.Channel {
		fields[k] = v
	}
	logging.InfoWithFields(fields, "Metrics")
}

func metricsMap(m core.ChannelMetrics) map[string]uint64 {
	return map[string]uint64{
		"opens":          m.Opens,
		"open_failures":  m.OpenFailures,
		"closes":         m.Closes,
		"close_failures": m.CloseFailures,
		"invalid_state":  m.InvalidState,
	}
}
