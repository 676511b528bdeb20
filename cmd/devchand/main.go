package main

import (
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/irctrakz/devchan/pkg/channel"
	"github.com/irctrakz/devchan/pkg/config"
	"github.com/irctrakz/devchan/pkg/device"
	"github.com/irctrakz/devchan/pkg/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to a .yaml/.yml/.json config file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		if err := config.LoadFromFile(*configPath, cfg); err != nil {
			logging.Errorf("config: %v", err)
			return 1
		}
	}
	config.LoadFromEnv(cfg)

	// Debug logging toggle via DEBUG env (truthy parser)
	dval := strings.ToLower(strings.TrimSpace(os.Getenv("DEBUG")))
	if dval == "1" || dval == "true" || dval == "yes" || dval == "on" {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		logging.Errorf("config: %v", err)
		return 1
	}
	if err := cfg.ApplyLogging(); err != nil {
		logging.Errorf("logging: %v", err)
		return 1
	}

	opener, err := device.NewOpener(cfg.Channel)
	if err != nil {
		logging.Errorf("device: %v", err)
		return 1
	}

	path := cfg.Channel.DevicePath
	ch := channel.New(opener, logging.NewReporter("channel").With("kind", cfg.Channel.Kind))
	defer ch.Release()

	// Retrying or aborting on a failed open is this daemon's policy, not the channel's.
	if !ch.Open(path) {
		logging.Errorf("device channel %s unavailable, exiting", path)
		return 1
	}
	logging.InfoWithFields(logrus.Fields{
		"path":    path,
		"session": ch.Session(),
	}, "device channel open")

	if cfg.Health.Addr != "" {
		srv := startHealthServer(cfg.Health.Addr, ch)
		defer stopHealthServer(srv)
	}

	if cfg.Metrics.Interval > 0 {
		stop := make(chan struct{})
		defer close(stop)
		go runMetricsReporter(ch, cfg.Metrics.Interval, cfg.Metrics.Format, stop)
	}

	// Wait for termination
	sigc := make(chan os.Signal, 2)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logging.Infof("received signal %v, releasing %s", sig, path)
	return 0
}
