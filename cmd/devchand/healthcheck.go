package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/irctrakz/devchan/pkg/core"
	"github.com/irctrakz/devchan/pkg/logging"
)

// metricsSource is the part of the channel safe to read from HTTP handlers.
type metricsSource interface {
	Metrics() core.ChannelMetrics
}

type healthResponse struct {
	Status  string            `json:"status"`
	Open    bool              `json:"open"`
	Metrics map[string]uint64 `json:"metrics"`
}

// healthHandler answers 200 while the channel holds a handle, 503 otherwise.
// State is derived from the counters so the handler never touches the
// channel's unsynchronized fields.
func healthHandler(src metricsSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		m := src.Metrics()
		resp := healthResponse{
			Status:  "ok",
			Open:    m.Live(),
			Metrics: metricsMap(m),
		}
		code := http.StatusOK
		if !resp.Open {
			resp.Status = "closed"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func startHealthServer(addr string, src metricsSource) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler(src))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
	}
	go func() {
		logging.Infof("Health: listening on %s", addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logging.Warnf("Health: server error: %v", err)
		}
	}()
	return srv
}

func stopHealthServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warnf("Health: shutdown error: %v", err)
	}
}
