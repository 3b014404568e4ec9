package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gov-platform/notification-worker/pkg/metrics"
)

// NewRouter wires the health and metrics endpoints the worker exposes for
// monitoring.
func NewRouter(m *metrics.Metrics, started time.Time) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":         "ok",
			"uptime_seconds": int(time.Since(started).Seconds()),
			"timestamp":      time.Now().UTC(),
		})
	})
	mux.Handle("/metrics", m.Handler())
	return mux
}
