package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics exposes a small in-memory counter set for the dispatch worker.
type Metrics struct {
	consumed   atomic.Int64
	duplicates atomic.Int64
	skipped    atomic.Int64
	emailSent  atomic.Int64
	pushSent   atomic.Int64
	fannedOut  atomic.Int64
	failed     atomic.Int64
}

// New returns a zeroed Metrics collector.
func New() *Metrics {
	return &Metrics{}
}

func (m *Metrics) IncConsumed()   { m.consumed.Add(1) }
func (m *Metrics) IncDuplicates() { m.duplicates.Add(1) }
func (m *Metrics) IncSkipped()    { m.skipped.Add(1) }
func (m *Metrics) IncEmailSent()  { m.emailSent.Add(1) }
func (m *Metrics) IncPushSent()   { m.pushSent.Add(1) }
func (m *Metrics) IncFailed()     { m.failed.Add(1) }

// AddFannedOut records how many delegate copies a single request produced.
func (m *Metrics) AddFannedOut(n int) { m.fannedOut.Add(int64(n)) }

// Handler serves the counters as JSON so the worker can be scraped without
// pulling in a heavier metrics dependency.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]int64{
			"consumed":   m.consumed.Load(),
			"duplicates": m.duplicates.Load(),
			"skipped":    m.skipped.Load(),
			"email_sent": m.emailSent.Load(),
			"push_sent":  m.pushSent.Load(),
			"fanned_out": m.fannedOut.Load(),
			"failed":     m.failed.Load(),
		})
	})
}
