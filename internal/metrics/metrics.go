package metrics

import (
	"sync"
	"time"
)

type engineStats struct {
	accepted       map[string]int
	rejected       map[string]int
	commitFailures int
	gamesHalted    int
	auditCycles    int
	auditErrors    int
}

// Recorder captures lightweight, in-memory metrics about event processing.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu    sync.Mutex
	stats engineStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: engineStats{
			accepted: make(map[string]int),
			rejected: make(map[string]int),
		},
		otel: otel,
	}
}

// RecordEventAccepted counts a committed event and its commit latency.
func (r *Recorder) RecordEventAccepted(eventType string, commitLatency time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.accepted[eventType]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordEventAccepted(eventType, commitLatency)
	}
}

// RecordEventRejected counts a validation rejection by reason.
func (r *Recorder) RecordEventRejected(reason string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.rejected[reason]++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordEventRejected(reason)
	}
}

// RecordCommitFailure counts a persistence commit that did not apply.
func (r *Recorder) RecordCommitFailure() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.commitFailures++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordCommitFailure()
	}
}

// RecordGameHalted counts a game stopped by an invariant violation.
func (r *Recorder) RecordGameHalted() {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.gamesHalted++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordGameHalted()
	}
}

// RecordAuditCycle tracks auditor cycles and errors.
func (r *Recorder) RecordAuditCycle(duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.stats.auditCycles++
	if err != nil {
		r.stats.auditErrors++
	}
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordAuditCycle(duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// EventsAccepted returns the committed-event count for an event type.
func (r *Recorder) EventsAccepted(eventType string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.accepted[eventType]
}

// EventsRejected returns the rejection count for a reason.
func (r *Recorder) EventsRejected(reason string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.rejected[reason]
}

// CommitFailures returns the total failed persistence commits.
func (r *Recorder) CommitFailures() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.commitFailures
}

// GamesHalted returns the total games halted by invariant violations.
func (r *Recorder) GamesHalted() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.gamesHalted
}

// AuditCycles returns (cycles, errors) recorded by the auditor.
func (r *Recorder) AuditCycles() (int, int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats.auditCycles, r.stats.auditErrors
}
