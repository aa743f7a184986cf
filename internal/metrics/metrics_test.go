package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderCountsAcceptedAndRejected(t *testing.T) {
	rec := NewRecorder()

	rec.RecordEventAccepted("LINEUP", 3*time.Millisecond)
	rec.RecordEventAccepted("LINEUP", 1*time.Millisecond)
	rec.RecordEventAccepted("SCORE", 2*time.Millisecond)
	rec.RecordEventRejected("CLOCK_REGRESSION")

	if got := rec.EventsAccepted("LINEUP"); got != 2 {
		t.Fatalf("expected 2 accepted LINEUP events, got %d", got)
	}
	if got := rec.EventsAccepted("SCORE"); got != 1 {
		t.Fatalf("expected 1 accepted SCORE event, got %d", got)
	}
	if got := rec.EventsRejected("CLOCK_REGRESSION"); got != 1 {
		t.Fatalf("expected 1 rejection, got %d", got)
	}
	if got := rec.EventsRejected("UNKNOWN_PLAYER"); got != 0 {
		t.Fatalf("expected 0 rejections for unseen reason, got %d", got)
	}
}

func TestRecorderCommitFailuresAndHalts(t *testing.T) {
	rec := NewRecorder()

	rec.RecordCommitFailure()
	rec.RecordCommitFailure()
	rec.RecordGameHalted()

	if got := rec.CommitFailures(); got != 2 {
		t.Fatalf("expected 2 commit failures, got %d", got)
	}
	if got := rec.GamesHalted(); got != 1 {
		t.Fatalf("expected 1 halted game, got %d", got)
	}
}

func TestRecorderAuditCycles(t *testing.T) {
	rec := NewRecorder()

	rec.RecordAuditCycle(time.Millisecond, nil)
	rec.RecordAuditCycle(time.Millisecond, errors.New("replay mismatch"))

	cycles, errs := rec.AuditCycles()
	if cycles != 2 || errs != 1 {
		t.Fatalf("expected 2 cycles / 1 error, got %d / %d", cycles, errs)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	rec.RecordEventAccepted("LINEUP", time.Millisecond)
	rec.RecordEventRejected("DUPLICATE_EVENT")
	rec.RecordCommitFailure()
	rec.RecordGameHalted()
	rec.RecordAuditCycle(time.Millisecond, nil)
	rec.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)

	if rec.EventsAccepted("LINEUP") != 0 || rec.CommitFailures() != 0 {
		t.Fatalf("nil recorder should report zeros")
	}
}
