// Package auditor periodically replays completed games from their raw
// journals and compares the recomputed derived state against what was
// committed live. A divergence means nondeterminism or storage corruption;
// findings are surfaced as warnings, never repaired automatically.
package auditor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hooptrack/internal/domain"
	"hooptrack/internal/engine"
	"hooptrack/internal/gateway"
	"hooptrack/internal/logging"
	"hooptrack/internal/metrics"
)

const defaultInterval = 5 * time.Minute

// Replayer recomputes a game's derived state from its journal.
type Replayer interface {
	Replay(ctx context.Context, gameID string) (engine.ReplayResult, error)
}

// Auditor drives the replay-and-compare loop.
type Auditor struct {
	gw       gateway.Gateway
	replayer Replayer
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the audit loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	GamesAudited        int
	Findings            int
}

// IsReady reports whether the auditor has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs an Auditor with sane defaults.
func New(gw gateway.Gateway, replayer Replayer, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Auditor {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Auditor{
		gw:       gw,
		replayer: replayer,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins auditing until the context is cancelled or Stop is called.
func (a *Auditor) Start(ctx context.Context) {
	a.startMu.Lock()
	if a.started {
		a.startMu.Unlock()
		return
	}
	a.started = true
	a.startMu.Unlock()

	a.ticker = time.NewTicker(a.interval)

	go func() {
		a.logInfo("auditor started", slog.Int64(logging.FieldDurationMS, a.interval.Milliseconds()))
		// Initial pass on boot so readiness does not wait a full interval.
		a.auditOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				a.stopTicker()
				a.logInfo("auditor stopped")
				return
			case <-a.done:
				a.stopTicker()
				a.logInfo("auditor stopped")
				return
			case <-a.ticker.C:
				a.auditOnce(ctx)
			}
		}
	}()
}

// Stop halts the audit loop.
func (a *Auditor) Stop(ctx context.Context) error {
	_ = ctx
	a.stopOnce.Do(func() {
		close(a.done)
		a.stopTicker()
	})
	return nil
}

func (a *Auditor) auditOnce(ctx context.Context) {
	start := time.Now()
	a.recordAttempt(start)

	audited, findings, err := a.AuditAll(ctx)
	if a.metrics != nil {
		a.metrics.RecordAuditCycle(time.Since(start), err)
	}
	if err != nil {
		a.logError("audit cycle failed", err)
		a.recordFailure(err, start)
		return
	}
	a.recordSuccess(start, audited, findings)
	a.logInfo("audit cycle complete",
		logging.FieldCount, audited,
		"findings", findings,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// AuditAll replays every completed game and returns how many were audited
// and how many findings were logged.
func (a *Auditor) AuditAll(ctx context.Context) (audited, findings int, err error) {
	games, err := a.gw.CompletedGames(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list completed games: %w", err)
	}
	for _, game := range games {
		diffs, err := a.AuditGame(ctx, game.ID)
		if err != nil {
			return audited, findings, fmt.Errorf("audit game %s: %w", game.ID, err)
		}
		audited++
		findings += len(diffs)
		for _, d := range diffs {
			a.logWarn("audit finding", logging.FieldGameID, game.ID, "detail", d)
		}
	}
	return audited, findings, nil
}

// AuditGame replays one game and diffs the recomputed state against the
// stored rows. Row IDs are generated at commit time and excluded from the
// comparison; everything semantic is checked.
func (a *Auditor) AuditGame(ctx context.Context, gameID string) ([]string, error) {
	replayed, err := a.replayer.Replay(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var diffs []string
	diffs = append(diffs, a.diffDetailed(ctx, gameID, replayed)...)
	diffs = append(diffs, a.diffStints(ctx, gameID, replayed)...)
	diffs = append(diffs, a.diffStats(ctx, gameID, replayed)...)
	return diffs, nil
}

func (a *Auditor) diffDetailed(ctx context.Context, gameID string, replayed engine.ReplayResult) []string {
	stored, err := a.gw.DetailedPossessions(ctx, gameID)
	if err != nil {
		return []string{fmt.Sprintf("read detailed possessions: %v", err)}
	}
	if len(stored) != len(replayed.Detailed) {
		return []string{fmt.Sprintf("detailed possession count: stored %d, replayed %d", len(stored), len(replayed.Detailed))}
	}
	var diffs []string
	for i := range stored {
		if stored[i].MomentumState != replayed.Detailed[i].MomentumState {
			diffs = append(diffs, fmt.Sprintf(
				"momentum snapshot %d: stored %d, replayed %d",
				i, stored[i].MomentumState, replayed.Detailed[i].MomentumState))
		}
		if stored[i].Outcome != replayed.Detailed[i].Outcome ||
			stored[i].PointsScored != replayed.Detailed[i].PointsScored {
			diffs = append(diffs, fmt.Sprintf("detailed possession %d diverged", i))
		}
	}
	return diffs
}

func (a *Auditor) diffStints(ctx context.Context, gameID string, replayed engine.ReplayResult) []string {
	stored, err := a.gw.Stints(ctx, gameID)
	if err != nil {
		return []string{fmt.Sprintf("read stints: %v", err)}
	}
	if len(stored) != len(replayed.Stints) {
		return []string{fmt.Sprintf("stint count: stored %d, replayed %d", len(stored), len(replayed.Stints))}
	}
	var diffs []string
	for i := range stored {
		got := replayed.Stints[i]
		if !stored[i].Lineup.Equal(got.Lineup) {
			diffs = append(diffs, fmt.Sprintf("stint %d lineup diverged", i))
		}
		if stored[i].PointsFor != got.PointsFor || stored[i].PointsAgainst != got.PointsAgainst {
			diffs = append(diffs, fmt.Sprintf(
				"stint %d points: stored %d-%d, replayed %d-%d",
				i, stored[i].PointsFor, stored[i].PointsAgainst, got.PointsFor, got.PointsAgainst))
		}
		if stored[i].StartTime != got.StartTime {
			diffs = append(diffs, fmt.Sprintf("stint %d start time diverged", i))
		}
	}
	return diffs
}

// diffStats compares counters and plus-minus. Minutes are credited when a
// game closes, a step replay does not repeat, so they are excluded here.
func (a *Auditor) diffStats(ctx context.Context, gameID string, replayed engine.ReplayResult) []string {
	stored, err := a.gw.PlayerStats(ctx, gameID)
	if err != nil {
		return []string{fmt.Sprintf("read player stats: %v", err)}
	}
	byPlayer := make(map[string]domain.PlayerGameStat, len(replayed.Stats))
	for _, row := range replayed.Stats {
		byPlayer[row.PlayerID] = row
	}
	var diffs []string
	for _, row := range stored {
		got, ok := byPlayer[row.PlayerID]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("player %s present in store but not in replay", row.PlayerID))
			continue
		}
		if row.Points != got.Points || row.PlusMinus != got.PlusMinus ||
			row.Assists != got.Assists || row.ReboundsOffensive != got.ReboundsOffensive ||
			row.ReboundsDefensive != got.ReboundsDefensive || row.Turnovers != got.Turnovers ||
			row.Steals != got.Steals || row.Blocks != got.Blocks || row.Fouls != got.Fouls {
			diffs = append(diffs, fmt.Sprintf("player %s stats diverged", row.PlayerID))
		}
	}
	return diffs
}

func (a *Auditor) stopTicker() {
	if a.ticker != nil {
		a.ticker.Stop()
	}
}

func (a *Auditor) logInfo(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Info(msg, args...)
	}
}

func (a *Auditor) logWarn(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Warn(msg, args...)
	}
}

func (a *Auditor) logError(msg string, err error, attrs ...any) {
	if a.logger != nil {
		a.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (a *Auditor) recordAttempt(at time.Time) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.LastAttempt = at
}

func (a *Auditor) recordSuccess(at time.Time, audited, findings int) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.ConsecutiveFailures = 0
	a.status.LastError = ""
	a.status.LastSuccess = at
	a.status.GamesAudited = audited
	a.status.Findings = findings
}

func (a *Auditor) recordFailure(err error, at time.Time) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.status.ConsecutiveFailures++
	if err != nil {
		a.status.LastError = err.Error()
	}
	a.status.LastAttempt = at
}

// Status returns a snapshot of the auditor's recent health.
func (a *Auditor) Status() Status {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}
