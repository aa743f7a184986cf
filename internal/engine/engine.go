// Package engine orchestrates event processing: validation, staged
// application to forked derived state, atomic persistence, and game close.
// Events for one game are strictly serialized; different games process in
// parallel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hooptrack/internal/config"
	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
	"hooptrack/internal/logging"
	"hooptrack/internal/metrics"
	"hooptrack/internal/roster"
	"hooptrack/internal/validate"
)

// ErrGameCompleted is returned for submissions and closes against a game
// that has already been closed.
var ErrGameCompleted = errors.New("engine: game already completed")

// Result is the outcome of a committed event.
type Result struct {
	Event domain.Event  `json:"event"`
	Rows  domain.RowSet `json:"rows"`
}

// CloseReport summarizes a game close, including reconciliation warnings.
type CloseReport struct {
	Game     domain.Game `json:"game"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Engine processes events for any number of concurrent games.
type Engine struct {
	gw       gateway.Gateway
	roster   roster.Provider
	tuning   config.Tuning
	logger   *slog.Logger
	recorder *metrics.Recorder

	mu    sync.Mutex
	games map[string]*gameState
}

// gameState serializes all processing for one game. core is nil until the
// game is bootstrapped from the roster service or rebuilt from the journal.
type gameState struct {
	mu       sync.Mutex
	core     *core
	clock    domain.GameClock
	hasClock bool
	seen     map[string]struct{}
	halted   *domain.InvariantError
}

// New constructs an engine. The recorder may be nil; the logger may be nil
// for tests.
func New(gw gateway.Gateway, provider roster.Provider, tuning config.Tuning, logger *slog.Logger, recorder *metrics.Recorder) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		gw:       gw,
		roster:   provider,
		tuning:   tuning,
		logger:   logger,
		recorder: recorder,
		games:    make(map[string]*gameState),
	}
}

// SubmitEvent validates, applies and commits one event. On success the
// returned result carries the normalized event (ID assigned if the caller
// omitted one) and every derived row that was persisted with it. Rejections
// come back as *domain.RejectionError; invariant violations halt the game
// and come back as *domain.InvariantError.
func (e *Engine) SubmitEvent(ctx context.Context, ev domain.Event) (Result, error) {
	if ev.GameID == "" {
		return Result{}, domain.Reject(domain.RejectMalformedEvent, "event missing game ID")
	}
	st, err := e.state(ctx, ev.GameID)
	if err != nil {
		return Result{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.halted != nil {
		return Result{}, st.halted
	}
	if st.core.game.Completed {
		return Result{}, ErrGameCompleted
	}

	ev, err = validate.Event(ev, e.view(st))
	if err != nil {
		e.rejected(ev, err)
		return Result{}, err
	}

	fork := st.core.fork()
	rows, err := fork.apply(ev)
	if err != nil {
		if inv, ok := domain.AsInvariant(err); ok {
			st.halted = inv
			e.recorder.RecordGameHalted()
			e.logger.Error("game halted on invariant violation",
				logging.FieldGameID, ev.GameID,
				logging.FieldEventID, ev.ID,
				logging.FieldReason, string(inv.Code),
				"detail", inv.Detail)
			return Result{}, err
		}
		e.rejected(ev, err)
		return Result{}, err
	}

	start := time.Now()
	if err := e.gw.CommitEvent(ctx, ev, rows); err != nil {
		e.recorder.RecordCommitFailure()
		e.logger.Error("event commit failed",
			logging.FieldGameID, ev.GameID,
			logging.FieldEventID, ev.ID,
			"error", err)
		return Result{}, fmt.Errorf("commit event %s: %w", ev.ID, err)
	}

	st.core = fork
	st.clock = ev.Clock
	st.hasClock = true
	st.seen[ev.ID] = struct{}{}

	e.recorder.RecordEventAccepted(string(ev.Type), time.Since(start))
	e.logger.Info("event committed",
		logging.FieldGameID, ev.GameID,
		logging.FieldEventID, ev.ID,
		logging.FieldEventType, string(ev.Type))
	return Result{Event: ev, Rows: rows}, nil
}

// CloseGame seals a game with its reported final score. The open stint is
// closed at the last committed clock, minutes are credited, and the game row
// flips to completed in one atomic commit. Reconciliation mismatches are
// logged and reported, never fatal.
func (e *Engine) CloseGame(ctx context.Context, gameID string, final domain.FinalScore) (CloseReport, error) {
	st, err := e.state(ctx, gameID)
	if err != nil {
		return CloseReport{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if st.halted != nil {
		return CloseReport{}, st.halted
	}
	if st.core.game.Completed {
		return CloseReport{}, ErrGameCompleted
	}

	at := 0
	if st.hasClock {
		at = st.clock.Absolute(e.tuning.QuarterSeconds)
	}

	fork := st.core.fork()
	rows, warnings, err := fork.close(at, final)
	if err != nil {
		if inv, ok := domain.AsInvariant(err); ok {
			st.halted = inv
			e.recorder.RecordGameHalted()
		}
		return CloseReport{}, err
	}

	if err := e.gw.CommitClose(ctx, gameID, rows); err != nil {
		e.recorder.RecordCommitFailure()
		return CloseReport{}, fmt.Errorf("commit close for %s: %w", gameID, err)
	}
	st.core = fork

	for _, w := range warnings {
		e.logger.Warn("close reconciliation mismatch", logging.FieldGameID, gameID, "detail", w)
	}
	e.logger.Info("game closed", logging.FieldGameID, gameID,
		"final_us", final.Us, "final_them", final.Them)
	return CloseReport{Game: fork.game, Warnings: warnings}, nil
}

// Momentum returns the live momentum value for a game.
func (e *Engine) Momentum(ctx context.Context, gameID string) (int, error) {
	st, err := e.state(ctx, gameID)
	if err != nil {
		return 0, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.core.meter.Value(), nil
}

// Halted reports whether a game has been stopped by an invariant violation.
func (e *Engine) Halted(gameID string) (*domain.InvariantError, bool) {
	e.mu.Lock()
	st, ok := e.games[gameID]
	e.mu.Unlock()
	if !ok {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.halted, st.halted != nil
}

func (e *Engine) view(st *gameState) validate.View {
	return validate.View{
		Clock:    st.clock,
		HasClock: st.hasClock,
		Model:    st.core.game.Model,
		Roster:   st.core.roster,
		Seen: func(id string) bool {
			_, ok := st.seen[id]
			return ok
		},
		CorrectedStat: func(id string) (domain.StatPayload, bool) {
			p, ok := st.core.statEvents[id]
			if !ok {
				return domain.StatPayload{}, false
			}
			if _, done := st.core.corrected[id]; done {
				return domain.StatPayload{}, false
			}
			return p, true
		},
	}
}

func (e *Engine) rejected(ev domain.Event, err error) {
	reason := string(domain.RejectMalformedEvent)
	if rej, ok := domain.AsRejection(err); ok {
		reason = string(rej.Reason)
	}
	e.recorder.RecordEventRejected(reason)
	e.logger.Warn("event rejected",
		logging.FieldGameID, ev.GameID,
		logging.FieldEventType, string(ev.Type),
		logging.FieldReason, reason,
		"error", err)
}

// state returns the serialized state for a game, bootstrapping it on first
// touch: unknown games are registered from the roster service, and games
// already on disk are rebuilt deterministically from their journal.
func (e *Engine) state(ctx context.Context, gameID string) (*gameState, error) {
	e.mu.Lock()
	st, ok := e.games[gameID]
	if !ok {
		st = &gameState{seen: make(map[string]struct{})}
		e.games[gameID] = st
	}
	e.mu.Unlock()

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.core != nil {
		return st, nil
	}

	game, err := e.gw.Game(ctx, gameID)
	switch {
	case errors.Is(err, gateway.ErrGameNotFound):
		info, rerr := e.roster.GameInfo(ctx, gameID)
		if rerr != nil {
			return nil, fmt.Errorf("bootstrap game %s: %w", gameID, rerr)
		}
		game = domain.Game{
			ID:       gameID,
			TeamID:   info.TeamID,
			Date:     info.Date,
			Opponent: info.Opponent,
			Location: info.Location,
			Model:    info.Model,
		}
		if err := e.gw.CreateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("register game %s: %w", gameID, err)
		}
		st.core = newCore(e.tuning, game, info.Roster)
		e.logger.Info("game registered", logging.FieldGameID, gameID,
			"model", string(game.Model), "roster_size", len(info.Roster))
		return st, nil
	case err != nil:
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}

	if err := e.rebuild(ctx, st, game); err != nil {
		return nil, err
	}
	return st, nil
}

// rebuild restores derived state after a restart by replaying the committed
// journal into a fresh core. Replay is deterministic, so the rebuilt core
// matches what was live when the process stopped.
func (e *Engine) rebuild(ctx context.Context, st *gameState, game domain.Game) error {
	events, err := e.gw.Events(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("load journal for %s: %w", game.ID, err)
	}

	rosterIDs := e.rosterForRebuild(ctx, game.ID, events)

	base := game
	base.FinalScoreUs, base.FinalScoreThem = 0, 0
	base.Completed = false
	c := newCore(e.tuning, base, rosterIDs)

	for _, ev := range events {
		if _, err := c.apply(ev); err != nil {
			if inv, ok := domain.AsInvariant(err); ok {
				st.halted = inv
				break
			}
			return fmt.Errorf("rebuild %s from journal at event %s: %w", game.ID, ev.ID, err)
		}
		st.seen[ev.ID] = struct{}{}
		st.clock = ev.Clock
		st.hasClock = true
	}

	if game.Completed {
		c.game.FinalScoreUs = game.FinalScoreUs
		c.game.FinalScoreThem = game.FinalScoreThem
		c.game.Completed = true
	}
	st.core = c
	e.logger.Info("game state rebuilt from journal",
		logging.FieldGameID, game.ID, logging.FieldCount, len(events))
	return nil
}

func (e *Engine) rosterForRebuild(ctx context.Context, gameID string, events []domain.Event) []string {
	info, err := e.roster.GameInfo(ctx, gameID)
	if err == nil && len(info.Roster) > 0 {
		return info.Roster
	}
	return rosterFromJournal(events)
}
