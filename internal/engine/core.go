package engine

import (
	"fmt"

	"hooptrack/internal/boxscore"
	"hooptrack/internal/config"
	"hooptrack/internal/domain"
	"hooptrack/internal/energy"
	"hooptrack/internal/momentum"
	"hooptrack/internal/stints"
)

// core is the complete derived state of one game: stint tracker, energy
// model, box score, momentum meter and the running score. It is the unit of
// atomicity: SubmitEvent applies each event to a fork and swaps the fork in
// only after the gateway commit succeeds, so a failed commit leaves the live
// core untouched.
type core struct {
	tuning config.Tuning
	game   domain.Game
	roster map[string]struct{}

	stints *stints.Tracker
	energy *energy.Model
	box    *boxscore.Aggregator
	meter  *momentum.Meter

	// statEvents indexes committed STAT events so corrections can resolve
	// them; corrected marks the ones already compensated.
	statEvents map[string]domain.StatPayload
	corrected  map[string]struct{}
}

func newCore(tuning config.Tuning, game domain.Game, rosterIDs []string) *core {
	set := make(map[string]struct{}, len(rosterIDs))
	for _, p := range rosterIDs {
		set[p] = struct{}{}
	}
	return &core{
		tuning: tuning,
		game:   game,
		roster: set,
		stints: stints.NewTracker(game.ID),
		energy: energy.NewModel(game.ID, rosterIDs, energy.Config{
			DecayPerSecond:    tuning.EnergyDecayPerSecond,
			RecoveryPerSecond: tuning.EnergyRecoveryPerSecond,
			SampleInterval:    tuning.EnergySampleIntervalSeconds,
		}),
		box: boxscore.NewAggregator(game.ID),
		meter: momentum.New(momentum.Config{
			GoodDelta:    tuning.MomentumGoodDelta,
			FailedDelta:  tuning.MomentumFailedDelta,
			NeutralDecay: tuning.MomentumNeutralDecay,
			Bound:        tuning.MomentumBound,
		}),
		statEvents: make(map[string]domain.StatPayload),
		corrected:  make(map[string]struct{}),
	}
}

func (c *core) fork() *core {
	clone := &core{
		tuning:     c.tuning,
		game:       c.game,
		roster:     c.roster,
		stints:     c.stints.Fork(),
		energy:     c.energy.Fork(),
		box:        c.box.Fork(),
		meter:      c.meter.Fork(),
		statEvents: make(map[string]domain.StatPayload, len(c.statEvents)),
		corrected:  make(map[string]struct{}, len(c.corrected)),
	}
	for id, p := range c.statEvents {
		clone.statEvents[id] = p
	}
	for id := range c.corrected {
		clone.corrected[id] = struct{}{}
	}
	return clone
}

// apply folds one validated event into the core and returns the derived rows
// the gateway must persist alongside it.
func (c *core) apply(ev domain.Event) (domain.RowSet, error) {
	at := ev.Clock.Absolute(c.tuning.QuarterSeconds)

	switch ev.Type {
	case domain.EventLineup:
		return c.applyLineup(at, ev)
	case domain.EventPossession:
		return c.applyPossession(at, ev)
	case domain.EventDetailedPossession:
		return c.applyDetailed(at, ev)
	case domain.EventShot:
		return c.applyShot(at, ev)
	case domain.EventScore:
		return c.applyScore(at, ev)
	case domain.EventStat:
		return c.applyStat(at, ev)
	case domain.EventCorrection:
		return c.applyCorrection(at, ev)
	default:
		return domain.RowSet{}, domain.Reject(domain.RejectMalformedEvent, "unknown event type %q", ev.Type)
	}
}

func (c *core) applyLineup(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	closed, opened, err := c.stints.ObserveLineup(at, ev.Lineup)
	if err != nil {
		return rows, err
	}
	rows.Energy = c.energy.ObserveLineup(at, ev.Lineup)
	if closed != nil {
		rows.StintsClosed = append(rows.StintsClosed, *closed)
		rows.Stats = append(rows.Stats, c.box.CreditStintMinutes(*closed)...)
	}
	rows.StintOpened = opened
	return rows, nil
}

func (c *core) applyPossession(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	lineup := c.stints.CurrentLineup()
	if lineup == nil {
		return rows, domain.Reject(domain.RejectMalformedEvent, "possession before any lineup observation")
	}
	c.meter.Advance(ev.Possession.Outcome)

	rows.Possessions = []domain.Possession{{
		ID:            ev.ID,
		GameID:        c.game.ID,
		Quarter:       ev.Clock.Quarter,
		TimeRemaining: c.tuning.QuarterSeconds - ev.Clock.Elapsed,
		Outcome:       ev.Possession.Outcome,
		FailureType:   ev.Possession.FailureType,
		Lineup:        lineup,
	}}
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

func (c *core) applyDetailed(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	lineup := c.stints.CurrentLineup()
	if lineup == nil {
		return rows, domain.Reject(domain.RejectMalformedEvent, "possession before any lineup observation")
	}
	p := ev.Detailed
	value := c.meter.Advance(p.Outcome)

	rows.Detailed = []domain.DetailedPossession{{
		ID:              ev.ID,
		GameID:          c.game.ID,
		Quarter:         ev.Clock.Quarter,
		TimeElapsed:     at,
		Lineup:          lineup,
		Outcome:         p.Outcome,
		BallAdvancement: p.BallAdvancement,
		ShotQuality:     p.ShotQuality,
		ShooterID:       p.ShooterID,
		ShotType:        p.ShotType,
		ShotResult:      p.ShotResult,
		PointsScored:    p.PointsScored,
		MomentumState:   value,
	}}

	if p.PointsScored > 0 {
		updated, err := c.stints.RecordScore(p.PointsScored, true)
		if err != nil {
			return domain.RowSet{}, err
		}
		rows.StintOpened = updated
		rows.Stats = append(rows.Stats, c.box.AdjustPlusMinus(lineup, p.PointsScored)...)
		if p.ShooterID != "" {
			rows.Stats = append(rows.Stats, c.box.AddPoints(p.ShooterID, p.PointsScored))
		}
		c.game.FinalScoreUs += p.PointsScored
		g := c.game
		rows.Game = &g
	}
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

// applyShot records the attempt for shot-chart aggregation. Points never
// flow from shots; they arrive via possessions and SCORE events, so a made
// shot here cannot double-count.
func (c *core) applyShot(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	rows.Shots = []domain.Shot{{
		ID:          ev.ID,
		GameID:      c.game.ID,
		PlayerID:    ev.Shot.PlayerID,
		Quarter:     ev.Clock.Quarter,
		TimeElapsed: at,
		ShotType:    ev.Shot.ShotType,
		Made:        ev.Shot.Made,
		X:           ev.Shot.X,
		Y:           ev.Shot.Y,
	}}
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

func (c *core) applyScore(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	updated, err := c.stints.RecordScore(ev.Score.Points, ev.Score.ForTeam)
	if err != nil {
		return rows, err
	}
	rows.StintOpened = updated

	delta := ev.Score.Points
	if ev.Score.ForTeam {
		c.game.FinalScoreUs += ev.Score.Points
	} else {
		c.game.FinalScoreThem += ev.Score.Points
		delta = -delta
	}
	rows.Stats = c.box.AdjustPlusMinus(c.stints.CurrentLineup(), delta)

	g := c.game
	rows.Game = &g
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

func (c *core) applyStat(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	rows.Stats = []domain.PlayerGameStat{c.box.AddStat(ev.Stat.PlayerID, ev.Stat.Kind)}
	c.statEvents[ev.ID] = *ev.Stat
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

func (c *core) applyCorrection(at int, ev domain.Event) (domain.RowSet, error) {
	var rows domain.RowSet

	target, ok := c.statEvents[ev.Correction.Of]
	if !ok {
		return rows, domain.Reject(domain.RejectMalformedEvent,
			"correction references unknown event %s", ev.Correction.Of)
	}
	if _, done := c.corrected[ev.Correction.Of]; done {
		return rows, domain.Reject(domain.RejectMalformedEvent,
			"event %s already corrected", ev.Correction.Of)
	}
	c.corrected[ev.Correction.Of] = struct{}{}

	rows.Stats = []domain.PlayerGameStat{c.box.RemoveStat(target.PlayerID, target.Kind)}
	rows.Energy = c.energy.Advance(at)
	return rows, nil
}

// close seals the game: the open stint ends at the final second, minutes are
// credited, a last energy pass runs, and the game row flips to completed with
// the provided final score. Returned warnings flag reconciliation mismatches;
// they are diagnostics, not failures.
func (c *core) close(at int, final domain.FinalScore) (domain.RowSet, []string, error) {
	var rows domain.RowSet
	var warnings []string

	closed, err := c.stints.CloseGame(at)
	if err != nil {
		return rows, nil, err
	}
	if closed != nil {
		rows.StintsClosed = append(rows.StintsClosed, *closed)
		rows.Stats = append(rows.Stats, c.box.CreditStintMinutes(*closed)...)
	}
	rows.Energy = c.energy.Advance(at)

	if c.game.FinalScoreUs != final.Us || c.game.FinalScoreThem != final.Them {
		warnings = append(warnings, fmt.Sprintf(
			"running score %d-%d disagrees with reported final %d-%d",
			c.game.FinalScoreUs, c.game.FinalScoreThem, final.Us, final.Them))
	}
	if sum, want := c.box.PlusMinusSum(), (final.Us-final.Them)*domain.LineupSize; sum != want {
		warnings = append(warnings, fmt.Sprintf(
			"team plus-minus sum %d disagrees with %d (net score times lineup size)", sum, want))
	}
	var stintFor, stintAgainst int
	for _, s := range c.stints.Stints() {
		stintFor += s.PointsFor
		stintAgainst += s.PointsAgainst
	}
	if stintFor != final.Us || stintAgainst != final.Them {
		warnings = append(warnings, fmt.Sprintf(
			"stint points %d-%d disagree with reported final %d-%d",
			stintFor, stintAgainst, final.Us, final.Them))
	}

	c.game.FinalScoreUs = final.Us
	c.game.FinalScoreThem = final.Them
	c.game.Completed = true
	g := c.game
	rows.Game = &g
	return rows, warnings, nil
}
