// Package sqlite provides a file-backed Gateway on SQLite. Each event commit
// runs in one transaction, so a crash mid-commit never leaves a partial row
// set behind.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"hooptrack/internal/domain"
	"hooptrack/internal/gateway"
)

// Store implements gateway.Gateway over a SQLite database file.
type Store struct {
	db *sql.DB
}

var _ gateway.Gateway = (*Store)(nil)

// Open creates (or opens) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// The modernc driver serializes writes per connection; one connection
	// avoids SQLITE_BUSY under concurrent commits.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// CreateGame inserts or refreshes the game row.
func (s *Store) CreateGame(ctx context.Context, game domain.Game) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO games (id, team_id, date, opponent, location, model, final_score_us, final_score_them, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			team_id = excluded.team_id,
			date = excluded.date,
			opponent = excluded.opponent,
			location = excluded.location,
			model = excluded.model`,
		game.ID, game.TeamID, game.Date, game.Opponent, game.Location, game.Model,
		game.FinalScoreUs, game.FinalScoreThem, boolInt(game.Completed))
	if err != nil {
		return fmt.Errorf("create game %s: %w", game.ID, err)
	}
	return nil
}

// CommitEvent journals the event and applies its derived rows in one
// transaction.
func (s *Store) CommitEvent(ctx context.Context, ev domain.Event, rows domain.RowSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	defer tx.Rollback()

	if err := s.requireGame(ctx, tx, ev.GameID); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.ID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, game_id, type, body) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.GameID, ev.Type, string(body)); err != nil {
		return fmt.Errorf("journal event %s: %w", ev.ID, err)
	}
	if err := s.applyRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

// CommitClose applies game-close rows in one transaction.
func (s *Store) CommitClose(ctx context.Context, gameID string, rows domain.RowSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin close: %w", err)
	}
	defer tx.Rollback()

	if err := s.requireGame(ctx, tx, gameID); err != nil {
		return err
	}
	if err := s.applyRows(ctx, tx, rows); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) requireGame(ctx context.Context, tx *sql.Tx, gameID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&one)
	if err == sql.ErrNoRows {
		return gateway.ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("look up game %s: %w", gameID, err)
	}
	return nil
}

func (s *Store) applyRows(ctx context.Context, tx *sql.Tx, rows domain.RowSet) error {
	for _, p := range rows.Possessions {
		lineup, err := marshalLineup(p.Lineup)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO possessions (id, game_id, quarter, time_remaining, outcome, failure_type, lineup)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.GameID, p.Quarter, p.TimeRemaining, p.Outcome, p.FailureType, lineup); err != nil {
			return fmt.Errorf("insert possession %s: %w", p.ID, err)
		}
	}
	for _, d := range rows.Detailed {
		lineup, err := marshalLineup(d.Lineup)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO detailed_possessions
				(id, game_id, quarter, time_elapsed, lineup, outcome, ball_advancement,
				 shot_quality, shooter_id, shot_type, shot_result, points_scored, momentum_state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, d.GameID, d.Quarter, d.TimeElapsed, lineup, d.Outcome, d.BallAdvancement,
			d.ShotQuality, d.ShooterID, d.ShotType, d.ShotResult, d.PointsScored, d.MomentumState); err != nil {
			return fmt.Errorf("insert detailed possession %s: %w", d.ID, err)
		}
	}
	for _, sh := range rows.Shots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO shots (id, game_id, player_id, quarter, time_elapsed, shot_type, made, x, y)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sh.ID, sh.GameID, sh.PlayerID, sh.Quarter, sh.TimeElapsed, sh.ShotType,
			boolInt(sh.Made), sh.X, sh.Y); err != nil {
			return fmt.Errorf("insert shot %s: %w", sh.ID, err)
		}
	}
	for _, st := range rows.StintsClosed {
		if err := s.upsertStint(ctx, tx, st); err != nil {
			return err
		}
	}
	if rows.StintOpened != nil {
		if err := s.upsertStint(ctx, tx, *rows.StintOpened); err != nil {
			return err
		}
	}
	for _, e := range rows.Energy {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO player_energy_log (id, game_id, player_id, time_elapsed, energy_level)
			VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.GameID, e.PlayerID, e.TimeElapsed, e.EnergyLevel); err != nil {
			return fmt.Errorf("insert energy sample %s: %w", e.ID, err)
		}
	}
	for _, st := range rows.Stats {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO player_game_stats
				(game_id, player_id, minutes_played, points, assists, rebounds_offensive,
				 rebounds_defensive, turnovers, steals, blocks, fouls, plus_minus)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(game_id, player_id) DO UPDATE SET
				minutes_played = excluded.minutes_played,
				points = excluded.points,
				assists = excluded.assists,
				rebounds_offensive = excluded.rebounds_offensive,
				rebounds_defensive = excluded.rebounds_defensive,
				turnovers = excluded.turnovers,
				steals = excluded.steals,
				blocks = excluded.blocks,
				fouls = excluded.fouls,
				plus_minus = excluded.plus_minus`,
			st.GameID, st.PlayerID, st.MinutesPlayed, st.Points, st.Assists, st.ReboundsOffensive,
			st.ReboundsDefensive, st.Turnovers, st.Steals, st.Blocks, st.Fouls, st.PlusMinus); err != nil {
			return fmt.Errorf("upsert stats for %s: %w", st.PlayerID, err)
		}
	}
	if rows.Game != nil {
		g := rows.Game
		if _, err := tx.ExecContext(ctx, `
			UPDATE games SET team_id = ?, date = ?, opponent = ?, location = ?, model = ?,
				final_score_us = ?, final_score_them = ?, completed = ?
			WHERE id = ?`,
			g.TeamID, g.Date, g.Opponent, g.Location, g.Model,
			g.FinalScoreUs, g.FinalScoreThem, boolInt(g.Completed), g.ID); err != nil {
			return fmt.Errorf("update game %s: %w", g.ID, err)
		}
	}
	return nil
}

func (s *Store) upsertStint(ctx context.Context, tx *sql.Tx, st domain.LineupStint) error {
	lineup, err := marshalLineup(st.Lineup)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lineup_stints (id, game_id, lineup, start_time, end_time, duration, points_for, points_against)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			end_time = excluded.end_time,
			duration = excluded.duration,
			points_for = excluded.points_for,
			points_against = excluded.points_against`,
		st.ID, st.GameID, lineup, st.StartTime, st.EndTime, st.Duration,
		st.PointsFor, st.PointsAgainst); err != nil {
		return fmt.Errorf("upsert stint %s: %w", st.ID, err)
	}
	return nil
}

// Game retrieves a game row by ID.
func (s *Store) Game(ctx context.Context, gameID string) (domain.Game, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, team_id, date, opponent, location, model, final_score_us, final_score_them, completed
		FROM games WHERE id = ?`, gameID)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return domain.Game{}, gateway.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("read game %s: %w", gameID, err)
	}
	return g, nil
}

// Games returns all game rows.
func (s *Store) Games(ctx context.Context) ([]domain.Game, error) {
	return s.selectGames(ctx, `
		SELECT id, team_id, date, opponent, location, model, final_score_us, final_score_them, completed
		FROM games ORDER BY rowid`)
}

// CompletedGames returns games marked completed.
func (s *Store) CompletedGames(ctx context.Context) ([]domain.Game, error) {
	return s.selectGames(ctx, `
		SELECT id, team_id, date, opponent, location, model, final_score_us, final_score_them, completed
		FROM games WHERE completed = 1 ORDER BY rowid`)
}

func (s *Store) selectGames(ctx context.Context, query string) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read games: %w", err)
	}
	defer rows.Close()

	var out []domain.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Events returns the raw journal in commit order.
func (s *Store) Events(ctx context.Context, gameID string) ([]domain.Event, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM events WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read events for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var ev domain.Event
		if err := json.Unmarshal([]byte(body), &ev); err != nil {
			return nil, fmt.Errorf("decode journaled event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Possessions returns committed simple-model possession rows.
func (s *Store) Possessions(ctx context.Context, gameID string) ([]domain.Possession, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, quarter, time_remaining, outcome, failure_type, lineup
		FROM possessions WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read possessions for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.Possession
	for rows.Next() {
		var p domain.Possession
		var lineup string
		if err := rows.Scan(&p.ID, &p.GameID, &p.Quarter, &p.TimeRemaining, &p.Outcome, &p.FailureType, &lineup); err != nil {
			return nil, fmt.Errorf("scan possession: %w", err)
		}
		if p.Lineup, err = unmarshalLineup(lineup); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DetailedPossessions returns committed detailed-model possession rows.
func (s *Store) DetailedPossessions(ctx context.Context, gameID string) ([]domain.DetailedPossession, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, quarter, time_elapsed, lineup, outcome, ball_advancement,
			shot_quality, shooter_id, shot_type, shot_result, points_scored, momentum_state
		FROM detailed_possessions WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read detailed possessions for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.DetailedPossession
	for rows.Next() {
		var d domain.DetailedPossession
		var lineup string
		if err := rows.Scan(&d.ID, &d.GameID, &d.Quarter, &d.TimeElapsed, &lineup, &d.Outcome,
			&d.BallAdvancement, &d.ShotQuality, &d.ShooterID, &d.ShotType, &d.ShotResult,
			&d.PointsScored, &d.MomentumState); err != nil {
			return nil, fmt.Errorf("scan detailed possession: %w", err)
		}
		if d.Lineup, err = unmarshalLineup(lineup); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Shots returns committed shot rows.
func (s *Store) Shots(ctx context.Context, gameID string) ([]domain.Shot, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, player_id, quarter, time_elapsed, shot_type, made, x, y
		FROM shots WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read shots for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.Shot
	for rows.Next() {
		var sh domain.Shot
		var made int
		if err := rows.Scan(&sh.ID, &sh.GameID, &sh.PlayerID, &sh.Quarter, &sh.TimeElapsed,
			&sh.ShotType, &made, &sh.X, &sh.Y); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		sh.Made = made != 0
		out = append(out, sh)
	}
	return out, rows.Err()
}

// Stints returns lineup stints in open order.
func (s *Store) Stints(ctx context.Context, gameID string) ([]domain.LineupStint, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, lineup, start_time, end_time, duration, points_for, points_against
		FROM lineup_stints WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read stints for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.LineupStint
	for rows.Next() {
		var st domain.LineupStint
		var lineup string
		if err := rows.Scan(&st.ID, &st.GameID, &lineup, &st.StartTime, &st.EndTime, &st.Duration,
			&st.PointsFor, &st.PointsAgainst); err != nil {
			return nil, fmt.Errorf("scan stint: %w", err)
		}
		if st.Lineup, err = unmarshalLineup(lineup); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// EnergyLog returns the append-only energy samples.
func (s *Store) EnergyLog(ctx context.Context, gameID string) ([]domain.EnergySample, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, game_id, player_id, time_elapsed, energy_level
		FROM player_energy_log WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read energy log for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.EnergySample
	for rows.Next() {
		var e domain.EnergySample
		if err := rows.Scan(&e.ID, &e.GameID, &e.PlayerID, &e.TimeElapsed, &e.EnergyLevel); err != nil {
			return nil, fmt.Errorf("scan energy sample: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// PlayerStats returns the per-player box score rows in first-seen order.
func (s *Store) PlayerStats(ctx context.Context, gameID string) ([]domain.PlayerGameStat, error) {
	if err := s.gameExists(ctx, gameID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player_id, minutes_played, points, assists, rebounds_offensive,
			rebounds_defensive, turnovers, steals, blocks, fouls, plus_minus
		FROM player_game_stats WHERE game_id = ? ORDER BY rowid`, gameID)
	if err != nil {
		return nil, fmt.Errorf("read player stats for %s: %w", gameID, err)
	}
	defer rows.Close()

	var out []domain.PlayerGameStat
	for rows.Next() {
		var st domain.PlayerGameStat
		if err := rows.Scan(&st.GameID, &st.PlayerID, &st.MinutesPlayed, &st.Points, &st.Assists,
			&st.ReboundsOffensive, &st.ReboundsDefensive, &st.Turnovers, &st.Steals,
			&st.Blocks, &st.Fouls, &st.PlusMinus); err != nil {
			return nil, fmt.Errorf("scan player stat: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) gameExists(ctx context.Context, gameID string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&one)
	if err == sql.ErrNoRows {
		return gateway.ErrGameNotFound
	}
	if err != nil {
		return fmt.Errorf("look up game %s: %w", gameID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.Game, error) {
	var g domain.Game
	var completed int
	err := row.Scan(&g.ID, &g.TeamID, &g.Date, &g.Opponent, &g.Location, &g.Model,
		&g.FinalScoreUs, &g.FinalScoreThem, &completed)
	if err != nil {
		return domain.Game{}, err
	}
	g.Completed = completed != 0
	return g, nil
}

func marshalLineup(l domain.Lineup) (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", fmt.Errorf("encode lineup: %w", err)
	}
	return string(b), nil
}

func unmarshalLineup(s string) (domain.Lineup, error) {
	var l domain.Lineup
	if err := json.Unmarshal([]byte(s), &l); err != nil {
		return nil, fmt.Errorf("decode lineup: %w", err)
	}
	return l, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
