package sqlite

// Lineups are stored as JSON arrays; the raw event journal keeps the full
// event body as JSON so replay sees exactly what was committed.
const schema = `
CREATE TABLE IF NOT EXISTS games (
	id               TEXT PRIMARY KEY,
	team_id          TEXT NOT NULL,
	date             TEXT NOT NULL DEFAULT '',
	opponent         TEXT NOT NULL DEFAULT '',
	location         TEXT NOT NULL DEFAULT 'HOME',
	model            TEXT NOT NULL DEFAULT 'SIMPLE',
	final_score_us   INTEGER NOT NULL DEFAULT 0,
	final_score_them INTEGER NOT NULL DEFAULT 0,
	completed        INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS events (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL UNIQUE,
	game_id TEXT NOT NULL REFERENCES games(id),
	type    TEXT NOT NULL,
	body    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id, seq);

CREATE TABLE IF NOT EXISTS possessions (
	id             TEXT PRIMARY KEY,
	game_id        TEXT NOT NULL REFERENCES games(id),
	quarter        INTEGER NOT NULL,
	time_remaining INTEGER NOT NULL,
	outcome        TEXT NOT NULL,
	failure_type   TEXT NOT NULL DEFAULT '',
	lineup         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_possessions_game ON possessions(game_id);

CREATE TABLE IF NOT EXISTS detailed_possessions (
	id               TEXT PRIMARY KEY,
	game_id          TEXT NOT NULL REFERENCES games(id),
	quarter          INTEGER NOT NULL,
	time_elapsed     INTEGER NOT NULL,
	lineup           TEXT NOT NULL,
	outcome          TEXT NOT NULL,
	ball_advancement TEXT NOT NULL DEFAULT '',
	shot_quality     TEXT NOT NULL DEFAULT '',
	shooter_id       TEXT NOT NULL DEFAULT '',
	shot_type        TEXT NOT NULL DEFAULT '',
	shot_result      TEXT NOT NULL DEFAULT '',
	points_scored    INTEGER NOT NULL DEFAULT 0,
	momentum_state   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_detailed_game ON detailed_possessions(game_id);

CREATE TABLE IF NOT EXISTS shots (
	id           TEXT PRIMARY KEY,
	game_id      TEXT NOT NULL REFERENCES games(id),
	player_id    TEXT NOT NULL,
	quarter      INTEGER NOT NULL,
	time_elapsed INTEGER NOT NULL,
	shot_type    TEXT NOT NULL,
	made         INTEGER NOT NULL,
	x            REAL,
	y            REAL
);
CREATE INDEX IF NOT EXISTS idx_shots_game ON shots(game_id);

CREATE TABLE IF NOT EXISTS lineup_stints (
	id             TEXT PRIMARY KEY,
	game_id        TEXT NOT NULL REFERENCES games(id),
	lineup         TEXT NOT NULL,
	start_time     INTEGER NOT NULL,
	end_time       INTEGER,
	duration       INTEGER,
	points_for     INTEGER NOT NULL DEFAULT 0,
	points_against INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_stints_game ON lineup_stints(game_id);

CREATE TABLE IF NOT EXISTS player_energy_log (
	id           TEXT PRIMARY KEY,
	game_id      TEXT NOT NULL REFERENCES games(id),
	player_id    TEXT NOT NULL,
	time_elapsed INTEGER NOT NULL,
	energy_level REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_energy_game ON player_energy_log(game_id);

CREATE TABLE IF NOT EXISTS player_game_stats (
	game_id            TEXT NOT NULL REFERENCES games(id),
	player_id          TEXT NOT NULL,
	minutes_played     REAL NOT NULL DEFAULT 0,
	points             INTEGER NOT NULL DEFAULT 0,
	assists            INTEGER NOT NULL DEFAULT 0,
	rebounds_offensive INTEGER NOT NULL DEFAULT 0,
	rebounds_defensive INTEGER NOT NULL DEFAULT 0,
	turnovers          INTEGER NOT NULL DEFAULT 0,
	steals             INTEGER NOT NULL DEFAULT 0,
	blocks             INTEGER NOT NULL DEFAULT 0,
	fouls              INTEGER NOT NULL DEFAULT 0,
	plus_minus         INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (game_id, player_id)
);
`
