// Package journal records an append-only SQLite log of each match: the
// commands that applied and the turn transitions they caused.
package journal

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Match is one row of the matches table.
type Match struct {
	ID        string `db:"id"`
	Seed      int64  `db:"seed"`
	Radius    int    `db:"radius"`
	Players   int    `db:"players"`
	MaxTurns  int    `db:"max_turns"`
	CreatedAt int64  `db:"created_at"` // unix nanoseconds
}

// Event is one journal entry. Seq is assigned on append.
type Event struct {
	ID        int64  `db:"id"`
	MatchID   string `db:"match_id"`
	Seq       int    `db:"seq"`
	Turn      int    `db:"turn"`
	Phase     string `db:"phase"`
	Kind      string `db:"kind"`
	UnitID    string `db:"unit_id"`
	Q         *int   `db:"q"`
	R         *int   `db:"r"`
	Detail    string `db:"detail_json"`
	CreatedAt int64  `db:"created_at"`
}

// At sets the event coordinate.
func (e *Event) At(q, r int) {
	e.Q, e.R = &q, &r
}

// Detail marshals v for Event.Detail. Values that cannot be marshalled are
// recorded as null.
func Detail(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// Recorder is the part of the journal the game writes to.
type Recorder interface {
	StartMatch(m Match) error
	Append(e Event) (Event, error)
}

// DB wraps a SQLite connection holding the journal.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a journal database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		radius INTEGER NOT NULL,
		players INTEGER NOT NULL,
		max_turns INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL REFERENCES matches(id),
		seq INTEGER NOT NULL,
		turn INTEGER NOT NULL,
		phase TEXT NOT NULL,
		kind TEXT NOT NULL,
		unit_id TEXT NOT NULL DEFAULT '',
		q INTEGER,
		r INTEGER,
		detail_json TEXT NOT NULL DEFAULT 'null',
		created_at INTEGER NOT NULL,
		UNIQUE(match_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_events_match ON events(match_id, seq);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartMatch records a new match.
func (db *DB) StartMatch(m Match) error {
	if m.CreatedAt == 0 {
		m.CreatedAt = time.Now().UnixNano()
	}
	_, err := db.conn.NamedExec(`INSERT INTO matches
		(id, seed, radius, players, max_turns, created_at)
		VALUES (:id, :seed, :radius, :players, :max_turns, :created_at)`, m)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}
	slog.Debug("journal match started", "match", m.ID, "seed", m.Seed)
	return nil
}

// Append writes e with the next sequence number of its match and returns
// the stored event.
func (db *DB) Append(e Event) (Event, error) {
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UnixNano()
	}
	if e.Detail == "" {
		e.Detail = "null"
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return e, err
	}
	defer tx.Rollback()

	if err := tx.Get(&e.Seq, "SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE match_id = ?", e.MatchID); err != nil {
		return e, fmt.Errorf("next seq: %w", err)
	}
	res, err := tx.NamedExec(`INSERT INTO events
		(match_id, seq, turn, phase, kind, unit_id, q, r, detail_json, created_at)
		VALUES (:match_id, :seq, :turn, :phase, :kind, :unit_id, :q, :r, :detail_json, :created_at)`, e)
	if err != nil {
		return e, fmt.Errorf("insert event %s: %w", e.Kind, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return e, err
	}
	return e, tx.Commit()
}

// Events returns every event of a match in sequence order.
func (db *DB) Events(matchID string) ([]Event, error) {
	var events []Event
	err := db.conn.Select(&events,
		"SELECT * FROM events WHERE match_id = ? ORDER BY seq",
		matchID,
	)
	return events, err
}

// Matches returns every recorded match, newest first.
func (db *DB) Matches() ([]Match, error) {
	var matches []Match
	err := db.conn.Select(&matches, "SELECT * FROM matches ORDER BY created_at DESC")
	return matches, err
}

// LastTurn returns the highest turn number recorded for a match, or 0 if it
// has no events.
func (db *DB) LastTurn(matchID string) (int, error) {
	var turn sql.NullInt64
	err := db.conn.Get(&turn, "SELECT MAX(turn) FROM events WHERE match_id = ?", matchID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return int(turn.Int64), nil
}
