// internal/history/store.go
//
// Results history for finished games.
// Responsibilities:
//   - Recording won games (free and daily) with their revealed secret and commitment.
//   - Enforcing one daily result per player per date (unique index, ErrAlreadyPlayed).
//   - Daily leaderboard and per-player recent list; both are bounded by a LIMIT.

package history

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Modes recorded with each result.
const (
	ModeFree  = "free"
	ModeDaily = "daily"
)

// ErrAlreadyPlayed is returned by Record when a daily result for the same
// player and date, or the same game id, already exists.
var ErrAlreadyPlayed = errors.New("already recorded")

// Result is one finished game.
type Result struct {
	GameID     string `json:"gameId"`
	Player     string `json:"player"`
	Mode       string `json:"mode"`
	Date       string `json:"date"`
	Secret     uint32 `json:"secret"`
	Commitment string `json:"commitment"`
	Attempts   int    `json:"attempts"`
	Invalid    int    `json:"invalid"`
	ElapsedMs  int64  `json:"elapsedMs"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	Player    string `json:"player"`
	Attempts  int    `json:"attempts"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store persists finished games in SQLite.
type Store struct{ db *sql.DB }

// Open opens dsn, applies migrations and returns a ready Store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts a finished game.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.Mode == "" {
		r.Mode = ModeFree
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results
			(game_id, player, mode, date, secret, commitment, attempts, invalid, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.GameID, r.Player, r.Mode, r.Date, r.Secret, r.Commitment, r.Attempts, r.Invalid, r.ElapsedMs,
	)
	var se sqlite3.Error
	if errors.As(err, &se) &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return ErrAlreadyPlayed
	}
	return err
}

// AlreadyPlayed reports whether player has a daily result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, player, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM results WHERE player=? AND date=? AND mode=?`,
		player, date, ModeDaily,
	).Scan(&cnt)
	return cnt > 0, err
}

// Leaderboard returns the best daily results for date: fewest attempts,
// then fastest, then earliest. A non-positive limit means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT player, attempts, elapsed_ms
		FROM results
		WHERE date=? AND mode=?
		ORDER BY attempts ASC, elapsed_ms ASC, created_at ASC
		LIMIT ?`, date, ModeDaily, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Player, &r.Attempts, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// maxRecent caps the number of rows Recent returns.
const maxRecent = 100

// Recent returns up to limit results for player, newest first.
// A non-positive limit means 50; limits above maxRecent are clamped.
func (s *Store) Recent(ctx context.Context, player string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT game_id, player, mode, date, secret, commitment, attempts, invalid, elapsed_ms, created_at
		FROM results
		WHERE player=?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.GameID, &r.Player, &r.Mode, &r.Date, &r.Secret, &r.Commitment,
			&r.Attempts, &r.Invalid, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
