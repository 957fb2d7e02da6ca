// Package storage keeps per-game score history and saved worlds in a
// single SQLite file through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultTopScores is the leaderboard size used when a caller asks for
// zero or fewer rows.
const DefaultTopScores = 10

// sqliteTimeLayouts are the text forms CURRENT_TIMESTAMP and the driver
// produce, tried in order.
var sqliteTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL,
	score INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

CREATE TABLE IF NOT EXISTS snapshots (
	slot TEXT PRIMARY KEY,
	game_id TEXT NOT NULL,
	score INTEGER NOT NULL DEFAULT 0,
	data BLOB NOT NULL,
	saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// Store is an open score and snapshot database. It is safe for concurrent
// use; SSH sessions share one Store.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished round.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Score     int
	CreatedAt time.Time
}

// GameStats summarises every recorded round of one game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	LastPlayed time.Time
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// Open opens the database at path, creating missing parent directories
// and tables. A leading "~" expands to the home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir for %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("storage: migrate %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: expand %s: %w", path, err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Close releases the database handle. Closing a zero Store is a no-op.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore appends a finished round and returns its row id.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	res, err := s.db.Exec(`INSERT INTO scores (game_id, score) VALUES (?, ?)`, gameID, score)
	if err != nil {
		return 0, fmt.Errorf("storage: save %s score: %w", gameID, err)
	}
	return res.LastInsertId()
}

// TopScores returns up to limit rounds of gameID, best first. Ties keep
// insertion order.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = DefaultTopScores
	}
	rows, err := s.db.Query(
		`SELECT id, game_id, score, created_at FROM scores
		 WHERE game_id = ? ORDER BY score DESC, id LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: query %s scores: %w", gameID, err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		e, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: read %s scores: %w", gameID, err)
	}
	return out, nil
}

func scanScore(r rowScanner) (ScoreEntry, error) {
	var e ScoreEntry
	var created any
	if err := r.Scan(&e.ID, &e.GameID, &e.Score, &created); err != nil {
		return ScoreEntry{}, fmt.Errorf("storage: scan score: %w", err)
	}
	e.CreatedAt = parseTimestamp(created)
	return e, nil
}

// HighScore returns the best score of gameID, or 0 before the first round.
func (s *Store) HighScore(gameID string) (int, error) {
	var best int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE game_id = ?`, gameID,
	).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("storage: %s high score: %w", gameID, err)
	}
	return best, nil
}

// ClearScores forgets every round of gameID.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec(`DELETE FROM scores WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("storage: clear %s scores: %w", gameID, err)
	}
	return nil
}

// GetGameStats aggregates every round of gameID. A game with no rounds
// yields zero counts and a zero LastPlayed.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var last any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: %s stats: %w", gameID, err)
	}
	stats.LastPlayed = parseTimestamp(last)
	return stats, nil
}

// parseTimestamp converts a scanned DATETIME column to UTC. Aggregates
// such as MAX(created_at) lose the column type and arrive as text or
// bytes; NULL and unparseable values become the zero time.
func parseTimestamp(v any) time.Time {
	var text string
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		text = t
	case []byte:
		text = string(t)
	default:
		return time.Time{}
	}
	for _, layout := range sqliteTimeLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
