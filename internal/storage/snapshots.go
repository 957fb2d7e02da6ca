package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNoSnapshot is returned when a save slot is empty.
var ErrNoSnapshot = errors.New("storage: no snapshot in slot")

// QuickSlot is the slot bound to the quick save and load keys.
const QuickSlot = "quick"

// Snapshot is an encoded world stored under a named slot.
type Snapshot struct {
	Slot    string
	GameID  string
	Score   int
	Data    []byte
	SavedAt time.Time
}

// SaveSnapshot writes data into slot, replacing whatever was there.
func (s *Store) SaveSnapshot(slot, gameID string, score int, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO snapshots (slot, game_id, score, data, saved_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET
		   game_id = excluded.game_id,
		   score = excluded.score,
		   data = excluded.data,
		   saved_at = excluded.saved_at`,
		slot, gameID, score, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot %q: %w", slot, err)
	}
	return nil
}

// LoadSnapshot reads the snapshot in slot. An empty slot yields ErrNoSnapshot.
func (s *Store) LoadSnapshot(slot string) (Snapshot, error) {
	snap := Snapshot{Slot: slot}
	var savedAt any
	err := s.db.QueryRow(
		`SELECT game_id, score, data, saved_at FROM snapshots WHERE slot = ?`,
		slot,
	).Scan(&snap.GameID, &snap.Score, &snap.Data, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("storage: cannot load snapshot %q: %w", slot, err)
	}
	snap.SavedAt = parseTimestamp(savedAt)
	return snap, nil
}

// ListSnapshots returns every slot without its payload, newest first.
func (s *Store) ListSnapshots() ([]Snapshot, error) {
	rows, err := s.db.Query(
		`SELECT slot, game_id, score, saved_at FROM snapshots ORDER BY saved_at DESC, slot`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var snap Snapshot
		var savedAt any
		if err := rows.Scan(&snap.Slot, &snap.GameID, &snap.Score, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan snapshot row: %w", err)
		}
		snap.SavedAt = parseTimestamp(savedAt)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// DeleteSnapshot empties slot. Deleting an empty slot is not an error.
func (s *Store) DeleteSnapshot(slot string) error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot %q: %w", slot, err)
	}
	return nil
}
