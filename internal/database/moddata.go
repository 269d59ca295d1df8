package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrPlayerNotFound is returned when no save exists for a player.
var ErrPlayerNotFound = errors.New("player not found")

// PlayerRecord summarizes one owner's save.
type PlayerRecord struct {
	PlayerID  string
	TotalDays int
	LastSaved time.Time
	Keys      int
}

// SaveModData replaces all mod data for a player.
// This is a full replace operation - existing keys are deleted first.
func (d *Database) SaveModData(playerID string, totalDays int, data map[string]string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := d.upsertPlayer(tx, playerID, totalDays); err != nil {
		return err
	}

	if _, err := tx.Exec(d.qb.Build("DELETE FROM mod_data WHERE player_id = ?"), playerID); err != nil {
		return fmt.Errorf("failed to clear mod data: %w", err)
	}

	if len(data) > 0 {
		stmt, err := tx.Prepare(d.qb.Build("INSERT INTO mod_data (player_id, key, value) VALUES (?, ?, ?)"))
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		keys := make([]string, 0, len(data))
		for k := range data {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			if _, err := stmt.Exec(playerID, key, data[key]); err != nil {
				return fmt.Errorf("failed to insert mod data %q: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadModData retrieves all mod data for a player.
// Returns ErrPlayerNotFound if the player has never been saved.
func (d *Database) LoadModData(playerID string) (map[string]string, error) {
	if _, err := d.GetPlayer(playerID); err != nil {
		return nil, err
	}

	rows, err := d.db.Query(d.qb.Build("SELECT key, value FROM mod_data WHERE player_id = ?"), playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mod data: %w", err)
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan mod data: %w", err)
		}
		data[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mod data: %w", err)
	}

	return data, nil
}

// SetModValue writes a single key for an existing player.
func (d *Database) SetModValue(playerID, key, value string) error {
	if _, err := d.GetPlayer(playerID); err != nil {
		return err
	}

	query := d.qb.Build(`INSERT INTO mod_data (player_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (player_id, key) DO UPDATE SET value = excluded.value`)
	if _, err := d.db.Exec(query, playerID, key, value); err != nil {
		return fmt.Errorf("failed to set mod data %q: %w", key, err)
	}
	return nil
}

// DeleteModValue removes a single key. Removing an absent key is not an error.
func (d *Database) DeleteModValue(playerID, key string) error {
	if _, err := d.db.Exec(d.qb.Build("DELETE FROM mod_data WHERE player_id = ? AND key = ?"), playerID, key); err != nil {
		return fmt.Errorf("failed to delete mod data %q: %w", key, err)
	}
	return nil
}

// GetPlayer returns the save summary for one player.
func (d *Database) GetPlayer(playerID string) (*PlayerRecord, error) {
	query := d.qb.Build(`SELECT p.player_id, p.total_days, p.last_saved,
		(SELECT COUNT(*) FROM mod_data m WHERE m.player_id = p.player_id)
		FROM players p WHERE p.player_id = ?`)

	rec, err := scanPlayer(d.db.QueryRow(query, playerID))
	if err == sql.ErrNoRows {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return rec, nil
}

// ListPlayers returns every saved player ordered by ID.
func (d *Database) ListPlayers() ([]PlayerRecord, error) {
	rows, err := d.db.Query(`SELECT p.player_id, p.total_days, p.last_saved,
		(SELECT COUNT(*) FROM mod_data m WHERE m.player_id = p.player_id)
		FROM players p ORDER BY p.player_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []PlayerRecord
	for rows.Next() {
		rec, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating players: %w", err)
	}

	return players, nil
}

// DeletePlayer removes a player and all of their mod data.
func (d *Database) DeletePlayer(playerID string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(d.qb.Build("DELETE FROM mod_data WHERE player_id = ?"), playerID); err != nil {
		return fmt.Errorf("failed to delete mod data: %w", err)
	}
	res, err := tx.Exec(d.qb.Build("DELETE FROM players WHERE player_id = ?"), playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrPlayerNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *Database) upsertPlayer(tx *sql.Tx, playerID string, totalDays int) error {
	query := d.qb.Build(`INSERT INTO players (player_id, total_days, last_saved) VALUES (?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET total_days = excluded.total_days, last_saved = excluded.last_saved`)
	if _, err := tx.Exec(query, playerID, totalDays, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*PlayerRecord, error) {
	var (
		rec       PlayerRecord
		lastSaved sql.NullTime
	)
	if err := row.Scan(&rec.PlayerID, &rec.TotalDays, &lastSaved, &rec.Keys); err != nil {
		return nil, err
	}
	if lastSaved.Valid {
		rec.LastSaved = lastSaved.Time
	}
	return &rec, nil
}
