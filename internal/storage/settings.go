package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Settings are the user-adjustable computation parameters persisted in the
// database. A single-row table; config supplies the values until the first
// PUT.
type Settings struct {
	Unit        string         `json:"unit"`
	Bar         string         `json:"bar"`
	Threshold   float64        `json:"freshness_threshold"`
	WindowHours map[string]int `json:"recovery_window_hours"`
}

// GetSettings loads the persisted settings. Returns ErrNotFound when nothing
// has been saved yet.
func (db *DB) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	err := db.Pool.QueryRow(ctx,
		`SELECT unit, bar, freshness_threshold FROM settings WHERE id = 1`,
	).Scan(&s.Unit, &s.Bar, &s.Threshold)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}

	rows, err := db.Pool.Query(ctx, `SELECT muscle, hours FROM recovery_windows`)
	if err != nil {
		return nil, fmt.Errorf("querying recovery windows: %w", err)
	}
	defer rows.Close()

	s.WindowHours = make(map[string]int)
	for rows.Next() {
		var muscle string
		var hours int
		if err := rows.Scan(&muscle, &hours); err != nil {
			return nil, fmt.Errorf("scanning recovery window: %w", err)
		}
		s.WindowHours[muscle] = hours
	}
	return &s, rows.Err()
}

// PutSettings upserts the settings row and replaces the window overrides.
func (db *DB) PutSettings(ctx context.Context, s *Settings) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning settings tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO settings (id, unit, bar, freshness_threshold)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET unit = EXCLUDED.unit, bar = EXCLUDED.bar,
		     freshness_threshold = EXCLUDED.freshness_threshold`,
		s.Unit, s.Bar, s.Threshold)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM recovery_windows`); err != nil {
		return fmt.Errorf("clearing recovery windows: %w", err)
	}
	for muscle, hours := range s.WindowHours {
		_, err := tx.Exec(ctx,
			`INSERT INTO recovery_windows (muscle, hours) VALUES ($1, $2)`,
			muscle, hours)
		if err != nil {
			return fmt.Errorf("inserting recovery window %s: %w", muscle, err)
		}
	}

	return tx.Commit(ctx)
}
