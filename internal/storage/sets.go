package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// InsertSets batch-inserts logged sets. Duplicate IDs are skipped. Returns
// the count inserted.
func (db *DB) InsertSets(ctx context.Context, sets []models.SetLog) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	query := `INSERT INTO set_logs (id, exercise, muscles, performed_at, weight_kg, reps, rir) VALUES `
	args := make([]any, 0, len(sets)*7)
	valueStrings := make([]string, 0, len(sets))

	for i, s := range sets {
		base := i * 7
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7,
		))
		args = append(args, s.ID, s.Exercise, muscleNames(s.Muscles), s.PerformedAt, s.WeightKg, s.Reps, s.RIR)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySets retrieves logged sets in a time range, newest first.
func (db *DB) QuerySets(ctx context.Context, start, end time.Time) ([]models.SetLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise, muscles, performed_at, weight_kg, reps, rir
		 FROM set_logs
		 WHERE performed_at >= $1 AND performed_at < $2
		 ORDER BY performed_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

// RecentSets retrieves the most recently performed sets up to limit.
func (db *DB) RecentSets(ctx context.Context, limit int) ([]models.SetLog, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise, muscles, performed_at, weight_kg, reps, rir
		 FROM set_logs
		 ORDER BY performed_at DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent sets: %w", err)
	}
	defer rows.Close()

	return scanSets(rows)
}

// DeleteSet removes one logged set by ID.
func (db *DB) DeleteSet(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM set_logs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting set: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestStimuli returns the most recent stimulus timestamp per muscle group
// across all history. Used for all-time stats; day-to-day recovery derives
// from the history window instead.
func (db *DB) LatestStimuli(ctx context.Context) (map[models.MuscleGroup]time.Time, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT m, MAX(performed_at)
		 FROM set_logs, unnest(muscles) AS m
		 GROUP BY m`)
	if err != nil {
		return nil, fmt.Errorf("querying latest stimuli: %w", err)
	}
	defer rows.Close()

	out := make(map[models.MuscleGroup]time.Time)
	for rows.Next() {
		var name string
		var ts time.Time
		if err := rows.Scan(&name, &ts); err != nil {
			return nil, fmt.Errorf("scanning stimulus: %w", err)
		}
		if g, ok := models.ParseMuscleGroup(name); ok {
			out[g] = ts
		}
	}
	return out, rows.Err()
}

func scanSets(rows pgx.Rows) ([]models.SetLog, error) {
	var result []models.SetLog
	for rows.Next() {
		var s models.SetLog
		var muscles []string
		if err := rows.Scan(&s.ID, &s.Exercise, &muscles, &s.PerformedAt, &s.WeightKg, &s.Reps, &s.RIR); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		for _, m := range muscles {
			if g, ok := models.ParseMuscleGroup(m); ok {
				s.Muscles = append(s.Muscles, g)
			}
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func muscleNames(groups []models.MuscleGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = string(g)
	}
	return out
}
