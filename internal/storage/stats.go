package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/ironlog/internal/models"
)

// DataStats summarizes the stored history for the stats endpoint.
type DataStats struct {
	TotalSets      int                              `json:"total_sets"`
	Exercises      int                              `json:"exercises"`
	FirstSet       *time.Time                       `json:"first_set,omitempty"`
	LastSet        *time.Time                       `json:"last_set,omitempty"`
	TonnageKg      float64                          `json:"tonnage_kg"`
	LastTrainedMap map[models.MuscleGroup]time.Time `json:"last_trained"`
}

// GetDataStats aggregates history-wide counts, span, and tonnage, plus the
// all-time last-trained timestamp per muscle group.
func (db *DB) GetDataStats(ctx context.Context) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*)::int,
		        COUNT(DISTINCT exercise)::int,
		        MIN(performed_at),
		        MAX(performed_at),
		        COALESCE(SUM(weight_kg * reps), 0)
		 FROM set_logs`,
	).Scan(&stats.TotalSets, &stats.Exercises, &stats.FirstSet, &stats.LastSet, &stats.TonnageKg)
	if err != nil {
		return nil, fmt.Errorf("querying data stats: %w", err)
	}

	latest, err := db.LatestStimuli(ctx)
	if err != nil {
		return nil, err
	}
	stats.LastTrainedMap = latest

	return stats, nil
}
