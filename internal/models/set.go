package models

import (
	"time"

	"github.com/google/uuid"
)

// SetLog is one logged working set, the unit of workout history.
// Muscles lists every group the exercise trains; the recovery model treats
// each listed group as stimulated at PerformedAt.
type SetLog struct {
	ID          uuid.UUID     `json:"id"`
	Exercise    string        `json:"exercise"`
	Muscles     []MuscleGroup `json:"muscles"`
	PerformedAt time.Time     `json:"performed_at"`
	WeightKg    float64       `json:"weight_kg"`
	Reps        int           `json:"reps"`
	RIR         *float64      `json:"rir,omitempty"`
}

// ExportSession is one session in an app export file (import format).
type ExportSession struct {
	Name string      `json:"name"`
	Date string      `json:"date"`
	Sets []ExportSet `json:"sets"`
}

// ExportSet is one set inside an export session. Muscle names are free-form
// and normalized through ParseMuscleGroup during import.
type ExportSet struct {
	Exercise    string   `json:"exercise"`
	Muscles     []string `json:"muscles"`
	PerformedAt string   `json:"performed_at,omitempty"`
	WeightKg    float64  `json:"weight_kg"`
	Reps        int      `json:"reps"`
	RIR         *float64 `json:"rir,omitempty"`
}

// ExportFile is the top-level shape of a workout export.
type ExportFile struct {
	Sessions []ExportSession `json:"sessions"`
}
