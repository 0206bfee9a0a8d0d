// Package recovery estimates per-muscle-group freshness from logged workout
// history. The model is a linear recovery curve off the single most recent
// stimulus per muscle group; earlier sessions inside the window neither
// extend nor shorten it (no cumulative fatigue).
package recovery

import (
	"time"

	"github.com/claude/ironlog/internal/models"
)

// fallbackWindow applies when a muscle group has no configured window.
const fallbackWindow = 48 * time.Hour

// Status is the recovery state of one muscle group.
type Status struct {
	// Fraction of recovery completed since the last stimulus, in [0,1].
	// 1 means fully fresh (or never trained).
	Fraction float64 `json:"fraction"`
	// LastTrained is the most recent stimulus, nil if the group has no
	// history.
	LastTrained *time.Time `json:"last_trained,omitempty"`
}

// Windows holds the per-muscle-group recovery duration.
type Windows map[models.MuscleGroup]time.Duration

// DefaultWindows returns the built-in recovery windows. Large posterior-chain
// groups get the longest windows; core the shortest.
func DefaultWindows() Windows {
	return Windows{
		models.MuscleChest:      48 * time.Hour,
		models.MuscleBack:       72 * time.Hour,
		models.MuscleShoulders:  48 * time.Hour,
		models.MuscleBiceps:     48 * time.Hour,
		models.MuscleTriceps:    48 * time.Hour,
		models.MuscleCore:       36 * time.Hour,
		models.MuscleQuads:      72 * time.Hour,
		models.MuscleHamstrings: 72 * time.Hour,
		models.MuscleGlutes:     60 * time.Hour,
		models.MuscleCalves:     48 * time.Hour,
	}
}

// WindowsFromHours merges per-muscle hour overrides (keyed by muscle name,
// as stored in config and settings) over the defaults. Unknown muscle names
// and non-positive hours are ignored.
func WindowsFromHours(hours map[string]int) Windows {
	w := DefaultWindows()
	for name, h := range hours {
		g, ok := models.ParseMuscleGroup(name)
		if !ok || h <= 0 {
			continue
		}
		w[g] = time.Duration(h) * time.Hour
	}
	return w
}

// LatestStimuli reduces history to the most recent stimulus timestamp per
// muscle group. A set counts as a stimulus for every group it lists.
func LatestStimuli(history []models.SetLog) map[models.MuscleGroup]time.Time {
	latest := make(map[models.MuscleGroup]time.Time)
	for _, s := range history {
		for _, g := range s.Muscles {
			if !g.Valid() {
				continue
			}
			if cur, ok := latest[g]; !ok || s.PerformedAt.After(cur) {
				latest[g] = s.PerformedAt
			}
		}
	}
	return latest
}

// Compute returns the recovery status of every tracked muscle group at the
// given instant. Pure: the same history, now, and windows always produce the
// same map. Sample now once per computation and hold it fixed.
func Compute(history []models.SetLog, now time.Time, windows Windows) map[models.MuscleGroup]Status {
	latest := LatestStimuli(history)

	out := make(map[models.MuscleGroup]Status, len(models.AllMuscleGroups()))
	for _, g := range models.AllMuscleGroups() {
		ts, ok := latest[g]
		if !ok {
			out[g] = Status{Fraction: 1}
			continue
		}

		window, ok := windows[g]
		if !ok || window <= 0 {
			window = fallbackWindow
		}

		elapsed := now.Sub(ts)
		fraction := float64(elapsed) / float64(window)
		if fraction > 1 {
			fraction = 1
		}
		if fraction < 0 {
			// Stimulus timestamped in the future (clock skew); treat as just
			// trained.
			fraction = 0
		}

		t := ts
		out[g] = Status{Fraction: fraction, LastTrained: &t}
	}
	return out
}
