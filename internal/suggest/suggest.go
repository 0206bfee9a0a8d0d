// Package suggest turns per-muscle recovery statuses into a single
// "what to train today" recommendation.
package suggest

import (
	"fmt"
	"strings"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/recovery"
)

// Focus is the recommended training emphasis for the day.
type Focus string

const (
	FocusFull  Focus = "full"
	FocusUpper Focus = "upper"
	FocusLower Focus = "lower"
	FocusRest  Focus = "rest"
)

// DefaultThreshold is the minimum recovery fraction for a muscle group to
// count as fresh.
const DefaultThreshold = 0.8

// Suggestion is one immutable recommendation record.
type Suggestion struct {
	Focus        Focus                `json:"focus"`
	Message      string               `json:"message"`
	Reason       string               `json:"reason"`
	FreshMuscles []models.MuscleGroup `json:"fresh_muscles"`
}

// Build evaluates the fixed-order decision policy over the recovery map.
// It is total: every input produces a suggestion, never an error.
func Build(statuses map[models.MuscleGroup]recovery.Status, threshold float64) Suggestion {
	var fresh, upper, lower []models.MuscleGroup
	for _, g := range models.AllMuscleGroups() {
		if statuses[g].Fraction < threshold {
			continue
		}
		fresh = append(fresh, g)
		switch g.Region() {
		case models.RegionUpper:
			upper = append(upper, g)
		case models.RegionLower:
			lower = append(lower, g)
		}
	}

	upperMajority := majority(len(upper), models.RegionSize(models.RegionUpper))
	lowerMajority := majority(len(lower), models.RegionSize(models.RegionLower))

	var s Suggestion
	s.FreshMuscles = fresh

	switch {
	case len(upper) > 0 && len(lower) > 0 && upperMajority && lowerMajority:
		s.Focus = FocusFull
		s.Message = "Full body day"
		s.Reason = fmt.Sprintf("Most muscle groups are recovered: %s.", muscleList(fresh))
	case len(upper) > 0 && (len(lower) == 0 || !lowerMajority):
		s.Focus = FocusUpper
		s.Message = "Upper body day"
		s.Reason = fmt.Sprintf("Upper body is ready (%s); lower body needs more rest.", muscleList(upper))
	case len(lower) > 0 && (len(upper) == 0 || !upperMajority):
		s.Focus = FocusLower
		s.Message = "Lower body day"
		s.Reason = fmt.Sprintf("Lower body is ready (%s); upper body needs more rest.", muscleList(lower))
	default:
		s.Focus = FocusRest
		s.Message = "Rest day"
		s.Reason = "No muscle group has recovered enough to train hard. Take a rest day."
	}
	return s
}

// majority reports whether fresh covers more than half of a region's tracked
// muscle groups.
func majority(fresh, total int) bool {
	return total > 0 && fresh*2 > total
}

func muscleList(groups []models.MuscleGroup) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}
