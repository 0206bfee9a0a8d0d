package models

import "strings"

// MuscleGroup identifies one tracked muscle group.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleCore       MuscleGroup = "core"
	MuscleQuads      MuscleGroup = "quads"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleCalves     MuscleGroup = "calves"
)

// Region splits muscle groups into the two halves a training day targets.
type Region string

const (
	RegionUpper Region = "upper"
	RegionLower Region = "lower"
)

// allMuscleGroups fixes the canonical display/iteration order.
var allMuscleGroups = []MuscleGroup{
	MuscleChest, MuscleBack, MuscleShoulders, MuscleBiceps, MuscleTriceps,
	MuscleCore, MuscleQuads, MuscleHamstrings, MuscleGlutes, MuscleCalves,
}

var muscleRegions = map[MuscleGroup]Region{
	MuscleChest:      RegionUpper,
	MuscleBack:       RegionUpper,
	MuscleShoulders:  RegionUpper,
	MuscleBiceps:     RegionUpper,
	MuscleTriceps:    RegionUpper,
	MuscleCore:       RegionUpper,
	MuscleQuads:      RegionLower,
	MuscleHamstrings: RegionLower,
	MuscleGlutes:     RegionLower,
	MuscleCalves:     RegionLower,
}

// muscleAliases maps names seen in app exports to canonical groups.
var muscleAliases = map[string]MuscleGroup{
	"pecs":       MuscleChest,
	"pectorals":  MuscleChest,
	"lats":       MuscleBack,
	"upper back": MuscleBack,
	"lower back": MuscleBack,
	"traps":      MuscleBack,
	"delts":      MuscleShoulders,
	"deltoids":   MuscleShoulders,
	"abs":        MuscleCore,
	"abdominals": MuscleCore,
	"obliques":   MuscleCore,
	"quadriceps": MuscleQuads,
	"hams":       MuscleHamstrings,
	"glute":      MuscleGlutes,
	"calf":       MuscleCalves,
}

// AllMuscleGroups returns every tracked muscle group in canonical order.
func AllMuscleGroups() []MuscleGroup {
	out := make([]MuscleGroup, len(allMuscleGroups))
	copy(out, allMuscleGroups)
	return out
}

// Region returns the upper/lower classification for the group.
func (g MuscleGroup) Region() Region {
	return muscleRegions[g]
}

// Valid reports whether g is one of the tracked muscle groups.
func (g MuscleGroup) Valid() bool {
	_, ok := muscleRegions[g]
	return ok
}

// RegionSize returns how many tracked muscle groups belong to the region.
func RegionSize(r Region) int {
	n := 0
	for _, region := range muscleRegions {
		if region == r {
			n++
		}
	}
	return n
}

// ParseMuscleGroup normalizes a free-form muscle name (case-insensitive,
// common export aliases accepted) to a canonical group.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	if g := MuscleGroup(name); g.Valid() {
		return g, true
	}
	if g, ok := muscleAliases[name]; ok {
		return g, true
	}
	return "", false
}
