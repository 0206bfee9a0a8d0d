// Package plates converts a target barbell weight into a physically loadable
// plate combination for one side of a symmetrically loaded bar.
package plates

import "math"

// Unit is the weight unit system a gym's plates are denominated in.
type Unit string

const (
	UnitLb Unit = "lb"
	UnitKg Unit = "kg"
)

// Bar is one of the supported bar variants.
type Bar string

const (
	BarOlympic Bar = "olympic"
	BarWomens  Bar = "womens"
	BarEZ      Bar = "ez"
	BarTrap    Bar = "trap"
)

// barWeights holds the fixed bar weight per unit system.
var barWeights = map[Bar]map[Unit]float64{
	BarOlympic: {UnitLb: 45, UnitKg: 20},
	BarWomens:  {UnitLb: 35, UnitKg: 15},
	BarEZ:      {UnitLb: 25, UnitKg: 10},
	BarTrap:    {UnitLb: 55, UnitKg: 25},
}

// denominations lists available plate weights per unit, strictly descending,
// unlimited supply per side.
var denominations = map[Unit][]float64{
	UnitLb: {45, 35, 25, 10, 5, 2.5},
	UnitKg: {25, 20, 15, 10, 5, 2.5, 1.25},
}

// eps absorbs float error when dividing per-side budgets by denominations
// like 2.5 and 1.25.
const eps = 1e-9

// Weight returns the bar's weight in the given unit, or 0 for an unknown bar.
func (b Bar) Weight(u Unit) float64 {
	return barWeights[b][u]
}

// Valid reports whether b is a supported bar variant.
func (b Bar) Valid() bool {
	_, ok := barWeights[b]
	return ok
}

// Valid reports whether u is a supported unit system.
func (u Unit) Valid() bool {
	_, ok := denominations[u]
	return ok
}

// Denominations returns the plate weights available in the unit, largest first.
func Denominations(u Unit) []float64 {
	src := denominations[u]
	out := make([]float64, len(src))
	copy(out, src)
	return out
}

// PlateCount is one denomination and how many of it load onto one side.
type PlateCount struct {
	Weight float64 `json:"weight"`
	Count  int     `json:"count"`
}

// Loading is the result of solving a target weight: the plates for one side
// (the other side mirrors it), the weight achieved, and how far off the
// target the achievable total landed.
type Loading struct {
	Target     float64      `json:"target"`
	BarWeight  float64      `json:"bar_weight"`
	Unit       Unit         `json:"unit"`
	Plates     []PlateCount `json:"plates"`
	PerSide    float64      `json:"per_side"`
	Total      float64      `json:"total"`
	Exact      bool         `json:"exact"`
	Difference float64      `json:"difference"`
}

// Solve computes the loading for a target total weight on the given bar.
// Returns nil when the target is not a usable number (NaN, infinite, or
// negative); a target at or below the bar weight yields a bar-only loading.
func Solve(target float64, bar Bar, unit Unit) *Loading {
	return SolveWith(target, bar.Weight(unit), Denominations(unit), unit)
}

// SolveWith is the core solver over an explicit bar weight and denomination
// table (strictly descending, all positive). Greedy largest-first allocation:
// optimal for the canonical plate sets, where each denomination evenly
// subdivides the ones above it.
func SolveWith(target, barWeight float64, denoms []float64, unit Unit) *Loading {
	if math.IsNaN(target) || math.IsInf(target, 0) || target < 0 {
		return nil
	}

	l := &Loading{
		Target:    target,
		BarWeight: barWeight,
		Unit:      unit,
		PerSide:   0,
		Total:     barWeight,
		Exact:     target == barWeight,
	}

	perSide := (target - barWeight) / 2
	if perSide <= 0 {
		// Bar only. A sub-bar target is reported as the bar weight with the
		// shortfall in Difference.
		l.Difference = round2(barWeight - target)
		l.Exact = l.Difference == 0
		return l
	}

	remaining := perSide
	for _, d := range denoms {
		count := int((remaining + eps) / d)
		if count <= 0 {
			continue
		}
		l.Plates = append(l.Plates, PlateCount{Weight: d, Count: count})
		l.PerSide += d * float64(count)
		remaining -= d * float64(count)
	}

	l.PerSide = round2(l.PerSide)
	l.Total = round2(barWeight + 2*l.PerSide)
	l.Difference = round2(l.Total - target)
	l.Exact = l.Difference == 0
	return l
}

// round2 rounds to two decimals, enough resolution for 1.25 plates doubled.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
