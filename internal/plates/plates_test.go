package plates

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestSolveExact verifies the canonical exact loading: 225 lb on an olympic
// bar is one 45, one 35, and one 10 per side.
func TestSolveExact(t *testing.T) {
	l := Solve(225, BarOlympic, UnitLb)
	if l == nil {
		t.Fatal("expected a loading, got nil")
	}

	want := []PlateCount{{Weight: 45, Count: 1}, {Weight: 35, Count: 1}, {Weight: 10, Count: 1}}
	if diff := cmp.Diff(want, l.Plates); diff != "" {
		t.Errorf("plates mismatch (-want +got):\n%s", diff)
	}
	if l.Total != 225 {
		t.Errorf("total = %v, want 225", l.Total)
	}
	if !l.Exact {
		t.Error("expected exact loading")
	}
	if l.Difference != 0 {
		t.Errorf("difference = %v, want 0", l.Difference)
	}
}

// TestSolveApproximate verifies the unreachable-target path: 101 lb rounds
// down to 100 with a signed difference of -1.
func TestSolveApproximate(t *testing.T) {
	l := Solve(101, BarOlympic, UnitLb)
	if l == nil {
		t.Fatal("expected a loading, got nil")
	}
	if l.Total != 100 {
		t.Errorf("total = %v, want 100", l.Total)
	}
	if l.PerSide != 27.5 {
		t.Errorf("per side = %v, want 27.5", l.PerSide)
	}
	if l.Exact {
		t.Error("expected approximate loading")
	}
	if l.Difference != -1 {
		t.Errorf("difference = %v, want -1", l.Difference)
	}
}

// TestSolveBelowBar verifies that a target below the bar weight clamps to a
// bar-only loading instead of failing.
func TestSolveBelowBar(t *testing.T) {
	l := Solve(30, BarOlympic, UnitLb)
	if l == nil {
		t.Fatal("expected a loading, got nil")
	}
	if len(l.Plates) != 0 {
		t.Errorf("plates = %v, want none", l.Plates)
	}
	if l.Total != 45 {
		t.Errorf("total = %v, want 45 (bar only)", l.Total)
	}
	if l.Exact {
		t.Error("bar-only loading for a 30 lb target is not exact")
	}
	if l.Difference != 15 {
		t.Errorf("difference = %v, want 15", l.Difference)
	}
}

// TestSolveInvalid verifies that unusable targets produce no result.
func TestSolveInvalid(t *testing.T) {
	for _, target := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -135} {
		if l := Solve(target, BarOlympic, UnitLb); l != nil {
			t.Errorf("Solve(%v) = %+v, want nil", target, l)
		}
	}
}

// TestSolveKg exercises the kilogram table including the 1.25 plate.
func TestSolveKg(t *testing.T) {
	tests := []struct {
		target  float64
		perSide float64
		exact   bool
	}{
		{100, 40, true},    // 20 bar, 40/side = 25+15
		{60, 20, true},     // 20/side = 20
		{22.5, 1.25, true}, // smallest increment above the bar
		{21, 0, false},     // half a 1.25 short of reachable, bar only
		{145.5, 62.5, false},
	}

	for _, tt := range tests {
		l := Solve(tt.target, BarOlympic, UnitKg)
		if l == nil {
			t.Fatalf("Solve(%v) = nil", tt.target)
		}
		if l.PerSide != tt.perSide {
			t.Errorf("Solve(%v) per side = %v, want %v", tt.target, l.PerSide, tt.perSide)
		}
		if l.Exact != tt.exact {
			t.Errorf("Solve(%v) exact = %v, want %v", tt.target, l.Exact, tt.exact)
		}
	}
}

// TestSolveInvariants checks the structural properties over a sweep of
// targets: total = bar + 2×side sum, result within one smallest denomination
// of the target, and plates ordered largest to smallest with no zero counts.
func TestSolveInvariants(t *testing.T) {
	smallest := 2.5 // lb table
	for target := 45.0; target <= 700; target += 0.5 {
		l := Solve(target, BarOlympic, UnitLb)
		if l == nil {
			t.Fatalf("Solve(%v) = nil", target)
		}

		var side float64
		for i, p := range l.Plates {
			if p.Count <= 0 {
				t.Fatalf("Solve(%v): zero/negative count %+v", target, p)
			}
			if i > 0 && p.Weight >= l.Plates[i-1].Weight {
				t.Fatalf("Solve(%v): plates not descending: %v", target, l.Plates)
			}
			side += p.Weight * float64(p.Count)
		}
		if math.Abs(l.Total-(45+2*side)) > 1e-6 {
			t.Fatalf("Solve(%v): total %v != bar + 2×%v", target, l.Total, side)
		}
		if math.Abs(l.Total-target) > 2*smallest {
			t.Fatalf("Solve(%v): total %v further than one smallest increment", target, l.Total)
		}
		if l.Exact != (l.Difference == 0) {
			t.Fatalf("Solve(%v): exact flag %v inconsistent with difference %v", target, l.Exact, l.Difference)
		}
	}
}

// TestSolveMonotonic verifies achieved total never decreases as the target
// increases.
func TestSolveMonotonic(t *testing.T) {
	prev := 0.0
	for target := 0.0; target <= 500; target += 0.25 {
		l := Solve(target, BarOlympic, UnitLb)
		if l.Total < prev {
			t.Fatalf("total decreased at target %v: %v < %v", target, l.Total, prev)
		}
		prev = l.Total
	}
}

// TestSolveDeterministic verifies identical inputs give identical output.
func TestSolveDeterministic(t *testing.T) {
	a := Solve(262.5, BarOlympic, UnitLb)
	b := Solve(262.5, BarOlympic, UnitLb)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("repeated solve differs (-first +second):\n%s", diff)
	}
}

// TestBarWeights pins the bar weights per unit system.
func TestBarWeights(t *testing.T) {
	tests := []struct {
		bar    Bar
		unit   Unit
		weight float64
	}{
		{BarOlympic, UnitLb, 45},
		{BarOlympic, UnitKg, 20},
		{BarWomens, UnitLb, 35},
		{BarWomens, UnitKg, 15},
		{BarEZ, UnitLb, 25},
		{BarTrap, UnitKg, 25},
	}
	for _, tt := range tests {
		if got := tt.bar.Weight(tt.unit); got != tt.weight {
			t.Errorf("%s bar in %s = %v, want %v", tt.bar, tt.unit, got, tt.weight)
		}
	}
}

// TestDenominationsDescending guards the table invariant the greedy solver
// depends on.
func TestDenominationsDescending(t *testing.T) {
	for _, unit := range []Unit{UnitLb, UnitKg} {
		denoms := Denominations(unit)
		for i := 1; i < len(denoms); i++ {
			if denoms[i] >= denoms[i-1] {
				t.Errorf("%s denominations not strictly descending: %v", unit, denoms)
			}
		}
		for _, d := range denoms {
			if d <= 0 {
				t.Errorf("%s denomination %v not positive", unit, d)
			}
		}
	}
}
