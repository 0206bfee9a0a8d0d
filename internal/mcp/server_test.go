package mcp

import (
	"testing"

	"github.com/claude/ironlog/internal/models"
)

// TestDefaultTimeRange verifies time range defaults (last 7 days) and parsing.
func TestDefaultTimeRange(t *testing.T) {
	// Both empty → defaults to last 7 days
	start, end, err := defaultTimeRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	diff := end.Sub(start)
	if diff.Hours() < 167 || diff.Hours() > 169 { // ~168 hours = 7 days
		t.Errorf("default range = %.0f hours, want ~168", diff.Hours())
	}

	// Explicit dates
	start, end, err = defaultTimeRange("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Year() != 2025 || start.Month() != 1 || start.Day() != 1 {
		t.Errorf("start = %v, want 2025-01-01", start)
	}
	if end.Day() != 31 {
		t.Errorf("end = %v, want 2025-01-31", end)
	}

	// RFC3339
	start, _, err = defaultTimeRange("2025-06-15T10:30:00Z", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	// Invalid
	if _, _, err := defaultTimeRange("not-a-date", ""); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestParseFlexTime verifies both accepted layouts.
func TestParseFlexTime(t *testing.T) {
	if _, err := parseFlexTime("2025-03-01"); err != nil {
		t.Errorf("date-only rejected: %v", err)
	}
	if _, err := parseFlexTime("2025-03-01T08:00:00Z"); err != nil {
		t.Errorf("RFC3339 rejected: %v", err)
	}
	if _, err := parseFlexTime("yesterday"); err == nil {
		t.Error("expected error for free-form time")
	}
}

// TestParseMuscleList verifies splitting, trimming, aliasing, and rejection.
func TestParseMuscleList(t *testing.T) {
	groups, bad := parseMuscleList("chest, Triceps , delts")
	if bad != "" {
		t.Fatalf("unexpected rejection: %q", bad)
	}
	want := []models.MuscleGroup{models.MuscleChest, models.MuscleTriceps, models.MuscleShoulders}
	if len(groups) != len(want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("groups[%d] = %s, want %s", i, groups[i], want[i])
		}
	}

	if _, bad := parseMuscleList("chest,spleen"); bad != "spleen" {
		t.Errorf("bad = %q, want spleen", bad)
	}

	groups, bad = parseMuscleList(" , ,")
	if bad != "" || len(groups) != 0 {
		t.Errorf("empty list should parse to nothing, got %v / %q", groups, bad)
	}
}
