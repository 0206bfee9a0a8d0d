package importer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/claude/ironlog/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestConvertExport verifies parsing, alias normalization, deterministic
// IDs, and rejection of unusable sets.
func TestConvertExport(t *testing.T) {
	rir := 2.0
	export := &models.ExportFile{Sessions: []models.ExportSession{{
		Name: "Push Day",
		Date: "2025-06-10",
		Sets: []models.ExportSet{
			{Exercise: "Bench Press", Muscles: []string{"Pecs", "triceps"}, WeightKg: 80, Reps: 5, RIR: &rir},
			{Exercise: "Overhead Press", Muscles: []string{"delts"}, WeightKg: 40, Reps: 8},
			{Exercise: "Mystery Machine", Muscles: []string{"spleen"}, WeightKg: 10, Reps: 10},
			{Exercise: "", Muscles: []string{"chest"}, WeightKg: 10, Reps: 10},
		},
	}}}

	unknown := map[string]bool{}
	sets, rejected := ConvertExport(export, "2025-06.json", unknown)

	if len(sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(sets))
	}
	if rejected != 2 {
		t.Errorf("rejected = %d, want 2", rejected)
	}
	if !unknown["spleen"] {
		t.Errorf("unknown muscles = %v, want spleen recorded", unknown)
	}

	bench := sets[0]
	if bench.Exercise != "Bench Press" {
		t.Errorf("exercise = %q", bench.Exercise)
	}
	if len(bench.Muscles) != 2 || bench.Muscles[0] != models.MuscleChest || bench.Muscles[1] != models.MuscleTriceps {
		t.Errorf("muscles = %v, want [chest triceps]", bench.Muscles)
	}
	wantDate := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !bench.PerformedAt.Equal(wantDate) {
		t.Errorf("performed_at = %v, want %v", bench.PerformedAt, wantDate)
	}
	if bench.RIR == nil || *bench.RIR != 2 {
		t.Errorf("rir = %v, want 2", bench.RIR)
	}

	// Same input converts to the same IDs.
	again, _ := ConvertExport(export, "2025-06.json", nil)
	if again[0].ID != bench.ID {
		t.Error("IDs should be deterministic for identical input")
	}
	// A different file yields different IDs.
	other, _ := ConvertExport(export, "2025-07.json", nil)
	if other[0].ID == bench.ID {
		t.Error("IDs should differ across files")
	}
}

// TestConvertExportSetTimestamp verifies a per-set RFC3339 timestamp
// overrides the session date.
func TestConvertExportSetTimestamp(t *testing.T) {
	export := &models.ExportFile{Sessions: []models.ExportSession{{
		Date: "2025-06-10",
		Sets: []models.ExportSet{{
			Exercise:    "Squat",
			Muscles:     []string{"quads"},
			PerformedAt: "2025-06-10T18:30:00Z",
			WeightKg:    100,
			Reps:        5,
		}},
	}}}

	sets, _ := ConvertExport(export, "x.json", nil)
	if len(sets) != 1 {
		t.Fatalf("got %d sets", len(sets))
	}
	want := time.Date(2025, 6, 10, 18, 30, 0, 0, time.UTC)
	if !sets[0].PerformedAt.Equal(want) {
		t.Errorf("performed_at = %v, want %v", sets[0].PerformedAt, want)
	}
}

// collectInserter records inserted sets in memory.
type collectInserter struct {
	sets []models.SetLog
}

func (c *collectInserter) InsertSets(ctx context.Context, sets []models.SetLog) (int64, error) {
	c.sets = append(c.sets, sets...)
	return int64(len(sets)), nil
}

func writeExport(t *testing.T, dir, name string, export models.ExportFile) {
	t.Helper()
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestImportSkipsAlreadyImported verifies the state db makes a second run a
// no-op.
func TestImportSkipsAlreadyImported(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", models.ExportFile{Sessions: []models.ExportSession{{
		Date: "2025-06-10",
		Sets: []models.ExportSet{{Exercise: "Squat", Muscles: []string{"quads"}, WeightKg: 100, Reps: 5}},
	}}})

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	sink := &collectInserter{}
	imp := New(sink, state, testLogger(), false)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if stats.FilesProcessed != 1 || stats.SetsInserted != 1 {
		t.Fatalf("first run stats = %+v", stats)
	}

	imp2 := New(sink, state, testLogger(), false)
	stats2, err := imp2.Import(context.Background(), dir)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if stats2.FilesSkipped != 1 || stats2.FilesProcessed != 0 {
		t.Errorf("second run stats = %+v, want the file skipped", stats2)
	}
	if len(sink.sets) != 1 {
		t.Errorf("inserted %d sets total, want 1", len(sink.sets))
	}
}

// failingInserter rejects every insert.
type failingInserter struct{}

func (failingInserter) InsertSets(ctx context.Context, sets []models.SetLog) (int64, error) {
	return 0, errors.New("connection refused")
}

// TestImportFailedInsertRetried verifies a file whose insert fails is not
// marked imported, so the next run picks it up again.
func TestImportFailedInsertRetried(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", models.ExportFile{Sessions: []models.ExportSession{{
		Date: "2025-06-10",
		Sets: []models.ExportSet{{Exercise: "Squat", Muscles: []string{"quads"}, WeightKg: 100, Reps: 5}},
	}}})

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imp := New(failingInserter{}, state, testLogger(), false)
	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 {
		t.Fatalf("stats = %+v, want FilesErrored=1", stats)
	}

	// The next run, with the database back, must import the file.
	sink := &collectInserter{}
	imp2 := New(sink, state, testLogger(), false)
	stats2, err := imp2.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 0 {
		t.Errorf("retry run skipped the failed file: %+v", stats2)
	}
	if stats2.SetsInserted != 1 || len(sink.sets) != 1 {
		t.Errorf("retry run stats = %+v, inserted %d sets, want 1", stats2, len(sink.sets))
	}
}

// TestImportDryRun verifies dry-run parses but neither inserts nor marks
// state.
func TestImportDryRun(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", models.ExportFile{Sessions: []models.ExportSession{{
		Date: "2025-06-10",
		Sets: []models.ExportSet{{Exercise: "Squat", Muscles: []string{"quads"}, WeightKg: 100, Reps: 5}},
	}}})

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	sink := &collectInserter{}
	imp := New(sink, state, testLogger(), true)

	stats, err := imp.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.SetsParsed != 1 || stats.SetsInserted != 0 {
		t.Errorf("stats = %+v, want parsed but not inserted", stats)
	}
	if len(sink.sets) != 0 {
		t.Errorf("dry run inserted %d sets", len(sink.sets))
	}

	// A real run afterwards must still import the file.
	imp2 := New(sink, state, testLogger(), false)
	stats2, err := imp2.Import(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesProcessed != 1 {
		t.Errorf("post-dry-run stats = %+v, want the file processed", stats2)
	}
}
