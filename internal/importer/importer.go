// Package importer loads workout-app JSON exports into the set history.
// Files are deduplicated across runs through a local SQLite state database,
// and set IDs are derived deterministically so re-importing an already
// ingested file inserts nothing.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/google/uuid"
)

// setNamespace seeds the deterministic per-set UUIDs.
var setNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // uuid.NameSpaceOID

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SetsParsed   int
	SetsInserted int64
	SetsRejected int

	UnknownMuscles []string
}

// Inserter is the slice of the storage layer the importer writes through.
type Inserter interface {
	InsertSets(ctx context.Context, sets []models.SetLog) (int64, error)
}

// Importer reads export files from a directory and inserts sets into the DB.
type Importer struct {
	db     Inserter
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case no file-level
// dedupe happens (every file is parsed each run; row dedupe still applies).
func New(db Inserter, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// Import processes all .json export files under dir, in name order.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	unknown := map[string]bool{}
	for _, name := range files {
		if err := imp.importFile(ctx, dir, name, unknown); err != nil {
			imp.stats.FilesErrored++
			imp.log.Error("import failed", "file", name, "error", err)
		}
	}

	for m := range unknown {
		imp.stats.UnknownMuscles = append(imp.stats.UnknownMuscles, m)
	}
	sort.Strings(imp.stats.UnknownMuscles)

	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, dir, name string, unknown map[string]bool) error {
	path := filepath.Join(dir, name)

	var size int64
	var hash string
	if imp.state != nil {
		var err error
		size, hash, err = fingerprintFile(path)
		if err != nil {
			return err
		}
		done, err := imp.state.IsImported(name, size, hash)
		if err != nil {
			return fmt.Errorf("checking state: %w", err)
		}
		if done {
			imp.stats.FilesSkipped++
			imp.log.Info("already imported, skipping", "file", name)
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var export models.ExportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}

	sets, rejected := ConvertExport(&export, name, unknown)
	imp.stats.FilesProcessed++
	imp.stats.SetsParsed += len(sets)
	imp.stats.SetsRejected += rejected

	if imp.dryRun {
		imp.log.Info("dry run, not inserting", "file", name, "sets", len(sets))
		return nil
	}

	inserted, err := imp.db.InsertSets(ctx, sets)
	if err != nil {
		return fmt.Errorf("inserting sets from %s: %w", name, err)
	}
	imp.stats.SetsInserted += inserted

	// Mark only after the insert succeeds so a failed file is retried on the
	// next run.
	if imp.state != nil {
		if err := imp.state.MarkImported(name, size, hash, inserted); err != nil {
			imp.log.Warn("marking file imported failed", "file", name, "error", err)
		}
	}

	imp.log.Info("imported", "file", name, "sets", len(sets), "inserted", inserted)
	return nil
}

// ConvertExport turns an export file into set logs. Sets with no recognized
// muscle group are rejected; unrecognized names accumulate in unknown.
// Set IDs derive from the file name, session, and set position, so the same
// export always converts to the same rows.
func ConvertExport(export *models.ExportFile, fileName string, unknown map[string]bool) ([]models.SetLog, int) {
	var sets []models.SetLog
	rejected := 0

	for si, session := range export.Sessions {
		sessionTime := parseSessionDate(session.Date)

		for pi, raw := range session.Sets {
			var muscles []models.MuscleGroup
			for _, m := range raw.Muscles {
				g, ok := models.ParseMuscleGroup(m)
				if !ok {
					if unknown != nil {
						unknown[strings.ToLower(strings.TrimSpace(m))] = true
					}
					continue
				}
				muscles = append(muscles, g)
			}
			if len(muscles) == 0 || raw.Exercise == "" || raw.Reps <= 0 {
				rejected++
				continue
			}

			performedAt := sessionTime
			if raw.PerformedAt != "" {
				if t, err := time.Parse(time.RFC3339, raw.PerformedAt); err == nil {
					performedAt = t
				}
			}

			key := fmt.Sprintf("%s/%d/%d/%s", fileName, si, pi, raw.Exercise)
			sets = append(sets, models.SetLog{
				ID:          uuid.NewSHA1(setNamespace, []byte(key)),
				Exercise:    raw.Exercise,
				Muscles:     muscles,
				PerformedAt: performedAt,
				WeightKg:    raw.WeightKg,
				Reps:        raw.Reps,
				RIR:         raw.RIR,
			})
		}
	}
	return sets, rejected
}

func parseSessionDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Now()
}
