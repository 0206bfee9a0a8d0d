// Package refresh owns the timing of recovery/suggestion recomputation. The
// computational services stay pure; the Refresher invokes them whenever the
// history changes or the scheduled morning tick fires, and fans immutable
// snapshots out to subscribers.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/recovery"
	"github.com/claude/ironlog/internal/storage"
	"github.com/claude/ironlog/internal/suggest"
	"github.com/robfig/cron"
)

// historyLookback bounds how far back the recovery computation reads. Twice
// the longest recovery window is already immaterial; two weeks is generous.
const historyLookback = 14 * 24 * time.Hour

// Snapshot is one recomputation result. Snapshots are never mutated after
// creation.
type Snapshot struct {
	At         time.Time                              `json:"at"`
	Recovery   map[models.MuscleGroup]recovery.Status `json:"recovery"`
	Suggestion suggest.Suggestion                     `json:"suggestion"`
}

// Source is the slice of the storage layer the Refresher reads.
type Source interface {
	QuerySets(ctx context.Context, start, end time.Time) ([]models.SetLog, error)
	GetSettings(ctx context.Context) (*storage.Settings, error)
}

// Compile-time check: *storage.DB satisfies Source.
var _ Source = (*storage.DB)(nil)

// Refresher recomputes snapshots and notifies subscribers.
type Refresher struct {
	db       Source
	log      *slog.Logger
	cronSpec string

	defaultThreshold float64
	defaultWindows   recovery.Windows

	cron *cron.Cron

	mu   sync.Mutex
	subs []func(Snapshot)
	last *Snapshot
}

// New creates a Refresher with the configured computation defaults. cronSpec
// schedules the daily recompute (six-field cron syntax).
func New(db Source, threshold float64, windows recovery.Windows, cronSpec string, log *slog.Logger) *Refresher {
	return &Refresher{
		db:               db,
		log:              log,
		cronSpec:         cronSpec,
		defaultThreshold: threshold,
		defaultWindows:   windows,
	}
}

// Subscribe registers a callback invoked with every new snapshot. Callbacks
// run synchronously on the triggering goroutine and must not block long.
func (r *Refresher) Subscribe(fn func(Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, fn)
}

// Start schedules the daily recompute job.
func (r *Refresher) Start() error {
	c := cron.New()
	if err := c.AddFunc(r.cronSpec, func() {
		r.SetsChanged(context.Background())
	}); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop cancels the scheduled job.
func (r *Refresher) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// SetsChanged recomputes and fans the snapshot out to subscribers. Called
// after every history mutation and on each cron tick.
func (r *Refresher) SetsChanged(ctx context.Context) {
	snap, err := r.Snapshot(ctx)
	if err != nil {
		r.log.Error("refresh recompute failed", "error", err)
		return
	}

	r.mu.Lock()
	r.last = snap
	subs := make([]func(Snapshot), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	for _, fn := range subs {
		fn(*snap)
	}
}

// Last returns the most recent snapshot, or nil before the first recompute.
func (r *Refresher) Last() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Snapshot computes a fresh snapshot from current history and settings.
// "now" is sampled once and held fixed for the whole computation.
func (r *Refresher) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := time.Now()

	threshold, windows, err := r.params(ctx)
	if err != nil {
		return nil, err
	}

	history, err := r.db.QuerySets(ctx, now.Add(-historyLookback), now.Add(time.Minute))
	if err != nil {
		return nil, err
	}

	statuses := recovery.Compute(history, now, windows)
	return &Snapshot{
		At:         now,
		Recovery:   statuses,
		Suggestion: suggest.Build(statuses, threshold),
	}, nil
}

// params resolves threshold and windows: persisted settings override the
// configured defaults; no settings row yet means defaults apply.
func (r *Refresher) params(ctx context.Context) (float64, recovery.Windows, error) {
	s, err := r.db.GetSettings(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return r.defaultThreshold, r.defaultWindows, nil
	}
	if err != nil {
		return 0, nil, err
	}

	threshold := s.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = r.defaultThreshold
	}

	windows := r.defaultWindows
	if len(s.WindowHours) > 0 {
		windows = recovery.WindowsFromHours(s.WindowHours)
	}
	return threshold, windows, nil
}
