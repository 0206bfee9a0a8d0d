package mcp

import (
	"context"
	"time"

	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	QuerySets(ctx context.Context, start, end time.Time) ([]models.SetLog, error)
	RecentSets(ctx context.Context, limit int) ([]models.SetLog, error)
	InsertSets(ctx context.Context, sets []models.SetLog) (int64, error)
	DeleteSet(ctx context.Context, id uuid.UUID) error
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
