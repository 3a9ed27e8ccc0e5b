package store

import (
	"context"

	"github.com/nulzo/quorum/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Dispatches() DispatchRepository

	Close() error
}

type DispatchRepository interface {
	// Log stores a completed dispatch.
	Log(ctx context.Context, entry *model.DispatchLog) error
	// GetRecent returns the last N dispatch logs.
	GetRecent(ctx context.Context, limit int) ([]model.DispatchLog, error)
	// GetDailyStats returns aggregated stats grouped by day and provider.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
