package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/quorum/internal/store"
	"github.com/nulzo/quorum/internal/store/model"
)

type repository struct {
	db         *sqlx.DB
	dispatches *dispatchRepo
}

func NewSqliteRepository(db *sqlx.DB) store.Repository {
	return &repository{
		db:         db,
		dispatches: &dispatchRepo{db: db},
	}
}

func (r *repository) Dispatches() store.DispatchRepository { return r.dispatches }

func (r *repository) Close() error { return r.db.Close() }

type dispatchRepo struct {
	db *sqlx.DB
}

func (r *dispatchRepo) Log(ctx context.Context, entry *model.DispatchLog) error {
	const q = `
		INSERT INTO dispatch_logs
			(id, provider_id, model, success, error_kind, latency_ms,
			 prompt_tokens, completion_tokens, total_tokens, created_at)
		VALUES
			(:id, :provider_id, :model, :success, :error_kind, :latency_ms,
			 :prompt_tokens, :completion_tokens, :total_tokens, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, q, entry); err != nil {
		return fmt.Errorf("failed to insert dispatch log: %w", err)
	}
	return nil
}

func (r *dispatchRepo) GetRecent(ctx context.Context, limit int) ([]model.DispatchLog, error) {
	const q = `
		SELECT * FROM dispatch_logs
		ORDER BY created_at DESC
		LIMIT ?`

	var logs []model.DispatchLog
	if err := r.db.SelectContext(ctx, &logs, q, limit); err != nil {
		return nil, fmt.Errorf("failed to query dispatch logs: %w", err)
	}
	return logs, nil
}

func (r *dispatchRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	const q = `
		SELECT
			date(created_at) AS day,
			provider_id,
			COUNT(*) AS dispatches,
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END) AS failures,
			AVG(latency_ms) AS avg_latency_ms,
			SUM(total_tokens) AS total_tokens
		FROM dispatch_logs
		WHERE created_at >= datetime('now', ?)
		GROUP BY day, provider_id
		ORDER BY day DESC`

	var stats []model.DailyStats
	window := fmt.Sprintf("-%d days", days)
	if err := r.db.SelectContext(ctx, &stats, q, window); err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	return stats, nil
}
