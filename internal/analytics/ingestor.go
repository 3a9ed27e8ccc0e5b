package analytics

import (
	"context"
	"time"

	"github.com/nulzo/quorum/internal/store"
	"github.com/nulzo/quorum/internal/store/model"
	"go.uber.org/zap"
)

// Ingestor handles the asynchronous persistence of dispatch logs.
type Ingestor interface {
	Log(entry *model.DispatchLog)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	logChan   chan *model.DispatchLog
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		logChan:   make(chan *model.DispatchLog, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

// Log enqueues an entry without blocking the dispatch path. Entries are
// dropped when the buffer is full; dispatch latency beats analytics.
func (i *ingestor) Log(entry *model.DispatchLog) {
	select {
	case i.logChan <- entry:
	default:
		i.logger.Warn("Analytics buffer full, dropping dispatch log", zap.String("id", entry.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.logChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]*model.DispatchLog, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		for _, entry := range batch {
			if err := i.repo.Dispatches().Log(context.Background(), entry); err != nil {
				i.logger.Error("Failed to persist dispatch log", zap.String("id", entry.ID), zap.Error(err))
			}
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-i.logChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
