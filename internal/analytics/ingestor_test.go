package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/nulzo/quorum/internal/store"
	"github.com/nulzo/quorum/internal/store/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockDispatchRepo struct {
	mock.Mock
}

func (m *mockDispatchRepo) Log(ctx context.Context, entry *model.DispatchLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockDispatchRepo) GetRecent(ctx context.Context, limit int) ([]model.DispatchLog, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.DispatchLog), args.Error(1)
}

func (m *mockDispatchRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	args := m.Called(ctx, days)
	return args.Get(0).([]model.DailyStats), args.Error(1)
}

type mockRepository struct {
	dispatches *mockDispatchRepo
}

func (m *mockRepository) Dispatches() store.DispatchRepository { return m.dispatches }
func (m *mockRepository) Close() error                         { return nil }

func TestIngestor_FlushesOnStop(t *testing.T) {
	repo := &mockRepository{dispatches: &mockDispatchRepo{}}
	repo.dispatches.On("Log", mock.Anything, mock.Anything).Return(nil)

	ing := NewIngestor(zap.NewNop(), repo)
	ing.Start(context.Background())

	ing.Log(&model.DispatchLog{ID: "a", ProviderID: "openai", Success: true})
	ing.Log(&model.DispatchLog{ID: "b", ProviderID: "anthropic", Success: false})
	ing.Stop()

	assert.Eventually(t, func() bool {
		return len(repo.dispatches.Calls) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestIngestor_DrainsEntriesLoggedDuringShutdown(t *testing.T) {
	repo := &mockRepository{dispatches: &mockDispatchRepo{}}
	repo.dispatches.On("Log", mock.Anything, mock.Anything).Return(nil)

	ing := NewIngestor(zap.NewNop(), repo)

	// The server wiring starts the worker on a background context so a
	// signal-driven cancellation cannot kill it before the HTTP drain
	// finishes; entries logged during that window must still persist.
	signalCtx, cancel := context.WithCancel(context.Background())
	ing.Start(context.Background())

	cancel() // shutdown signal arrives
	<-signalCtx.Done()

	ing.Log(&model.DispatchLog{ID: "during-drain", ProviderID: "openai", Success: true})
	ing.Stop()

	assert.Eventually(t, func() bool {
		return len(repo.dispatches.Calls) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestIngestor_LogNeverBlocks(t *testing.T) {
	repo := &mockRepository{dispatches: &mockDispatchRepo{}}
	ing := NewIngestor(zap.NewNop(), repo)
	// Worker never started: the buffer fills, further entries drop.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 20000; i++ {
			ing.Log(&model.DispatchLog{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked on a full buffer")
	}
	repo.dispatches.AssertNotCalled(t, "Log", mock.Anything, mock.Anything)
}
