package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
)

// NopStore is the fallback when no driver is configured: runs still get
// IDs, results are only logged. Nothing is retrievable later.
type NopStore struct{}

// NewNop creates a NopStore.
func NewNop() *NopStore {
	return &NopStore{}
}

func (s *NopStore) CreateRun(_ context.Context, idea string) (*model.Run, error) {
	now := time.Now().UTC()
	return &model.Run{
		ID:        uuid.New().String(),
		Idea:      idea,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *NopStore) UpdateRunStatus(_ context.Context, runID string, status model.RunStatus) error {
	zap.L().Debug("store: status update discarded", zap.String("run", runID), zap.String("status", string(status)))
	return nil
}

func (s *NopStore) SaveResult(_ context.Context, runID string, result *model.ValidationResult) error {
	zap.L().Info("store: result discarded, no driver configured",
		zap.String("run", runID),
		zap.Int("opportunity_score", result.OpportunityScore))
	return nil
}

func (s *NopStore) MarkFailed(_ context.Context, runID string, cause string) error {
	zap.L().Info("store: failure discarded, no driver configured",
		zap.String("run", runID), zap.String("cause", cause))
	return nil
}

func (s *NopStore) GetRun(context.Context, string) (*model.Run, error) {
	return nil, eris.New("store: no driver configured")
}

func (s *NopStore) ListRuns(context.Context, RunFilter) ([]model.Run, error) {
	return nil, nil
}

func (s *NopStore) Migrate(context.Context) error { return nil }

func (s *NopStore) Close() error { return nil }
