// Package store persists validation runs and their terminal results.
// Three backends exist: SQLite for local single-user use, Postgres for
// shared deployments, and a no-op store used when no driver is
// configured. Persistence failures never abort a validation run.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venture-cli/internal/config"
	"github.com/sells-group/venture-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for the validation pipeline.
type Store interface {
	CreateRun(ctx context.Context, idea string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	SaveResult(ctx context.Context, runID string, result *model.ValidationResult) error
	MarkFailed(ctx context.Context, runID string, cause string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open selects a backend from config. An empty driver yields the no-op
// store so a missing database never blocks validation.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "":
		return NewNop(), nil
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
