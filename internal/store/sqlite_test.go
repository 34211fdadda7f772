package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venture-cli/internal/config"
	"github.com/sells-group/venture-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func sampleResult(runID string) *model.ValidationResult {
	return &model.ValidationResult{
		RunID:            runID,
		Idea:             "a habit tracker",
		Category:         model.CategoryMobileApp,
		OpportunityScore: 67,
		Breakdown:        model.ScoreBreakdown{PainSeverity: 80, MarketGap: 70},
		WhatUsersLove:    []string{"fast sync"},
		WhatUsersHate:    []string{"ads"},
		MVPRoadmap:       []string{"offline mode"},
		Pricing:          "Freemium",
		TargetPlatform:   "iOS",
		Competitors:      []model.Competitor{{ID: "com.x", Title: "X", Platform: model.PlatformAndroid, Origin: model.OriginPlayStore}},
		Ledger:           model.Ledger{Attempted: []string{"reddit"}, Succeeded: []string{"reddit"}},
	}
}

func TestSQLite_RunLifecycle(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "a habit tracker")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusResearching))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusResearching, got.Status)
	assert.Nil(t, got.Result)

	require.NoError(t, st.SaveResult(ctx, run.ID, sampleResult(run.ID)))

	got, err = st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 67, got.Result.OpportunityScore)
	assert.Equal(t, []string{"offline mode"}, got.Result.MVPRoadmap)
	assert.Equal(t, []string{"reddit"}, got.Result.Ledger.Succeeded)
}

func TestSQLite_MarkFailedStoresCauseNotResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "broken idea")
	require.NoError(t, err)

	require.NoError(t, st.MarkFailed(ctx, run.ID, "no competitors or evidence found"))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Nil(t, got.Result)
}

func TestSQLite_UpdateMissingRunFails(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "nope", model.RunStatusComplete)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_ListRunsFiltersAndOrders(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := st.CreateRun(ctx, "first idea")
	require.NoError(t, err)
	second, err := st.CreateRun(ctx, "second idea")
	require.NoError(t, err)

	require.NoError(t, st.SaveResult(ctx, second.ID, sampleResult(second.ID)))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, second.ID, complete[0].ID)

	queued, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusQueued})
	require.NoError(t, err)
	require.Len(t, queued, 1)
	assert.Equal(t, first.ID, queued[0].ID)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpenSelectsNopWithoutDriver(t *testing.T) {
	st, err := Open(context.Background(), config.StoreConfig{})
	require.NoError(t, err)
	_, ok := st.(*NopStore)
	assert.True(t, ok)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "oracle"})
	require.Error(t, err)
}
