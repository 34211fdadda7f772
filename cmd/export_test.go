package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/venture-cli/internal/model"
)

func TestBuildWorkbook(t *testing.T) {
	runs := []model.Run{
		{
			ID:   "run-1",
			Idea: "a habit tracker",
			Result: &model.ValidationResult{
				Category:         model.CategoryMobileApp,
				OpportunityScore: 67,
				Breakdown:        model.ScoreBreakdown{PainSeverity: 80},
				Pricing:          "Freemium",
				TargetPlatform:   "iOS",
				Competitors:      []model.Competitor{{Title: "Rival"}, {Title: "Other"}},
				CreatedAt:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
		},
		{ID: "run-2", Idea: "no result yet"},
	}

	f, err := buildWorkbook(runs)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	// Header plus one data row; the result-less run is skipped.
	require.Len(t, sheet.Rows, 2)

	row := sheet.Rows[1]
	assert.Equal(t, "run-1", row.Cells[0].String())
	assert.Equal(t, "mobile_app", row.Cells[2].String())
	score, err := row.Cells[3].Int()
	require.NoError(t, err)
	assert.Equal(t, 67, score)
	assert.Equal(t, "Rival, Other", row.Cells[13].String())
}
