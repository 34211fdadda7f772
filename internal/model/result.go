package model

import "time"

// RunStatus represents the current state of a validation run.
type RunStatus string

const (
	RunStatusQueued      RunStatus = "queued"
	RunStatusClassifying RunStatus = "classifying"
	RunStatusDiscovering RunStatus = "discovering"
	RunStatusScraping    RunStatus = "scraping_evidence"
	RunStatusResearching RunStatus = "researching"
	RunStatusPlanning    RunStatus = "product_planning"
	RunStatusScoring     RunStatus = "scoring_market"
	RunStatusAggregating RunStatus = "aggregating"
	RunStatusComplete    RunStatus = "complete"
	RunStatusFailed      RunStatus = "failed"
)

// ValidationRequest is the immutable input to a pipeline run.
type ValidationRequest struct {
	Idea     string `json:"idea"`
	Category string `json:"category,omitempty"` // explicit category skips classification
}

// ValidationResult is the terminal aggregate of a completed run.
// Constructed once at pipeline completion and never mutated afterwards.
type ValidationResult struct {
	RunID            string         `json:"run_id"`
	Idea             string         `json:"idea"`
	Category         Category       `json:"category"`
	Subcategory      string         `json:"subcategory,omitempty"`
	OpportunityScore int            `json:"opportunity_score"`
	Breakdown        ScoreBreakdown `json:"score_breakdown"`
	WhatUsersLove    []string       `json:"what_users_love"`
	WhatUsersHate    []string       `json:"what_users_hate"`
	MVPRoadmap       []string       `json:"mvp_roadmap"`
	Pricing          string         `json:"pricing_suggestion"`
	TargetPlatform   string         `json:"target_platform_recommendation"`
	MarketBreakdown  string         `json:"market_breakdown"`
	MarketSize       string         `json:"market_size,omitempty"`
	FundingLandscape string         `json:"funding_landscape,omitempty"`
	GoToMarket       string         `json:"go_to_market,omitempty"`
	Competitors      []Competitor   `json:"competitors_analyzed"`
	CommunitySignals []string       `json:"community_signals"`
	Ledger           Ledger         `json:"evidence_ledger"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Run represents a stored validation run.
type Run struct {
	ID        string            `json:"id"`
	Idea      string            `json:"idea"`
	Status    RunStatus         `json:"status"`
	Result    *ValidationResult `json:"result,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
