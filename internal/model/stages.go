package model

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ResearcherOutput is the validated result of the researcher stage:
// praise/pain lists distilled from scraped evidence plus notable
// community signals surfaced by web search.
type ResearcherOutput struct {
	WhatUsersLove    []string `json:"what_users_love"`
	WhatUsersHate    []string `json:"what_users_hate"`
	CommunitySignals []string `json:"community_signals"`
}

// Validate enforces the researcher output schema.
func (r *ResearcherOutput) Validate() error {
	if len(r.WhatUsersLove) == 0 {
		return eris.New("researcher output: what_users_love is empty")
	}
	if len(r.WhatUsersHate) == 0 {
		return eris.New("researcher output: what_users_hate is empty")
	}
	return nil
}

// ProductOutput is the validated result of the product stage: a day-1 MVP
// roadmap addressing the researcher's pain list.
type ProductOutput struct {
	MVPRoadmap []string `json:"mvp_roadmap"`
}

// Validate enforces the product output schema.
func (p *ProductOutput) Validate() error {
	if len(p.MVPRoadmap) == 0 {
		return eris.New("product output: mvp_roadmap is empty")
	}
	return nil
}

// ScoreBreakdown holds the seven scored dimensions, each in [0,100].
type ScoreBreakdown struct {
	PainSeverity          int `json:"pain_severity"`
	MarketGap             int `json:"market_gap"`
	MVPFeasibility        int `json:"mvp_feasibility"`
	CompetitionDensity    int `json:"competition_density"`
	MonetizationPotential int `json:"monetization_potential"`
	CommunityDemand       int `json:"community_demand"`
	StartupSaturation     int `json:"startup_saturation"`
}

// Dimensions returns the breakdown as named values, in weight order.
func (b ScoreBreakdown) Dimensions() map[string]int {
	return map[string]int{
		"pain_severity":          b.PainSeverity,
		"market_gap":             b.MarketGap,
		"mvp_feasibility":        b.MVPFeasibility,
		"competition_density":    b.CompetitionDensity,
		"monetization_potential": b.MonetizationPotential,
		"community_demand":       b.CommunityDemand,
		"startup_saturation":     b.StartupSaturation,
	}
}

// Validate checks every dimension is within [0,100].
func (b ScoreBreakdown) Validate() error {
	for name, v := range b.Dimensions() {
		if v < 0 || v > 100 {
			return eris.New(fmt.Sprintf("score breakdown: %s=%d outside [0,100]", name, v))
		}
	}
	return nil
}

// AnalystOutput is the validated result of the market/analyst stage.
type AnalystOutput struct {
	ScoreBreakdown   ScoreBreakdown `json:"score_breakdown"`
	Pricing          string         `json:"pricing_suggestion"`
	TargetPlatform   string         `json:"target_platform_recommendation"`
	MarketBreakdown  string         `json:"market_breakdown"`
	MarketSize       string         `json:"market_size"`
	FundingLandscape string         `json:"funding_landscape"`
	GoToMarket       string         `json:"go_to_market"`
}

// Validate enforces the analyst output schema.
func (a *AnalystOutput) Validate() error {
	if err := a.ScoreBreakdown.Validate(); err != nil {
		return err
	}
	if a.Pricing == "" {
		return eris.New("analyst output: pricing_suggestion is empty")
	}
	if a.TargetPlatform == "" {
		return eris.New("analyst output: target_platform_recommendation is empty")
	}
	return nil
}
