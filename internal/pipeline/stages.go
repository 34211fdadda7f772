package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

const researcherSystemPrompt = `You are an expert market researcher with web search access.
Analyze scraped reviews and community posts about products competing with the user's idea.
Use web search to find additional opinions, forum threads, and blog reviews about these specific competitors to surface pain points missing from the scraped sample.
Respond with ONLY a JSON object:
{"what_users_love": ["top 5 aspects users love"], "what_users_hate": ["top 5 pain points and complaints"], "community_signals": ["notable community insights, may be empty"]}`

const productSystemPrompt = `You are an expert product manager.
Given what users love and hate about competitors, formulate a strict, actionable day-1 MVP feature roadmap that directly addresses the pain points while covering table stakes. No fluff.
Respond with ONLY a JSON object: {"mvp_roadmap": ["feature 1", "feature 2", ...]}`

const analystSystemPrompt = `You are an expert business analyst and strategist. Be critical and evidence-based, not optimistic.
Score the opportunity across seven dimensions, each an integer 0-100:
- pain_severity: how severe and frequent are the unmet pain points (100 = users are desperate)
- market_gap: gap between user needs and what competitors deliver (100 = massive unserved need)
- mvp_feasibility: how realistic is the MVP to ship within 3 months for a small team (100 = trivially buildable)
- competition_density: how crowded is the market (100 = wide open, 0 = saturated with strong players)
- monetization_potential: willingness to pay based on category norms (100 = proven paid market)
- community_demand: active community desire on forums and launch sites (100 = loud vocal demand)
- startup_saturation: VC-backed players in the space (100 = none found, 0 = multiple well-funded startups)
Respond with ONLY a JSON object:
{"score_breakdown": {"pain_severity": N, "market_gap": N, "mvp_feasibility": N, "competition_density": N, "monetization_potential": N, "community_demand": N, "startup_saturation": N},
 "pricing_suggestion": "concise monetization strategy",
 "target_platform_recommendation": "which platform to target first and why",
 "market_breakdown": "short analysis of the market split for this idea",
 "market_size": "rough TAM/SAM estimate",
 "funding_landscape": "notable funded players, if any",
 "go_to_market": "first distribution channel to pursue"}`

// evidenceItem is the shape evidence takes inside the researcher prompt.
type evidenceItem struct {
	Source string   `json:"source"`
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"text"`
}

// runResearcher runs the first analysis stage over the evidence sample.
func (p *Pipeline) runResearcher(ctx context.Context, idea string, evidence []model.Evidence) (*model.ResearcherOutput, error) {
	sample := evidence
	if limit := p.cfg.Pipeline.EvidenceSample; limit > 0 && len(sample) > limit {
		sample = sample[:limit]
	}

	items := make([]evidenceItem, 0, len(sample))
	for _, ev := range sample {
		items = append(items, evidenceItem{
			Source: string(ev.Source),
			Rating: ev.Rating,
			Text:   ev.Body,
		})
	}
	evidenceJSON, err := json.Marshal(items)
	if err != nil {
		return nil, model.NewStageSchemaError(model.StageResearching, "", err)
	}

	prompt := fmt.Sprintf("The idea being validated: %q\n\nScraped evidence:\n%s", idea, evidenceJSON)

	var out model.ResearcherOutput
	if err := p.callStage(ctx, model.StageResearching, researcherSystemPrompt, prompt, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// runProduct derives the MVP roadmap from the researcher's findings.
func (p *Pipeline) runProduct(ctx context.Context, idea string, research *model.ResearcherOutput) (*model.ProductOutput, error) {
	hate, _ := json.Marshal(research.WhatUsersHate)
	love, _ := json.Marshal(research.WhatUsersLove)
	prompt := fmt.Sprintf("The idea being validated: %q\n\nWhat users hate about competitors: %s\nWhat users love: %s", idea, hate, love)

	var out model.ProductOutput
	if err := p.callStage(ctx, model.StagePlanning, productSystemPrompt, prompt, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// runAnalyst scores the opportunity using both prior stage outputs.
func (p *Pipeline) runAnalyst(ctx context.Context, idea string, cat model.Category, research *model.ResearcherOutput, product *model.ProductOutput) (*model.AnalystOutput, error) {
	love, _ := json.Marshal(research.WhatUsersLove)
	hate, _ := json.Marshal(research.WhatUsersHate)
	roadmap, _ := json.Marshal(product.MVPRoadmap)
	prompt := fmt.Sprintf(
		"The idea being validated: %q (category: %s)\n\nWhat users love about competitors: %s\nWhat users hate (pain points): %s\nProposed MVP roadmap: %s",
		idea, cat, love, hate, roadmap)

	var out model.AnalystOutput
	if err := p.callStage(ctx, model.StageScoring, analystSystemPrompt, prompt, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// validator is implemented by every stage output type.
type validator interface {
	Validate() error
}

// callStage invokes the backend with a stage prompt and parses the
// response into out, enforcing the declared schema. Any parse or
// validation failure is fatal for the run.
func (p *Pipeline) callStage(ctx context.Context, stage model.Stage, system, prompt string, webSearch bool, out validator) error {
	resp, err := p.backend.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Anthropic.HaikuModel,
		MaxTokens: p.cfg.Anthropic.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: system}},
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		WebSearch: webSearch,
	})
	if err != nil {
		return err
	}

	raw := resp.Text()
	if err := json.Unmarshal([]byte(cleanJSON(raw)), out); err != nil {
		return model.NewStageSchemaError(stage, raw, err)
	}
	if err := out.Validate(); err != nil {
		return model.NewStageSchemaError(stage, raw, err)
	}
	return nil
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
