package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

const directoryPrompt = `You research existing products competing with a startup idea.
Search the listed directory sites first, then the wider web and company sites.
Respond with ONLY a JSON array of objects, each:
{"name": "...", "description": "<one sentence>", "url": "..."}
No markdown, no commentary. Empty array if nothing credible exists.`

// categoryDirectories names the directory sites each category's grounded
// search leans on: crowdfunding and marketplaces for hardware, SaaS
// listing and review sites for saas_web.
var categoryDirectories = map[model.Category][]string{
	model.CategoryMobileApp: {"Product Hunt", "AlternativeTo"},
	model.CategoryFintech:   {"Product Hunt", "G2", "AlternativeTo"},
	model.CategoryHardware:  {"Kickstarter", "Indiegogo", "Amazon", "Etsy"},
	model.CategorySaaSWeb:   {"Product Hunt", "G2", "Capterra", "AlternativeTo"},
}

type directoryHit struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// discoverDirectories runs one grounded web search for competitor
// products. Best effort end to end: any backend or parsing failure
// returns an empty slice rather than an error.
func (e *Engine) discoverDirectories(ctx context.Context, idea string, cat model.Category, log *zap.Logger) []model.Competitor {
	dirs := categoryDirectories[cat]
	if len(dirs) == 0 {
		dirs = categoryDirectories[model.CategoryMobileApp]
	}
	prompt := fmt.Sprintf("Find products competing with this %s idea: %s\nDirectories to search: %s.",
		cat, idea, strings.Join(dirs, ", "))

	resp, err := e.backend.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.aiCfg.HaikuModel,
		MaxTokens: e.aiCfg.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: directoryPrompt}},
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		WebSearch: true,
	})
	if err != nil {
		log.Warn("discovery: web directory search failed", zap.Error(err))
		return nil
	}

	hits := parseDirectoryHits(resp.Text())
	if len(hits) == 0 {
		log.Info("discovery: web directory search found nothing")
		return nil
	}
	if len(hits) > e.cfg.MaxWebCompetitors {
		hits = hits[:e.cfg.MaxWebCompetitors]
	}

	out := make([]model.Competitor, 0, len(hits))
	for _, h := range hits {
		name := strings.TrimSpace(h.Name)
		if name == "" {
			continue
		}
		out = append(out, model.Competitor{
			ID:          h.URL,
			Title:       name,
			Description: strings.TrimSpace(h.Description),
			Platform:    model.PlatformWeb,
			Origin:      model.OriginWebSearch,
		})
	}
	return out
}

// parseDirectoryHits extracts competitor records from model output that
// often wraps its JSON in prose or fences. It scans for the first
// substring that decodes as a JSON array of hit objects.
func parseDirectoryHits(text string) []directoryHit {
	raw := extractArray(stripFences(text))
	if raw == "" {
		return nil
	}
	var hits []directoryHit
	if err := json.Unmarshal([]byte(raw), &hits); err != nil {
		return nil
	}
	return hits
}

// extractArray returns the first substring of s that is a valid JSON
// array, or "" when none exists.
func extractArray(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != '[' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var probe []json.RawMessage
		if err := dec.Decode(&probe); err == nil {
			return s[i : i+int(dec.InputOffset())]
		}
	}
	return ""
}
