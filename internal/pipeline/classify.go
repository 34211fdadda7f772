package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

const classifySystemPrompt = `Classify a startup idea into exactly one of these categories:
- mobile_app: consumer or prosumer software whose primary surface is a phone app
- hardware: physical products, devices, IoT, anything requiring manufacturing
- fintech: payments, banking, lending, investing, financial infrastructure
- saas_web: business or consumer software delivered primarily through the web

Respond with ONLY a JSON object: {"category": "<one of the four>", "subcategory": "<short free-text label>"}`

// classify resolves the run category. An explicit caller-supplied
// category is trusted and short-circuits the backend call entirely.
func (p *Pipeline) classify(ctx context.Context, req model.ValidationRequest) (model.Category, string, error) {
	if req.Category != "" {
		cat, err := model.ParseCategory(req.Category)
		if err != nil {
			return "", "", err
		}
		return cat, "", nil
	}

	resp, err := p.backend.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     p.cfg.Anthropic.HaikuModel,
		MaxTokens: 256,
		System:    []anthropic.SystemBlock{{Text: classifySystemPrompt}},
		Messages:  []anthropic.Message{{Role: "user", Content: fmt.Sprintf("Idea: %s", req.Idea)}},
	})
	if err != nil {
		return "", "", eris.Wrap(err, "pipeline: classify idea")
	}

	var out struct {
		Category    string `json:"category"`
		Subcategory string `json:"subcategory"`
	}
	raw := resp.Text()
	if err := json.Unmarshal([]byte(cleanJSON(raw)), &out); err != nil {
		return "", "", model.NewStageSchemaError(model.StageClassifying, raw, err)
	}

	cat, err := model.ParseCategory(out.Category)
	if err != nil {
		// The backend picked something outside the closed set. Never
		// silently default.
		return "", "", err
	}
	return cat, out.Subcategory, nil
}
