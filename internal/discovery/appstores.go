package discovery

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

const searchPhrasePrompt = `You turn a startup idea into a short app store search phrase.
Respond with ONLY a JSON object: {"query": "<3-5 word search phrase>"}.
No markdown, no explanation.`

// searchPhrase asks the backend to compress the idea into store search
// terms. Falls back to a prefix of the idea itself when the backend is
// unavailable or returns something unparseable.
func (e *Engine) searchPhrase(ctx context.Context, idea string) string {
	fallback := model.Clip(idea, 30)

	resp, err := e.backend.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.aiCfg.HaikuModel,
		MaxTokens: 128,
		System:    []anthropic.SystemBlock{{Text: searchPhrasePrompt}},
		Messages:  []anthropic.Message{{Role: "user", Content: idea}},
	})
	if err != nil {
		zap.L().Warn("discovery: search phrase generation failed, using idea prefix", zap.Error(err))
		return fallback
	}

	var out struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(stripFences(resp.Text())), &out); err != nil || strings.TrimSpace(out.Query) == "" {
		zap.L().Warn("discovery: unparseable search phrase, using idea prefix", zap.String("raw", resp.Text()))
		return fallback
	}
	return strings.TrimSpace(out.Query)
}

// discoverAppStores searches both mobile stores for the idea and pulls
// customer reviews for each hit. Each store is failure-isolated: one
// store erroring out never discards the other's results.
func (e *Engine) discoverAppStores(ctx context.Context, idea string, log *zap.Logger) ([]model.Evidence, []model.Competitor) {
	query := e.searchPhrase(ctx, idea)
	log.Info("discovery: store search", zap.String("query", query))

	var (
		mu          sync.Mutex
		evidence    []model.Evidence
		competitors []model.Competitor
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		apps, err := e.play.Search(gctx, query, e.cfg.MaxAppsPerStore)
		if err != nil {
			log.Warn("discovery: play store search failed", zap.Error(err))
			return nil
		}
		for _, app := range apps {
			comp := model.Competitor{
				ID:       app.ID,
				Title:    app.Title,
				Rating:   app.Rating,
				Icon:     app.Icon,
				Platform: model.PlatformAndroid,
				Origin:   model.OriginPlayStore,
			}
			reviews := e.playReviews(gctx, app.ID, log)
			mu.Lock()
			competitors = append(competitors, comp)
			evidence = append(evidence, reviews...)
			mu.Unlock()
		}
		return nil
	})

	g.Go(func() error {
		apps, err := e.apple.Search(gctx, query, e.cfg.MaxAppsPerStore)
		if err != nil {
			log.Warn("discovery: app store search failed", zap.Error(err))
			return nil
		}
		for _, app := range apps {
			comp := model.Competitor{
				ID:       app.BundleID,
				Title:    app.Title,
				Rating:   app.Rating,
				Icon:     app.Icon,
				Platform: model.PlatformIOS,
				Origin:   model.OriginAppStore,
			}
			reviews := e.appleReviews(gctx, app.TrackID, log)
			mu.Lock()
			competitors = append(competitors, comp)
			evidence = append(evidence, reviews...)
			mu.Unlock()
		}
		return nil
	})

	// Goroutines swallow their own errors, Wait only propagates ctx
	// cancellation through the derived context.
	_ = g.Wait()

	return evidence, competitors
}

func (e *Engine) playReviews(ctx context.Context, appID string, log *zap.Logger) []model.Evidence {
	reviews, err := e.play.Reviews(ctx, appID, e.cfg.MaxReviewsPerApp)
	if err != nil {
		log.Warn("discovery: play reviews failed", zap.String("app", appID), zap.Error(err))
		return nil
	}
	out := make([]model.Evidence, 0, len(reviews))
	for _, r := range reviews {
		rating := r.Rating
		out = append(out, model.Evidence{
			ID:     r.ID,
			Source: model.SourcePlayStore,
			Body:   model.Truncate(model.NormalizeBody(r.Text), model.BodyCap),
			Rating: &rating,
			Group:  appID,
		})
	}
	return out
}

func (e *Engine) appleReviews(ctx context.Context, trackID string, log *zap.Logger) []model.Evidence {
	reviews, err := e.apple.Reviews(ctx, trackID, e.cfg.MaxReviewsPerApp)
	if err != nil {
		log.Warn("discovery: app store reviews failed", zap.String("track", trackID), zap.Error(err))
		return nil
	}
	out := make([]model.Evidence, 0, len(reviews))
	for _, r := range reviews {
		rating := r.Rating
		out = append(out, model.Evidence{
			ID:     r.ID,
			Source: model.SourceAppStore,
			Title:  r.Title,
			Body:   model.Truncate(model.NormalizeBody(r.Text), model.BodyCap),
			Rating: &rating,
			Author: r.Author,
			Group:  trackID,
		})
	}
	return out
}

// stripFences removes a leading/trailing markdown code fence if the model
// wrapped its JSON despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
