// Package discovery finds competitor products for an idea. App-style
// categories go through the mobile store directories plus a grounded web
// directory search; hardware and SaaS ideas rely on the grounded search
// alone.
package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/config"
	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/anthropic"
	"github.com/sells-group/venture-cli/pkg/appstore"
	"github.com/sells-group/venture-cli/pkg/playstore"
)

// Engine discovers competitors and pulls their store reviews.
type Engine struct {
	cfg     config.DiscoveryConfig
	aiCfg   config.AnthropicConfig
	backend anthropic.Client
	play    playstore.Client
	apple   appstore.Client
}

// New creates an Engine. Store clients are created by the caller once and
// shared read-only across runs.
func New(cfg config.DiscoveryConfig, aiCfg config.AnthropicConfig, backend anthropic.Client, play playstore.Client, apple appstore.Client) *Engine {
	return &Engine{
		cfg:     cfg,
		aiCfg:   aiCfg,
		backend: backend,
		play:    play,
		apple:   apple,
	}
}

// Discover returns review evidence and competitor records for the idea.
// Both slices may be empty when every discovery path failed or found
// nothing; callers treat that as the no-evidence terminal condition, not
// an error.
func (e *Engine) Discover(ctx context.Context, idea string, cat model.Category) ([]model.Evidence, []model.Competitor, error) {
	log := zap.L().With(zap.String("category", string(cat)))

	if cat.UsesAppStores() {
		evidence, competitors := e.discoverAppStores(ctx, idea, log)

		// Launch directories surface web-only competitors the stores miss.
		// They carry no review evidence; analysis consumes their
		// descriptions instead.
		webComps := e.discoverDirectories(ctx, idea, cat, log)
		competitors = append(competitors, webComps...)

		return evidence, competitors, nil
	}

	competitors := e.discoverDirectories(ctx, idea, cat, log)
	return nil, competitors, nil
}
