package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/discovery"
	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/internal/pipeline"
	"github.com/sells-group/venture-cli/internal/scrape"
	"github.com/sells-group/venture-cli/internal/store"
	anthropicpkg "github.com/sells-group/venture-cli/pkg/anthropic"
	"github.com/sells-group/venture-cli/pkg/appstore"
	"github.com/sells-group/venture-cli/pkg/playstore"
)

// pipelineEnv holds all initialized clients and the pipeline needed by
// the validate/serve commands.
type pipelineEnv struct {
	Store    store.Store
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStore opens the configured persistence backend and migrates it.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initPipeline sets up the store, all clients, and builds the Pipeline.
// Callers should defer env.Close().
func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.Wrap(model.ErrNotConfigured, "VENTURE_ANTHROPIC_KEY")
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	backend := anthropicpkg.NewClient(cfg.Anthropic.Key)
	play := playstore.NewClient()
	apple := appstore.NewClient()

	disc := discovery.New(cfg.Discovery, cfg.Anthropic, backend, play, apple)

	scraper, err := scrape.New(cfg.Scrape)
	if err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "init scraper")
	}
	if cfg.Scrape.ProductHuntToken == "" {
		zap.L().Debug("VENTURE_SCRAPE_PRODUCTHUNT_TOKEN not set, producthunt adapter disabled")
	}

	p := pipeline.New(cfg, backend, disc, scraper, st)

	return &pipelineEnv{Store: st, Pipeline: p}, nil
}
