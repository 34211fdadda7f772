// Package scrape collects community evidence (forum threads, link
// aggregator posts, tweets, launch posts, reviews) about an idea and its
// competitors. Every adapter is failure-isolated: one broken source is
// recorded in the ledger and never aborts the rest.
package scrape

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/venture-cli/internal/config"
	"github.com/sells-group/venture-cli/internal/fetcher"
	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/producthunt"
)

// Query carries the search inputs handed to each adapter.
type Query struct {
	Queries     []string // ≤2 search phrases: idea text plus competitor names
	Competitors []string // top competitor titles, for per-product sources
	Subreddits  []string // forum targets for the category
}

// Adapter fetches evidence from one external source.
type Adapter interface {
	Source() model.EvidenceSource
	Scrape(ctx context.Context, q Query) ([]model.Evidence, error)
}

// Scraper fans a query out across the category's enabled adapters and
// aggregates their results with a per-source ledger.
type Scraper struct {
	cfg      config.ScrapeConfig
	tables   *categorySources
	adapters map[model.EvidenceSource]Adapter
}

// New constructs a Scraper. The HTTP fetcher is created once here and
// shared read-only across all adapters and runs. A Product Hunt client is
// only wired when a token is configured; without one the source is soft
// skipped rather than recorded as failed.
func New(cfg config.ScrapeConfig) (*Scraper, error) {
	tables, err := loadSources()
	if err != nil {
		return nil, err
	}

	f := fetcher.New(fetcher.Options{Delay: cfg.RequestDelay})

	adapters := map[model.EvidenceSource]Adapter{
		model.SourceReddit:     &redditAdapter{fetch: f, bodyCap: cfg.BodyCap},
		model.SourceHackerNews: &hackerNewsAdapter{fetch: f, bodyCap: cfg.BodyCap},
		model.SourceTwitter:    &twitterAdapter{fetch: f, bodyCap: cfg.BodyCap, stealthy: cfg.StealthyEnabled},
		model.SourceG2:         &g2Adapter{fetch: f, bodyCap: cfg.BodyCap},
	}
	if cfg.ProductHuntToken != "" {
		adapters[model.SourceProductHunt] = &productHuntAdapter{
			client:  producthunt.NewClient(cfg.ProductHuntToken),
			bodyCap: cfg.BodyCap,
		}
	}

	return &Scraper{cfg: cfg, tables: tables, adapters: adapters}, nil
}

// newWithAdapters wires an explicit adapter set; used by tests.
func newWithAdapters(cfg config.ScrapeConfig, tables *categorySources, adapters map[model.EvidenceSource]Adapter) *Scraper {
	return &Scraper{cfg: cfg, tables: tables, adapters: adapters}
}

// ScrapeAll runs every enabled adapter for the category and concatenates
// their capped results. It never returns an error: all-sources-failed is a
// valid empty outcome and the ledger carries the per-source record.
func (s *Scraper) ScrapeAll(ctx context.Context, competitors []string, idea string, cat model.Category) ([]model.Evidence, model.Ledger) {
	var ledger model.Ledger

	if !s.cfg.Enabled {
		zap.L().Info("scrape: community scraping disabled")
		return nil, ledger
	}

	q := Query{
		Queries:     buildQueries(idea, competitors),
		Competitors: topN(competitors, 5),
		Subreddits:  s.tables.subredditsFor(cat),
	}

	var (
		mu       sync.Mutex
		evidence []model.Evidence
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for _, src := range s.tables.forCategory(cat) {
		if skip, reason := s.skips(src); skip {
			zap.L().Info("scrape: skipping source",
				zap.String("source", string(src)),
				zap.String("reason", reason),
			)
			continue
		}

		adapter, ok := s.adapters[src]
		if !ok {
			continue
		}

		mu.Lock()
		ledger.Attempted = append(ledger.Attempted, string(src))
		mu.Unlock()

		g.Go(func() error {
			posts, err := adapter.Scrape(gCtx, q)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ledger.Failed = append(ledger.Failed, string(src))
				zap.L().Warn("scrape: source failed",
					zap.String("source", string(src)),
					zap.Error(err),
				)
				return nil
			}
			if len(posts) > s.cfg.MaxPerSource {
				posts = posts[:s.cfg.MaxPerSource]
			}
			evidence = append(evidence, posts...)
			ledger.Succeeded = append(ledger.Succeeded, string(src))
			zap.L().Info("scrape: source complete",
				zap.String("source", string(src)),
				zap.Int("posts", len(posts)),
			)
			return nil
		})
	}

	_ = g.Wait()

	return evidence, ledger
}

// skips reports whether the source is disabled by configuration.
func (s *Scraper) skips(src model.EvidenceSource) (bool, string) {
	if src == model.SourceTwitter && !s.cfg.TwitterEnabled {
		return true, "twitter disabled"
	}
	if (src == model.SourceTwitter || src == model.SourceG2) && !s.cfg.StealthyEnabled {
		return true, "stealthy fetching disabled"
	}
	if src == model.SourceProductHunt {
		if _, ok := s.adapters[src]; !ok {
			return true, "no api token configured"
		}
	}
	return false, ""
}

// buildQueries derives at most two search phrases: the idea text (capped)
// and the strongest competitor name.
func buildQueries(idea string, competitors []string) []string {
	var queries []string
	if idea = strings.TrimSpace(idea); idea != "" {
		queries = append(queries, model.Clip(idea, 100))
	}
	for _, name := range competitors {
		if name = strings.TrimSpace(name); name != "" {
			queries = append(queries, name)
			break
		}
	}
	if len(queries) == 0 {
		queries = []string{"app"}
	}
	return queries
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
