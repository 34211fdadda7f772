// Package pipeline orchestrates a validation run: classify the idea,
// discover competitors, scrape community evidence, run the ordered
// analysis stages, and aggregate the final opportunity score. The state
// machine is shared by the synchronous and streaming entry points.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/config"
	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/internal/store"
	"github.com/sells-group/venture-cli/pkg/anthropic"
)

// Discoverer finds competitors and their review evidence.
type Discoverer interface {
	Discover(ctx context.Context, idea string, cat model.Category) ([]model.Evidence, []model.Competitor, error)
}

// EvidenceScraper pulls community evidence for the idea and competitors.
type EvidenceScraper interface {
	ScrapeAll(ctx context.Context, competitors []string, idea string, cat model.Category) ([]model.Evidence, model.Ledger)
}

// Pipeline coordinates one validation run end to end. Safe for
// concurrent use: each run owns its own intermediate state, the
// collaborator handles are shared read-only.
type Pipeline struct {
	cfg       *config.Config
	backend   anthropic.Client
	discovery Discoverer
	scraper   EvidenceScraper
	store     store.Store

	// Bounded worker pool for blocking external calls.
	sem chan struct{}
}

// New creates a Pipeline with all collaborators.
func New(cfg *config.Config, backend anthropic.Client, disc Discoverer, scraper EvidenceScraper, st store.Store) *Pipeline {
	workers := cfg.Pipeline.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Pipeline{
		cfg:       cfg,
		backend:   backend,
		discovery: disc,
		scraper:   scraper,
		store:     st,
		sem:       make(chan struct{}, workers),
	}
}

// offload runs fn on the bounded worker pool and waits for it to finish
// or for ctx to be cancelled. On cancellation the in-flight call is left
// to complete in the background and its result is discarded.
func (p *Pipeline) offload(ctx context.Context, fn func() error) error {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "pipeline: cancelled before scheduling")
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-p.sem }()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "pipeline: cancelled while waiting")
	}
}

// Run executes a validation synchronously and returns the terminal result.
func (p *Pipeline) Run(ctx context.Context, req model.ValidationRequest) (*model.ValidationResult, error) {
	return p.run(ctx, req, func(model.Event) bool { return true })
}

// Stream executes a validation and emits one event per stage transition
// plus exactly one terminal event, then closes the channel. Cancelling
// ctx (consumer disconnect) stops further stage scheduling; nothing is
// emitted after cancellation.
func (p *Pipeline) Stream(ctx context.Context, req model.ValidationRequest) <-chan model.Event {
	ch := make(chan model.Event)
	go func() {
		defer close(ch)
		emit := func(ev model.Event) bool {
			if ctx.Err() != nil {
				return false
			}
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}
		result, err := p.run(ctx, req, emit)
		if ctx.Err() != nil {
			// Consumer gone. No terminal event.
			return
		}
		if err != nil {
			emit(model.Event{Stage: model.StageFailed, Message: "validation failed", Err: err.Error()})
			return
		}
		emit(model.Event{Stage: model.StageCompleted, Message: "validation complete", Step: model.TotalSteps, Total: model.TotalSteps, Result: result})
	}()
	return ch
}

// emitFn delivers one progress event; returning false aborts the run.
type emitFn func(model.Event) bool

// run drives the state machine. Terminal events are the caller's
// responsibility; run itself only emits transient stage transitions.
func (p *Pipeline) run(ctx context.Context, req model.ValidationRequest, emit emitFn) (*model.ValidationResult, error) {
	log := zap.L().With(zap.String("idea", snippet(req.Idea, 80)))
	log.Info("pipeline: starting validation")
	start := time.Now()

	run, err := p.store.CreateRun(ctx, req.Idea)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	log = log.With(zap.String("run", run.ID))

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}

	step := 0
	transition := func(stage model.Stage, status model.RunStatus, msg string) bool {
		step++
		setStatus(status)
		return emit(model.Event{Stage: stage, Message: msg, Step: step, Total: model.TotalSteps})
	}

	fail := func(cause error) (*model.ValidationResult, error) {
		if markErr := p.store.MarkFailed(ctx, run.ID, cause.Error()); markErr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(markErr))
		}
		return nil, cause
	}

	// Stage 1: classify.
	if !transition(model.StageClassifying, model.RunStatusClassifying, "classifying idea") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var cat model.Category
	var subcategory string
	err = p.offload(ctx, func() error {
		var classifyErr error
		cat, subcategory, classifyErr = p.classify(ctx, req)
		return classifyErr
	})
	if err != nil {
		return fail(err)
	}
	log.Info("pipeline: classified", zap.String("category", string(cat)), zap.String("subcategory", subcategory))

	// Stage 2: discover competitors.
	if !transition(model.StageDiscovering, model.RunStatusDiscovering, "discovering competitors") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var (
		reviewEvidence []model.Evidence
		competitors    []model.Competitor
	)
	err = p.offload(ctx, func() error {
		var discErr error
		reviewEvidence, competitors, discErr = p.discovery.Discover(ctx, req.Idea, cat)
		return discErr
	})
	if err != nil {
		return fail(eris.Wrap(err, "pipeline: discovery"))
	}

	// Stage 3: scrape community evidence.
	if !transition(model.StageScraping, model.RunStatusScraping, "scraping community evidence") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var (
		communityEvidence []model.Evidence
		ledger            model.Ledger
	)
	err = p.offload(ctx, func() error {
		communityEvidence, ledger = p.scraper.ScrapeAll(ctx, competitorTitles(competitors), req.Idea, cat)
		return nil
	})
	if err != nil {
		return fail(err)
	}

	evidence := assembleEvidence(cat, reviewEvidence, communityEvidence, competitors)
	if len(evidence) == 0 && len(competitors) == 0 {
		return fail(model.ErrNoEvidence)
	}
	log.Info("pipeline: evidence assembled",
		zap.Int("evidence", len(evidence)),
		zap.Int("competitors", len(competitors)),
		zap.Strings("sources_failed", ledger.Failed))

	// Stage 4: researcher.
	if !transition(model.StageResearching, model.RunStatusResearching, "researching user sentiment") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var research *model.ResearcherOutput
	err = p.offload(ctx, func() error {
		var stageErr error
		research, stageErr = p.runResearcher(ctx, req.Idea, evidence)
		return stageErr
	})
	if err != nil {
		return fail(err)
	}

	// Stage 5: product planning.
	if !transition(model.StagePlanning, model.RunStatusPlanning, "planning MVP roadmap") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var product *model.ProductOutput
	err = p.offload(ctx, func() error {
		var stageErr error
		product, stageErr = p.runProduct(ctx, req.Idea, research)
		return stageErr
	})
	if err != nil {
		return fail(err)
	}

	// Stage 6: market analysis and scoring.
	if !transition(model.StageScoring, model.RunStatusScoring, "scoring market opportunity") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}
	var analysis *model.AnalystOutput
	err = p.offload(ctx, func() error {
		var stageErr error
		analysis, stageErr = p.runAnalyst(ctx, req.Idea, cat, research, product)
		return stageErr
	})
	if err != nil {
		return fail(err)
	}

	// Stage 7: aggregate.
	if !transition(model.StageAggregating, model.RunStatusAggregating, "aggregating final score") {
		return nil, eris.Wrap(ctx.Err(), "pipeline: consumer gone")
	}

	result := &model.ValidationResult{
		RunID:            run.ID,
		Idea:             req.Idea,
		Category:         cat,
		Subcategory:      subcategory,
		OpportunityScore: AggregateScore(analysis.ScoreBreakdown),
		Breakdown:        analysis.ScoreBreakdown,
		WhatUsersLove:    research.WhatUsersLove,
		WhatUsersHate:    research.WhatUsersHate,
		MVPRoadmap:       product.MVPRoadmap,
		Pricing:          analysis.Pricing,
		TargetPlatform:   analysis.TargetPlatform,
		MarketBreakdown:  analysis.MarketBreakdown,
		MarketSize:       analysis.MarketSize,
		FundingLandscape: analysis.FundingLandscape,
		GoToMarket:       analysis.GoToMarket,
		Competitors:      competitors,
		CommunitySignals: research.CommunitySignals,
		Ledger:           ledger,
		CreatedAt:        time.Now().UTC(),
	}

	if saveErr := p.store.SaveResult(ctx, run.ID, result); saveErr != nil {
		log.Warn("pipeline: failed to persist result", zap.Error(saveErr))
	}

	log.Info("pipeline: validation complete",
		zap.Int("opportunity_score", result.OpportunityScore),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// assembleEvidence merges discovery and community evidence. Categories
// without store reviews substitute competitor descriptions so the
// researcher always has idea-adjacent text to work from.
func assembleEvidence(cat model.Category, reviews, community []model.Evidence, competitors []model.Competitor) []model.Evidence {
	evidence := make([]model.Evidence, 0, len(reviews)+len(community)+len(competitors))
	evidence = append(evidence, reviews...)
	evidence = append(evidence, community...)

	if !cat.UsesAppStores() {
		for _, c := range competitors {
			if c.Description == "" {
				continue
			}
			evidence = append(evidence, model.Evidence{
				ID:     c.ID,
				Source: model.EvidenceSource(c.Origin),
				Title:  c.Title,
				Body:   model.Truncate(model.NormalizeBody(c.Description), model.BodyCap),
			})
		}
	}
	return evidence
}

func competitorTitles(competitors []model.Competitor) []string {
	titles := make([]string, 0, len(competitors))
	for _, c := range competitors {
		titles = append(titles, c.Title)
	}
	return titles
}

func snippet(s string, max int) string {
	if clipped := model.Clip(s, max); clipped != s {
		return clipped + "..."
	}
	return s
}
