package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
)

// twitterFetcher adds the stealthy path on top of the lightweight one.
type twitterFetcher interface {
	redditFetcher
	GetStealthy(ctx context.Context, url string) ([]byte, error)
}

// twitterAdapter searches tweets through Nitter mirrors (no JS, cheap) and
// falls back to x.com with the stealthy fetch profile only when the
// lightweight path yields nothing.
type twitterAdapter struct {
	fetch      twitterFetcher
	bodyCap    int
	stealthy   bool
	nitterBase string // test override
	xBase      string // test override
}

func (a *twitterAdapter) Source() model.EvidenceSource { return model.SourceTwitter }

var nitterInstances = []string{"https://nitter.net"}

func (a *twitterAdapter) nitters() []string {
	if a.nitterBase != "" {
		return []string{a.nitterBase}
	}
	return nitterInstances
}

func (a *twitterAdapter) x() string {
	if a.xBase != "" {
		return a.xBase
	}
	return "https://x.com"
}

func (a *twitterAdapter) Scrape(ctx context.Context, q Query) ([]model.Evidence, error) {
	var posts []model.Evidence
	var lastErr error

	for _, query := range q.Queries {
		found := false

		for _, instance := range a.nitters() {
			searchURL := fmt.Sprintf("%s/search?f=tweets&q=%s", instance, url.QueryEscape(query))
			body, err := a.fetch.Get(ctx, searchURL)
			if err != nil {
				lastErr = err
				zap.L().Debug("scrape: nitter instance failed",
					zap.String("instance", instance),
					zap.Error(err),
				)
				continue
			}

			tweets := a.parseTweets(body, ".tweet-content", searchURL)
			if len(tweets) > 0 {
				posts = append(posts, tweets...)
				found = true
				break
			}
		}

		if !found && a.stealthy {
			searchURL := fmt.Sprintf("%s/search?q=%s&f=live", a.x(), url.QueryEscape(query))
			body, err := a.fetch.GetStealthy(ctx, searchURL)
			if err != nil {
				lastErr = err
				zap.L().Debug("scrape: x.com fallback failed", zap.Error(err))
				continue
			}
			posts = append(posts, a.parseTweets(body, `[data-testid="tweetText"]`, searchURL)...)
		}
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

// parseTweets extracts tweet text nodes matched by the selector.
func (a *twitterAdapter) parseTweets(body []byte, selector, sourceURL string) []model.Evidence {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var tweets []model.Evidence
	doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := model.NormalizeBody(sel.Text())
		if len(text) > 15 {
			tweets = append(tweets, model.Evidence{
				Source: model.SourceTwitter,
				Body:   model.Truncate(text, a.bodyCap),
				URL:    sourceURL,
			})
		}
		return len(tweets) < 10
	})
	return tweets
}
