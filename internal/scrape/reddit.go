package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
)

// redditFetcher is the slice of the fetcher API the adapter needs.
type redditFetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// redditAdapter searches category subreddits via the public search.json
// endpoint and pulls top-level comments from the strongest threads.
type redditAdapter struct {
	fetch   redditFetcher
	bodyCap int
	baseURL string // test override
}

func (a *redditAdapter) Source() model.EvidenceSource { return model.SourceReddit }

func (a *redditAdapter) base() string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return "https://www.reddit.com"
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditThing `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditThing struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	SelfText  string  `json:"selftext"`
	Body      string  `json:"body"`
	Permalink string  `json:"permalink"`
	Author    string  `json:"author"`
	Score     float64 `json:"score"`
}

func (a *redditAdapter) Scrape(ctx context.Context, q Query) ([]model.Evidence, error) {
	var posts []model.Evidence
	var lastErr error

	subs := q.Subreddits
	if len(subs) > 4 {
		subs = subs[:4]
	}

	for _, sub := range subs {
		for _, query := range q.Queries {
			searchURL := fmt.Sprintf("%s/r/%s/search.json?q=%s&restrict_sr=1&sort=relevance&limit=10",
				a.base(), sub, url.QueryEscape(query))

			body, err := a.fetch.Get(ctx, searchURL)
			if err != nil {
				lastErr = err
				zap.L().Debug("scrape: reddit search failed",
					zap.String("subreddit", sub),
					zap.String("query", query),
					zap.Error(err),
				)
				continue
			}

			var listing redditListing
			if err := json.Unmarshal(body, &listing); err != nil {
				lastErr = eris.Wrap(err, "scrape: decode reddit listing")
				continue
			}

			children := listing.Data.Children
			for i, child := range children {
				if i >= 5 {
					break
				}
				t := child.Data
				content := t.Title
				if t.SelfText != "" {
					content = t.Title + ". " + t.SelfText
				}
				score := t.Score
				posts = append(posts, model.Evidence{
					ID:     t.ID,
					Source: model.SourceReddit,
					Title:  t.Title,
					Body:   model.Truncate(model.NormalizeBody(content), a.bodyCap),
					URL:    "https://reddit.com" + t.Permalink,
					Author: t.Author,
					Rating: &score,
					Group:  sub,
				})
			}

			// Deeper signal: top-level comments on the top 3 threads.
			for i, child := range children {
				if i >= 3 {
					break
				}
				posts = append(posts, a.threadComments(ctx, child.Data, sub)...)
			}
		}
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

func (a *redditAdapter) threadComments(ctx context.Context, thread redditThing, sub string) []model.Evidence {
	if thread.Permalink == "" {
		return nil
	}

	commentURL := fmt.Sprintf("%s%s.json?limit=5", a.base(), thread.Permalink)
	body, err := a.fetch.Get(ctx, commentURL)
	if err != nil {
		zap.L().Debug("scrape: reddit comment fetch failed",
			zap.String("permalink", thread.Permalink),
			zap.Error(err),
		)
		return nil
	}

	// A thread endpoint returns [post listing, comment listing].
	var listings []redditListing
	if err := json.Unmarshal(body, &listings); err != nil || len(listings) < 2 {
		return nil
	}

	var comments []model.Evidence
	for i, child := range listings[1].Data.Children {
		if i >= 5 {
			break
		}
		c := child.Data
		if len(c.Body) <= 20 {
			continue
		}
		score := c.Score
		comments = append(comments, model.Evidence{
			ID:     c.ID,
			Source: model.SourceReddit,
			Title:  "Comment on: " + thread.Title,
			Body:   model.Truncate(model.NormalizeBody(c.Body), a.bodyCap),
			URL:    "https://reddit.com" + thread.Permalink,
			Author: c.Author,
			Rating: &score,
			Group:  sub,
		})
	}
	return comments
}
