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

// hackerNewsAdapter searches stories and their comments through the
// Algolia HN API.
type hackerNewsAdapter struct {
	fetch   redditFetcher
	bodyCap int
	baseURL string // test override
}

func (a *hackerNewsAdapter) Source() model.EvidenceSource { return model.SourceHackerNews }

func (a *hackerNewsAdapter) base() string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return "https://hn.algolia.com"
}

type hnSearchResponse struct {
	Hits []hnHit `json:"hits"`
}

type hnHit struct {
	ObjectID    string  `json:"objectID"`
	Title       string  `json:"title"`
	StoryText   string  `json:"story_text"`
	CommentText string  `json:"comment_text"`
	Author      string  `json:"author"`
	Points      float64 `json:"points"`
}

func (a *hackerNewsAdapter) Scrape(ctx context.Context, q Query) ([]model.Evidence, error) {
	var posts []model.Evidence
	var lastErr error

	for _, query := range q.Queries {
		searchURL := fmt.Sprintf("%s/api/v1/search?query=%s&tags=story&hitsPerPage=10",
			a.base(), url.QueryEscape(query))

		body, err := a.fetch.Get(ctx, searchURL)
		if err != nil {
			lastErr = err
			zap.L().Debug("scrape: hn search failed", zap.String("query", query), zap.Error(err))
			continue
		}

		var sr hnSearchResponse
		if err := json.Unmarshal(body, &sr); err != nil {
			lastErr = eris.Wrap(err, "scrape: decode hn search response")
			continue
		}

		for _, hit := range sr.Hits {
			content := hit.Title
			if hit.StoryText != "" {
				content = hit.Title + ". " + hit.StoryText
			}
			points := hit.Points
			posts = append(posts, model.Evidence{
				ID:     hit.ObjectID,
				Source: model.SourceHackerNews,
				Title:  hit.Title,
				Body:   model.Truncate(model.NormalizeBody(content), a.bodyCap),
				URL:    "https://news.ycombinator.com/item?id=" + hit.ObjectID,
				Author: hit.Author,
				Rating: &points,
			})
		}

		for i, hit := range sr.Hits {
			if i >= 3 {
				break
			}
			posts = append(posts, a.storyComments(ctx, hit)...)
		}
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

func (a *hackerNewsAdapter) storyComments(ctx context.Context, story hnHit) []model.Evidence {
	if story.ObjectID == "" {
		return nil
	}

	commentURL := fmt.Sprintf("%s/api/v1/search?tags=comment,story_%s&hitsPerPage=10", a.base(), story.ObjectID)
	body, err := a.fetch.Get(ctx, commentURL)
	if err != nil {
		zap.L().Debug("scrape: hn comment fetch failed",
			zap.String("story", story.ObjectID),
			zap.Error(err),
		)
		return nil
	}

	var sr hnSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil
	}

	var comments []model.Evidence
	for i, hit := range sr.Hits {
		if i >= 5 {
			break
		}
		if len(hit.CommentText) <= 20 {
			continue
		}
		comments = append(comments, model.Evidence{
			ID:     hit.ObjectID,
			Source: model.SourceHackerNews,
			Title:  "Comment on: " + story.Title,
			Body:   model.Truncate(model.NormalizeBody(hit.CommentText), a.bodyCap),
			URL:    "https://news.ycombinator.com/item?id=" + hit.ObjectID,
			Author: hit.Author,
		})
	}
	return comments
}
