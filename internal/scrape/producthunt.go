package scrape

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
	"github.com/sells-group/venture-cli/pkg/producthunt"
)

// productHuntAdapter surfaces launch posts and their comments through the
// official GraphQL API. Only constructed when a token is configured.
type productHuntAdapter struct {
	client  producthunt.Client
	bodyCap int
}

func (a *productHuntAdapter) Source() model.EvidenceSource { return model.SourceProductHunt }

func (a *productHuntAdapter) Scrape(ctx context.Context, q Query) ([]model.Evidence, error) {
	var posts []model.Evidence
	var lastErr error

	for _, query := range q.Queries {
		results, err := a.client.SearchPosts(ctx, query, 5)
		if err != nil {
			lastErr = err
			zap.L().Debug("scrape: producthunt search failed", zap.String("query", query), zap.Error(err))
			continue
		}

		for _, post := range results {
			if post.Name == "" {
				continue
			}
			votes := float64(post.Votes)
			posts = append(posts, model.Evidence{
				Source: model.SourceProductHunt,
				Title:  post.Name,
				Body:   model.Truncate(model.NormalizeBody(post.Name+": "+post.Tagline), a.bodyCap),
				URL:    post.URL,
				Rating: &votes,
			})

			for _, comment := range post.Comments {
				if len(comment.Body) <= 20 {
					continue
				}
				posts = append(posts, model.Evidence{
					Source: model.SourceProductHunt,
					Title:  "Comment on " + post.Name,
					Body:   model.Truncate(model.NormalizeBody(comment.Body), a.bodyCap),
					URL:    post.URL,
					Author: comment.Author,
				})
			}
		}
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}
