package scrape

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/venture-cli/internal/model"
)

// g2Adapter pulls product reviews from G2 listing pages. G2 sits behind
// aggressive bot protection, so only the stealthy fetch profile is used.
type g2Adapter struct {
	fetch   twitterFetcher
	bodyCap int
	baseURL string // test override
}

func (a *g2Adapter) Source() model.EvidenceSource { return model.SourceG2 }

func (a *g2Adapter) base() string {
	if a.baseURL != "" {
		return a.baseURL
	}
	return "https://www.g2.com"
}

func (a *g2Adapter) Scrape(ctx context.Context, q Query) ([]model.Evidence, error) {
	var posts []model.Evidence
	var lastErr error

	names := q.Competitors
	if len(names) > 3 {
		names = names[:3]
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
		reviewsURL := fmt.Sprintf("%s/products/%s/reviews", a.base(), slug)

		body, err := a.fetch.GetStealthy(ctx, reviewsURL)
		if err != nil {
			lastErr = err
			zap.L().Debug("scrape: g2 fetch failed", zap.String("product", name), zap.Error(err))
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			continue
		}

		count := 0
		doc.Find(`[itemprop="reviewBody"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := model.NormalizeBody(sel.Text())
			if len(text) > 20 {
				posts = append(posts, model.Evidence{
					Source: model.SourceG2,
					Title:  "G2 Review: " + name,
					Body:   model.Truncate(text, a.bodyCap),
					URL:    reviewsURL,
				})
				count++
			}
			return count < 10
		})
	}

	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}
