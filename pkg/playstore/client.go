// Package playstore provides a Google Play client for app search and
// customer reviews. Play has no public API; search scrapes the store's
// search page and reviews go through the store's batchexecute RPC, so both
// are best-effort and may break when the wire format shifts.
package playstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://play.google.com"

// Client performs Google Play Store operations.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]App, error)
	Reviews(ctx context.Context, appID string, count int) ([]Review, error)
}

// App is one search result from the store.
type App struct {
	ID     string
	Title  string
	Rating float64
	Icon   string
}

// Review is one customer review.
type Review struct {
	ID     string
	Text   string
	Rating float64
	At     time.Time
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default store base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Play Store client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search scrapes the store search page for apps matching the query.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]App, error) {
	u := fmt.Sprintf("%s/store/search?q=%s&c=apps&hl=en&gl=us", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "playstore: create search request")
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "playstore: search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("playstore: search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "playstore: parse search page")
	}

	var apps []App
	seen := make(map[string]struct{})
	doc.Find(`a[href^="/store/apps/details?id="]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		id := strings.TrimPrefix(href, "/store/apps/details?id=")
		if idx := strings.IndexAny(id, "&?"); idx >= 0 {
			id = id[:idx]
		}
		if id == "" {
			return true
		}
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}

		app := App{ID: id}
		app.Title = strings.TrimSpace(sel.Find("span").First().Text())
		if app.Title == "" {
			app.Title = strings.TrimSpace(sel.Text())
		}
		if icon, ok := sel.Find("img").First().Attr("src"); ok {
			app.Icon = icon
		}
		// Rating renders as an aria-label like "Rated 4.3 stars out of five".
		if label, ok := sel.Find("[aria-label*='stars']").First().Attr("aria-label"); ok {
			app.Rating = parseRatingLabel(label)
		}

		apps = append(apps, app)
		return len(apps) < limit
	})

	return apps, nil
}

func parseRatingLabel(label string) float64 {
	for _, f := range strings.Fields(label) {
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v
		}
	}
	return 0
}

// reviewsRPCID is the batchexecute RPC that serves paginated reviews.
const reviewsRPCID = "UsvDTd"

// Reviews fetches up to count recent reviews for an app via batchexecute.
func (c *httpClient) Reviews(ctx context.Context, appID string, count int) ([]Review, error) {
	inner := fmt.Sprintf(`[null,null,[2,null,[%d,null,null],null,[]],[%q,7]]`, count, appID)
	envelope, err := json.Marshal([][]any{{[]any{reviewsRPCID, inner, nil, "generic"}}})
	if err != nil {
		return nil, eris.Wrap(err, "playstore: marshal rpc envelope")
	}

	form := url.Values{"f.req": {string(envelope)}}
	u := c.baseURL + "/_/PlayStoreUi/data/batchexecute?hl=en&gl=us"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, eris.Wrap(err, "playstore: create reviews request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "playstore: reviews request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("playstore: reviews returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "playstore: read reviews response")
	}

	reviews, err := parseReviewsRPC(body)
	if err != nil {
		return nil, err
	}
	if len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

// parseReviewsRPC unwraps the double-encoded batchexecute payload. The
// outer body is `)]}'` followed by a JSON array; the review list itself is
// a JSON string at [0][2].
func parseReviewsRPC(body []byte) ([]Review, error) {
	text := strings.TrimSpace(string(body))
	text = strings.TrimPrefix(text, ")]}'")
	if idx := strings.Index(text, "["); idx > 0 {
		text = text[idx:]
	}

	var outer []any
	if err := json.Unmarshal([]byte(text), &outer); err != nil {
		return nil, eris.Wrap(err, "playstore: unwrap rpc body")
	}

	payload := findRPCPayload(outer)
	if payload == "" {
		return nil, eris.New("playstore: rpc payload not found")
	}

	var inner []any
	if err := json.Unmarshal([]byte(payload), &inner); err != nil {
		return nil, eris.Wrap(err, "playstore: unwrap rpc payload")
	}
	if len(inner) == 0 {
		return nil, nil
	}

	rows, ok := inner[0].([]any)
	if !ok {
		return nil, nil
	}

	var reviews []Review
	for _, row := range rows {
		fields, ok := row.([]any)
		if len(fields) < 5 || !ok {
			continue
		}
		r := Review{
			ID:     asString(fields[0]),
			Text:   asString(fields[4]),
			Rating: asFloat(fields[2]),
		}
		// Timestamp lives at index 5 as [seconds, nanos].
		if len(fields) > 5 {
			if ts, ok := fields[5].([]any); ok && len(ts) > 0 {
				r.At = time.Unix(int64(asFloat(ts[0])), 0).UTC()
			}
		}
		if r.Text != "" {
			reviews = append(reviews, r)
		}
	}
	return reviews, nil
}

// findRPCPayload locates the string payload of the first wrb.fr frame.
func findRPCPayload(outer []any) string {
	for _, frame := range outer {
		f, ok := frame.([]any)
		if !ok || len(f) < 3 {
			continue
		}
		if asString(f[0]) != "wrb.fr" {
			continue
		}
		if s := asString(f[2]); s != "" {
			return s
		}
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	f, _ := v.(float64)
	return f
}

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
