// Package appstore provides an Apple App Store client backed by the public
// iTunes Search API and the customer-reviews RSS feed.
package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://itunes.apple.com"

// Client performs App Store operations.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]App, error)
	Reviews(ctx context.Context, trackID string, count int) ([]Review, error)
}

// App is one software result from the iTunes Search API.
type App struct {
	TrackID  string
	BundleID string
	Title    string
	Rating   float64
	Icon     string
}

// Review is one customer review from the RSS feed.
type Review struct {
	ID     string
	Title  string
	Text   string
	Rating float64
	Author string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
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

// NewClient creates an App Store client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
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

type searchResponse struct {
	Results []struct {
		TrackID           int64   `json:"trackId"`
		BundleID          string  `json:"bundleId"`
		TrackName         string  `json:"trackName"`
		AverageUserRating float64 `json:"averageUserRating"`
		ArtworkURL512     string  `json:"artworkUrl512"`
	} `json:"results"`
}

// Search queries the iTunes Search API for software matching the query.
func (c *httpClient) Search(ctx context.Context, query string, limit int) ([]App, error) {
	u := fmt.Sprintf("%s/search?term=%s&entity=software&limit=%d&country=us",
		c.baseURL, url.QueryEscape(query), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "appstore: create search request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "appstore: search request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("appstore: search returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, eris.Wrap(err, "appstore: decode search response")
	}

	apps := make([]App, 0, len(sr.Results))
	for _, r := range sr.Results {
		if r.TrackID == 0 || r.BundleID == "" {
			continue
		}
		apps = append(apps, App{
			TrackID:  strconv.FormatInt(r.TrackID, 10),
			BundleID: r.BundleID,
			Title:    r.TrackName,
			Rating:   r.AverageUserRating,
			Icon:     r.ArtworkURL512,
		})
	}
	return apps, nil
}

// rssFeed models the slice of the customer-reviews feed we consume. Every
// value in the feed is wrapped in a {"label": ...} object.
type rssFeed struct {
	Feed struct {
		Entry []rssEntry `json:"entry"`
	} `json:"feed"`
}

type rssEntry struct {
	ID      rssLabel `json:"id"`
	Title   rssLabel `json:"title"`
	Content rssLabel `json:"content"`
	Rating  rssLabel `json:"im:rating"`
	Author  *struct {
		Name rssLabel `json:"name"`
	} `json:"author"`
}

type rssLabel struct {
	Label string `json:"label"`
}

// Reviews fetches up to count recent reviews via the public RSS feed.
// The first feed entry describes the app itself and carries no author;
// it is skipped.
func (c *httpClient) Reviews(ctx context.Context, trackID string, count int) ([]Review, error) {
	u := fmt.Sprintf("%s/us/rss/customerreviews/page=1/id=%s/sortby=mostrecent/json", c.baseURL, trackID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "appstore: create reviews request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "appstore: reviews request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("appstore: reviews returned status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, eris.Wrap(err, "appstore: decode reviews feed")
	}

	var reviews []Review
	for _, entry := range feed.Feed.Entry {
		if entry.Author == nil {
			continue
		}
		rating, _ := strconv.ParseFloat(entry.Rating.Label, 64)
		reviews = append(reviews, Review{
			ID:     entry.ID.Label,
			Title:  entry.Title.Label,
			Text:   entry.Content.Label,
			Rating: rating,
			Author: entry.Author.Name.Label,
		})
		if len(reviews) >= count {
			break
		}
	}
	return reviews, nil
}
