package appstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchJSON = `{
  "results": [
    {"trackId": 1437889533, "bundleId": "co.habitify.app", "trackName": "Habitify", "averageUserRating": 4.7, "artworkUrl512": "https://img.test/habitify.png"},
    {"trackId": 0, "bundleId": "co.broken.app", "trackName": "No TrackID"},
    {"trackId": 99, "bundleId": "", "trackName": "No Bundle"}
  ]
}`

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "habit tracker", r.URL.Query().Get("term"))
		assert.Equal(t, "software", r.URL.Query().Get("entity"))
		_, _ = w.Write([]byte(searchJSON))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	apps, err := c.Search(context.Background(), "habit tracker", 3)
	require.NoError(t, err)

	require.Len(t, apps, 1)
	assert.Equal(t, "1437889533", apps[0].TrackID)
	assert.Equal(t, "co.habitify.app", apps[0].BundleID)
	assert.Equal(t, "Habitify", apps[0].Title)
	assert.Equal(t, 4.7, apps[0].Rating)
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "habit", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

const reviewsJSON = `{
  "feed": {
    "entry": [
      {"id": {"label": "app-meta"}, "title": {"label": "Habitify"}, "content": {"label": "app description"}},
      {"id": {"label": "r1"}, "title": {"label": "Love it"}, "content": {"label": "Been using it for a year."}, "im:rating": {"label": "5"}, "author": {"name": {"label": "alice"}}},
      {"id": {"label": "r2"}, "title": {"label": "Meh"}, "content": {"label": "Widgets stopped working."}, "im:rating": {"label": "2"}, "author": {"name": {"label": "bob"}}}
    ]
  }
}`

func TestReviewsSkipsAppMetaEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/us/rss/customerreviews/page=1/id=1437889533/sortby=mostrecent/json", r.URL.Path)
		_, _ = w.Write([]byte(reviewsJSON))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	reviews, err := c.Reviews(context.Background(), "1437889533", 10)
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	assert.Equal(t, "r1", reviews[0].ID)
	assert.Equal(t, "Love it", reviews[0].Title)
	assert.Equal(t, 5.0, reviews[0].Rating)
	assert.Equal(t, "alice", reviews[0].Author)
}

func TestReviewsHonorsCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(reviewsJSON))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	reviews, err := c.Reviews(context.Background(), "1437889533", 1)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}

func TestReviewsEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"feed":{}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	reviews, err := c.Reviews(context.Background(), "1", 10)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
