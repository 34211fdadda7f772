package producthunt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponse = `{
  "data": {
    "posts": {
      "edges": [
        {
          "node": {
            "name": "Habitify",
            "tagline": "Habits that stick",
            "url": "https://www.producthunt.com/posts/habitify",
            "votesCount": 340,
            "comments": {
              "edges": [
                {"node": {"body": "Congrats on the launch!", "user": {"name": "maker"}}}
              ]
            }
          }
        },
        {
          "node": {"name": "Streaks", "tagline": "Do it daily", "url": "https://www.producthunt.com/posts/streaks", "votesCount": 120}
        }
      ]
    }
  }
}`

func TestSearchPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body gqlRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "habit tracker", body.Variables["q"])
		assert.Equal(t, float64(5), body.Variables["first"])

		_, _ = w.Write([]byte(searchResponse))
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	posts, err := c.SearchPosts(context.Background(), "habit tracker", 5)
	require.NoError(t, err)

	require.Len(t, posts, 2)
	assert.Equal(t, "Habitify", posts[0].Name)
	assert.Equal(t, "Habits that stick", posts[0].Tagline)
	assert.Equal(t, 340, posts[0].Votes)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, "maker", posts[0].Comments[0].Author)
	assert.Empty(t, posts[1].Comments)
}

func TestSearchPostsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_token"}`))
	}))
	defer srv.Close()

	c := NewClient("bad-token", WithBaseURL(srv.URL))
	_, err := c.SearchPosts(context.Background(), "q", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSearchPostsEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"posts":{"edges":[]}}}`))
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))
	posts, err := c.SearchPosts(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
