package playstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchHTML = `<html><body>
<a href="/store/apps/details?id=com.habitify.app"><span>Habitify</span>
  <img src="https://img.test/habitify.png">
  <div aria-label="Rated 4.6 stars out of five stars"></div>
</a>
<a href="/store/apps/details?id=com.streaks.app&hl=en"><span>Streaks</span></a>
<a href="/store/apps/details?id=com.habitify.app"><span>Habitify dup</span></a>
<a href="/store/apps/details?id="><span>broken</span></a>
</body></html>`

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/store/search", r.URL.Path)
		assert.Equal(t, "habit tracker", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchHTML))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	apps, err := c.Search(context.Background(), "habit tracker", 10)
	require.NoError(t, err)

	require.Len(t, apps, 2)
	assert.Equal(t, "com.habitify.app", apps[0].ID)
	assert.Equal(t, "Habitify", apps[0].Title)
	assert.Equal(t, "https://img.test/habitify.png", apps[0].Icon)
	assert.Equal(t, 4.6, apps[0].Rating)
	// Query junk after the id is stripped.
	assert.Equal(t, "com.streaks.app", apps[1].ID)
}

func TestSearchHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(searchHTML))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	apps, err := c.Search(context.Background(), "habit", 1)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestSearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "habit", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestParseRatingLabel(t *testing.T) {
	assert.Equal(t, 4.3, parseRatingLabel("Rated 4.3 stars out of five stars"))
	assert.Equal(t, 0.0, parseRatingLabel("no digits here"))
}

// rpcBody builds a batchexecute response carrying the given review rows.
func rpcBody(t *testing.T, rows []any) string {
	t.Helper()
	payload, err := json.Marshal([]any{rows})
	require.NoError(t, err)
	outer, err := json.Marshal([]any{
		[]any{"wrb.fr", "UsvDTd", string(payload), nil},
	})
	require.NoError(t, err)
	return ")]}'\n\n" + string(outer)
}

func TestReviewsParsesRPCPayload(t *testing.T) {
	rows := []any{
		[]any{"rev-1", nil, 4.0, nil, "Great app, use it daily.", []any{1700000000.0, 0.0}},
		[]any{"rev-2", nil, 2.0, nil, "Crashes after the latest update."},
		[]any{"rev-3", nil, 5.0, nil, ""},
		[]any{"too", "short"},
	}
	body := rpcBody(t, rows)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("f.req"), "com.habitify.app")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	reviews, err := c.Reviews(context.Background(), "com.habitify.app", 10)
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	assert.Equal(t, "rev-1", reviews[0].ID)
	assert.Equal(t, "Great app, use it daily.", reviews[0].Text)
	assert.Equal(t, 4.0, reviews[0].Rating)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), reviews[0].At)
	assert.True(t, reviews[1].At.IsZero())
}

func TestReviewsCapsAtCount(t *testing.T) {
	var rows []any
	for i := range 5 {
		rows = append(rows, []any{fmt.Sprintf("rev-%d", i), nil, 3.0, nil, "fine enough for me"})
	}
	body := rpcBody(t, rows)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	reviews, err := c.Reviews(context.Background(), "com.x", 2)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestParseReviewsRPCMalformed(t *testing.T) {
	_, err := parseReviewsRPC([]byte(")]}'\nnot json at all"))
	assert.Error(t, err)

	_, err = parseReviewsRPC([]byte(`)]}'` + "\n" + `[["af.httprm",null,null]]`))
	assert.Error(t, err)
}
