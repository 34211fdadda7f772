// Package producthunt provides a minimal Product Hunt GraphQL API client
// for post search with top-level comments.
package producthunt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

const defaultBaseURL = "https://api.producthunt.com/v2/api/graphql"

// Client performs Product Hunt API operations.
type Client interface {
	SearchPosts(ctx context.Context, query string, limit int) ([]Post, error)
}

// Post is one launch post with its top comments.
type Post struct {
	Name     string
	Tagline  string
	URL      string
	Votes    int
	Comments []Comment
}

// Comment is one top-level comment on a post.
type Comment struct {
	Body   string
	Author string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API URL.
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
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Product Hunt client. The token is required; callers
// without one should not construct a client.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

const searchQuery = `query($q: String!, $first: Int!) {
  posts(search: $q, first: $first) {
    edges {
      node {
        name
        tagline
        url
        votesCount
        comments(first: 5) {
          edges { node { body user { name } } }
        }
      }
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node struct {
					Name       string `json:"name"`
					Tagline    string `json:"tagline"`
					URL        string `json:"url"`
					VotesCount int    `json:"votesCount"`
					Comments   struct {
						Edges []struct {
							Node struct {
								Body string `json:"body"`
								User struct {
									Name string `json:"name"`
								} `json:"user"`
							} `json:"node"`
						} `json:"edges"`
					} `json:"comments"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
}

// SearchPosts searches launch posts matching the query.
func (c *httpClient) SearchPosts(ctx context.Context, query string, limit int) ([]Post, error) {
	body, err := json.Marshal(gqlRequest{
		Query:     searchQuery,
		Variables: map[string]any{"q": query, "first": limit},
	})
	if err != nil {
		return nil, eris.Wrap(err, "producthunt: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "producthunt: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "producthunt: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "producthunt: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("producthunt: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var gr gqlResponse
	if err := json.Unmarshal(respBody, &gr); err != nil {
		return nil, eris.Wrap(err, "producthunt: unmarshal response")
	}

	posts := make([]Post, 0, len(gr.Data.Posts.Edges))
	for _, edge := range gr.Data.Posts.Edges {
		node := edge.Node
		p := Post{
			Name:    node.Name,
			Tagline: node.Tagline,
			URL:     node.URL,
			Votes:   node.VotesCount,
		}
		for _, ce := range node.Comments.Edges {
			p.Comments = append(p.Comments, Comment{
				Body:   ce.Node.Body,
				Author: ce.Node.User.Name,
			})
		}
		posts = append(posts, p)
	}
	return posts, nil
}
