// Package client talks to a pedroblog server's JSON API. *Client satisfies
// ui.PostService so the terminal UI can drive a remote blog.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/soypete/pedroblog/pkg/httpbridge"
	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/storage/blog"
)

// Client represents a pedroblog HTTP client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, e.g. http://127.0.0.1:8080.
// Requests have no timeout of their own; only the caller's context ends them.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// CreatePost sends POST /api/posts.
func (c *Client) CreatePost(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(httpbridge.CreatePostRequest{Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	respBody, status, err := c.do(ctx, http.MethodPost, "/api/posts", payload)
	if err != nil {
		return err
	}

	if status != http.StatusCreated {
		return statusError("create post", status, respBody)
	}
	return nil
}

// ListPosts sends GET /api/posts.
func (c *Client) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	respBody, status, err := c.do(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil {
		return nil, err
	}

	if status != http.StatusOK {
		return nil, statusError("list posts", status, respBody)
	}

	var list httpbridge.ListPostsResponse
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if list.Posts == nil {
		list.Posts = []*blog.Post{}
	}
	return list.Posts, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// statusError maps the server's persistence failure back onto
// posts.ErrPersistenceFailed so callers handle local and remote alike.
func statusError(op string, status int, body []byte) error {
	var resp httpbridge.PostResponse
	_ = json.Unmarshal(body, &resp)

	if status == http.StatusInternalServerError && resp.Error == string(posts.KindPersistenceFailed) {
		return &posts.Error{
			Kind: posts.KindPersistenceFailed,
			Op:   op,
			Err:  fmt.Errorf("server returned status %d", status),
		}
	}

	if resp.Error != "" {
		return fmt.Errorf("%s: server returned status %d: %s", op, status, resp.Error)
	}
	return fmt.Errorf("%s: unexpected status code: %d", op, status)
}
