package client_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypete/pedroblog/pkg/client"
	"github.com/soypete/pedroblog/pkg/httpbridge"
	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/storage/blog"
	"github.com/soypete/pedroblog/pkg/ui"
)

var _ ui.PostService = (*client.Client)(nil)

type brokenStorage struct{}

func (brokenStorage) Insert(ctx context.Context, authorID int64, title, body string) error {
	return &blog.StorageError{Op: "insert", Err: errors.New("database is locked")}
}

func (brokenStorage) ListAll(ctx context.Context) ([]*blog.Post, error) {
	return nil, &blog.StorageError{Op: "list", Err: errors.New("database is locked")}
}

func (brokenStorage) Close() error { return nil }

func startServer(t *testing.T, store blog.Storage) *client.Client {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := posts.NewService(store, 7, logger)
	ctrl := ui.NewController(context.Background(), svc, logger)

	srv, err := httpbridge.NewServer(ctrl, svc, httpbridge.Options{Author: "Shreyas", Logger: logger})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctrl.Wait()
	})

	return client.NewClient(ts.URL + "/")
}

func TestClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := startServer(t, blog.NewMemoryStorage())

	list, err := c.ListPosts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, c.CreatePost(ctx, "Remote", "hello over http"))
	require.NoError(t, c.CreatePost(ctx, "Second", ""))

	list, err = c.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "Remote", list[1].Title)
	assert.Equal(t, "hello over http", list[1].Body)
	assert.Equal(t, int64(7), list[1].UserID)
	assert.NotEmpty(t, list[1].CreatedTime)
}

func TestClientPersistenceFailed(t *testing.T) {
	ctx := context.Background()
	c := startServer(t, brokenStorage{})

	err := c.CreatePost(ctx, "t", "b")
	assert.ErrorIs(t, err, posts.ErrPersistenceFailed)

	list, err := c.ListPosts(ctx)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, posts.ErrPersistenceFailed)
}

func TestClientUnexpectedStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway down", http.StatusBadGateway)
	}))
	defer ts.Close()

	err := client.NewClient(ts.URL).CreatePost(context.Background(), "t", "b")
	require.Error(t, err)
	assert.NotErrorIs(t, err, posts.ErrPersistenceFailed)
	assert.Contains(t, err.Error(), "502")
}

func TestClientServerGone(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := client.NewClient(url).ListPosts(context.Background())
	assert.Error(t, err)
}

func TestClientDrivesController(t *testing.T) {
	c := startServer(t, blog.NewMemoryStorage())

	ctrl := ui.NewController(context.Background(), c, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctrl.Mount()
	ctrl.Toggle()
	ctrl.SetDraft("From the terminal", "body")
	require.True(t, ctrl.Submit())
	ctrl.Wait()

	s := ctrl.Snapshot()
	assert.Equal(t, ui.ModeViewing, s.Mode)
	require.Len(t, s.Posts, 1)
	assert.Equal(t, "From the terminal", s.Posts[0].Title)
}
