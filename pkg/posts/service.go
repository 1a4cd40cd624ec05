// Package posts is the single entry point the UI uses to create and list posts.
package posts

import (
	"context"
	"log/slog"

	"github.com/soypete/pedroblog/pkg/metrics"
	"github.com/soypete/pedroblog/pkg/storage/blog"
)

// Service wraps blog storage with error translation.
// Titles and bodies are not validated; empty values are stored as given.
type Service struct {
	store    blog.Storage
	authorID int64
	logger   *slog.Logger
}

// NewService creates a service that attributes every new post to authorID.
func NewService(store blog.Storage, authorID int64, logger *slog.Logger) *Service {
	if store == nil {
		panic("blog storage cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    store,
		authorID: authorID,
		logger:   logger.With(slog.String("component", "posts")),
	}
}

// AuthorID returns the author new posts are attributed to.
func (s *Service) AuthorID() int64 {
	return s.authorID
}

// CreatePost persists a new post.
func (s *Service) CreatePost(ctx context.Context, title, body string) error {
	if err := s.store.Insert(ctx, s.authorID, title, body); err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("create").Inc()
		s.logger.Warn("create post failed", slog.String("error", err.Error()))
		return &Error{Kind: KindPersistenceFailed, Op: "create post", Err: err}
	}

	metrics.PostsCreatedTotal.Inc()
	s.logger.Debug("post created", slog.Int("title_len", len(title)), slog.Int("body_len", len(body)))
	return nil
}

// ListPosts returns every post, newest first.
func (s *Service) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	posts, err := s.store.ListAll(ctx)
	if err != nil {
		metrics.PersistenceFailuresTotal.WithLabelValues("list").Inc()
		s.logger.Warn("list posts failed", slog.String("error", err.Error()))
		return nil, &Error{Kind: KindPersistenceFailed, Op: "list posts", Err: err}
	}
	return posts, nil
}
