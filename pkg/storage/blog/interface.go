package blog

import (
	"context"
)

// Storage is the durable home of blog posts.
// Posts are append-only: there is no update or delete.
type Storage interface {
	// Insert persists a new post. The storage assigns its ID and creation time.
	Insert(ctx context.Context, authorID int64, title, body string) error
	// ListAll returns every post, newest (highest ID) first.
	ListAll(ctx context.Context) ([]*Post, error)

	// Lifecycle
	Close() error
}
