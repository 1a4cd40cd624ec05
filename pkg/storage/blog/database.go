package blog

import (
	"context"
	"fmt"

	"github.com/soypete/pedroblog/pkg/database"
)

// DatabaseStorage implements Storage on top of the relational store.
// Every call opens its own connection and closes it before returning; the
// posts table must already exist (see `pedroblog migrate up`).
type DatabaseStorage struct {
	cfg database.Config
}

// NewDatabaseStorage creates a new database-backed storage
func NewDatabaseStorage(cfg database.Config) *DatabaseStorage {
	return &DatabaseStorage{cfg: cfg}
}

func (s *DatabaseStorage) Insert(ctx context.Context, authorID int64, title, body string) error {
	db, err := database.Open(ctx, s.cfg)
	if err != nil {
		return &StorageError{Op: "insert", Err: err}
	}
	defer db.Close()

	args := encodePost(&Post{UserID: authorID, Title: title, Body: body})
	query := fmt.Sprintf(insertPostQuery, db.NowExpr())

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return &StorageError{Op: "insert", Err: fmt.Errorf("failed to insert post: %w", err)}
	}

	return nil
}

func (s *DatabaseStorage) ListAll(ctx context.Context) ([]*Post, error) {
	db, err := database.Open(ctx, s.cfg)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, listPostsQuery)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: fmt.Errorf("failed to list posts: %w", err)}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	if err := checkColumns(cols); err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}

	posts := []*Post{}
	for rows.Next() {
		post, err := decodePost(rows)
		if err != nil {
			return nil, &StorageError{Op: "list", Err: err}
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Err: fmt.Errorf("error iterating posts: %w", err)}
	}

	return posts, nil
}

// Close is a no-op: connections never outlive a single call.
func (s *DatabaseStorage) Close() error {
	return nil
}
