package blog

import (
	"fmt"
)

// Post is a single published blog entry.
type Post struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Body        string `json:"post_body"`
	CreatedTime string `json:"created_time"` // engine timestamp, kept verbatim
}

// postColumns is the column order decodePost expects.
var postColumns = []string{"id", "user_id", "title", "post_body", "created_time"}

const (
	insertPostQuery = `
		INSERT INTO posts (user_id, title, post_body, created_time)
		VALUES ($1, $2, $3, %s)
	`

	listPostsQuery = `
		SELECT id, user_id, title, post_body, created_time
		FROM posts
		ORDER BY id DESC
	`
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// decodePost maps one result row onto a Post.
func decodePost(row rowScanner) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Body,
		&post.CreatedTime,
	)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return post, nil
}

// checkColumns rejects result sets that are missing or reorder post columns.
func checkColumns(cols []string) error {
	if len(cols) != len(postColumns) {
		return &DecodeError{Err: fmt.Errorf("expected %d columns, got %d", len(postColumns), len(cols))}
	}
	for i, col := range cols {
		if col != postColumns[i] {
			return &DecodeError{Err: fmt.Errorf("column %d: expected %q, got %q", i, postColumns[i], col)}
		}
	}
	return nil
}

// encodePost returns the insert bind arguments for a post. ID and
// CreatedTime are never bound: the engine assigns them.
func encodePost(post *Post) []any {
	return []any{post.UserID, post.Title, post.Body}
}
