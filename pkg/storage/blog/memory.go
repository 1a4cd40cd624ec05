package blog

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage implements Storage in process memory.
// It backs unit tests and `serve --memory`.
type MemoryStorage struct {
	mu     sync.RWMutex
	posts  []Post // insertion order, oldest first
	nextID int64
	now    func() time.Time
}

// NewMemoryStorage creates a new in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID: 1,
		now:    time.Now,
	}
}

func (s *MemoryStorage) Insert(ctx context.Context, authorID int64, title, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = append(s.posts, Post{
		ID:          s.nextID,
		UserID:      authorID,
		Title:       title,
		Body:        body,
		CreatedTime: s.now().UTC().Format(time.DateTime),
	})
	s.nextID++

	return nil
}

func (s *MemoryStorage) ListAll(ctx context.Context) ([]*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return copies, newest first
	posts := make([]*Post, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		post := s.posts[i]
		posts = append(posts, &post)
	}

	return posts, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
