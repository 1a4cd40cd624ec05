package httpbridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/storage/blog"
)

const maxPostRequestBytes = 1 << 20

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PostResponse answers POST /api/posts and any API failure.
type PostResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ListPostsResponse answers GET /api/posts.
type ListPostsResponse struct {
	Posts []*blog.Post `json:"posts"`
}

// handleCreatePost persists a post and refreshes the web UI's cache.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxPostRequestBytes))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, PostResponse{Error: "failed to read request body"})
		return
	}

	if err := validateCreatePost(s.postSchema, raw); err != nil {
		respondJSON(w, http.StatusBadRequest, PostResponse{Error: err.Error()})
		return
	}

	var req CreatePostRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, PostResponse{Error: "invalid request body"})
		return
	}

	// A client hanging up must not abort the insert
	if err := s.service.CreatePost(context.WithoutCancel(r.Context()), req.Title, req.Body); err != nil {
		s.respondServiceError(w, err)
		return
	}

	s.controller.Reload()
	respondJSON(w, http.StatusCreated, PostResponse{Success: true})
}

// handleListPosts returns every post, newest first.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.ListPosts(context.WithoutCancel(r.Context()))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	if list == nil {
		list = []*blog.Post{}
	}
	respondJSON(w, http.StatusOK, ListPostsResponse{Posts: list})
}

// respondServiceError hides storage details from API clients. They are
// already logged by the service.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, posts.ErrPersistenceFailed) {
		respondJSON(w, http.StatusInternalServerError, PostResponse{Error: string(posts.KindPersistenceFailed)})
		return
	}
	respondJSON(w, http.StatusInternalServerError, PostResponse{Error: "internal error"})
}
