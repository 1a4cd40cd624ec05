package httpbridge

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/soypete/pedroblog/pkg/storage/blog"
	"github.com/soypete/pedroblog/pkg/ui"
)

const pageTitle = "Pedro's Blog"

// pageData is what the index template renders.
type pageData struct {
	Title  string
	Author string
	State  ui.State
}

// PostView pairs a post with its author label for the post template.
type PostView struct {
	blog.Post
	Author string
}

// Posts returns the cached posts ready for rendering.
func (p pageData) Posts() []PostView {
	views := make([]PostView, 0, len(p.State.Posts))
	for _, post := range p.State.Posts {
		views = append(views, PostView{Post: post, Author: p.Author})
	}
	return views
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// handleIndex serves the main page. The first visit mounts the controller.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.controller.Mount()

	data := pageData{
		Title:  pageTitle,
		Author: s.author,
		State:  s.controller.Snapshot(),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index", data); err != nil {
		s.logger.Error("render index failed", slog.String("error", err.Error()))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// handleToggle flips between the post list and the composition form. When
// leaving the form, its current fields are kept as the draft.
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	if s.controller.Snapshot().Composing() && hasDraftFields(r) {
		s.controller.SetDraft(r.PostFormValue("title"), r.PostFormValue("body"))
	}
	s.controller.Toggle()

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDraft stores the form fields as typed.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	s.controller.SetDraft(r.PostFormValue("title"), r.PostFormValue("body"))
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmit stores the posted fields and starts the submission. A submit
// while viewing or while another one is in flight is ignored.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	state := s.controller.Snapshot()
	if state.Composing() && !state.Submitting {
		s.controller.SetDraft(r.PostFormValue("title"), r.PostFormValue("body"))
	}

	if !s.controller.Submit() {
		s.logger.Debug("submit ignored", slog.String("mode", state.Mode.String()), slog.Bool("submitting", state.Submitting))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func hasDraftFields(r *http.Request) bool {
	_, title := r.PostForm["title"]
	_, body := r.PostForm["body"]
	return title || body
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
