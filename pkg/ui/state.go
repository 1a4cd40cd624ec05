// Package ui holds the view state of the blog: which screen is showing, the
// draft being composed and the cached list of posts. Renderers only ever see
// immutable State snapshots.
package ui

import (
	"github.com/soypete/pedroblog/pkg/storage/blog"
)

// Mode is the screen currently shown.
type Mode int

const (
	ModeViewing Mode = iota
	ModeComposing
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeComposing:
		return "composing"
	default:
		return "unknown"
	}
}

// Draft is the not-yet-persisted post in the composition form.
type Draft struct {
	Title string
	Body  string
}

// State is a point-in-time copy of the controller state.
type State struct {
	Mode       Mode
	Draft      Draft
	Submitting bool
	Posts      []blog.Post // newest first
	Loaded     bool        // at least one list call has succeeded
	Notice     string      // last failure, empty when the last operation succeeded
	Version    uint64      // bumped on every change that affects rendering
}

// Composing reports whether the composition form is showing.
func (s State) Composing() bool {
	return s.Mode == ModeComposing
}

// SubmitLabel is the text of the form's submit control.
func (s State) SubmitLabel() string {
	if s.Submitting {
		return "Posting..."
	}
	return "Post"
}

// ToggleLabel is the text of the menu's mode toggle.
func (s State) ToggleLabel() string {
	if s.Composing() {
		return "← Back"
	}
	return "+ Create Post"
}

func (s State) clone() State {
	c := s
	if s.Posts != nil {
		c.Posts = make([]blog.Post, len(s.Posts))
		copy(c.Posts, s.Posts)
	}
	return c
}
