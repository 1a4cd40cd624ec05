package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/soypete/pedroblog/pkg/storage/blog"
	"github.com/soypete/pedroblog/pkg/ui"
)

const (
	emptyState = "No posts yet. Create the first one!"
	rule       = "────────────────────────────────────────"
)

var menuItems = []string{"Home", "Popular", "Categories", "About me"}

// Render draws the whole screen for s.
func Render(w io.Writer, s ui.State, author string) {
	RenderMenu(w, s)
	RenderNotice(w, s)
	if s.Composing() {
		RenderForm(w, s)
		return
	}
	RenderPosts(w, s, author)
}

// RenderMenu draws the navigation bar with the mode toggle.
func RenderMenu(w io.Writer, s ui.State) {
	toggle := "/new"
	if s.Composing() {
		toggle = "/back"
	}
	fmt.Fprintf(w, "[ %s ] (%s)   %s\n", s.ToggleLabel(), toggle, strings.Join(menuItems, " | "))
	fmt.Fprintln(w, rule)
}

// RenderNotice draws the last failure, if any.
func RenderNotice(w io.Writer, s ui.State) {
	if s.Notice != "" {
		fmt.Fprintf(w, "⚠️  %s\n\n", s.Notice)
	}
}

// RenderPosts draws every cached post, newest first.
func RenderPosts(w io.Writer, s ui.State, author string) {
	if len(s.Posts) == 0 {
		fmt.Fprintf(w, "\n  %s\n\n", emptyState)
		return
	}

	for _, p := range s.Posts {
		RenderPost(w, p, author)
	}
}

// RenderPost draws a single post.
func RenderPost(w io.Writer, p blog.Post, author string) {
	fmt.Fprintf(w, "\n# %s\n\n", p.Title)
	for _, line := range strings.Split(p.Body, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintf(w, "\n  %s · %s\n", author, p.CreatedTime)
	fmt.Fprintln(w, rule)
}

// RenderForm draws the composition form with the current draft.
func RenderForm(w io.Writer, s ui.State) {
	title := s.Draft.Title
	if title == "" {
		title = "(Post Title)"
	}
	body := s.Draft.Body
	if body == "" {
		body = "(Post Body)"
	}

	fmt.Fprintf(w, "Title: %s\n", title)
	fmt.Fprintln(w, "Body:")
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if s.Submitting {
		fmt.Fprintf(w, "\n[ %s ]\n", s.SubmitLabel())
		return
	}
	fmt.Fprintf(w, "\n[ %s ] (/post)\n", s.SubmitLabel())
}
