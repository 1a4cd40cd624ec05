package ui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/soypete/pedroblog/pkg/storage/blog"
)

// PostService is the boundary the controller calls. It is satisfied by
// *posts.Service in process and by *client.Client over HTTP.
type PostService interface {
	CreatePost(ctx context.Context, title, body string) error
	ListPosts(ctx context.Context) ([]*blog.Post, error)
}

// Controller mediates between user actions and the PostService.
//
// Storage calls run on their own goroutines so callers never block. Failed
// calls are logged and recorded as State.Notice; they never change the mode,
// the draft or the cached posts.
type Controller struct {
	svc    PostService
	logger *slog.Logger
	ctx    context.Context

	mu          sync.Mutex
	state       State
	mounted     bool
	subscribers map[string]chan State

	// reloads are numbered when started; an older result never overwrites a newer one
	reloadSeq     uint64
	reloadApplied uint64

	tasks sync.WaitGroup
}

// NewController creates a controller in ModeViewing with no posts loaded.
// Storage calls use ctx with its cancellation stripped: in-flight calls are
// never cancelled.
func NewController(ctx context.Context, svc PostService, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		svc:         svc,
		logger:      logger.With(slog.String("component", "ui.controller")),
		ctx:         context.WithoutCancel(ctx),
		state:       State{Mode: ModeViewing},
		subscribers: make(map[string]chan State),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Mount loads the post collection once. Later calls do nothing.
func (c *Controller) Mount() {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = true
	c.mu.Unlock()

	c.startReload()
}

// Toggle switches between viewing and composing. The draft is kept.
func (c *Controller) Toggle() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Mode == ModeComposing {
		c.state.Mode = ModeViewing
	} else {
		c.state.Mode = ModeComposing
	}
	c.state.Notice = ""
	c.changedLocked()

	return c.state.Mode
}

// SetDraft replaces the draft fields. Subscribers are not notified: the
// draft is owned by whoever is typing it.
func (c *Controller) SetDraft(title, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft = Draft{Title: title, Body: body}
}

// Submit starts persisting the current draft. It returns false without doing
// anything when the form is not showing or a submission is already in flight.
func (c *Controller) Submit() bool {
	c.mu.Lock()
	if c.state.Mode != ModeComposing || c.state.Submitting {
		c.mu.Unlock()
		return false
	}
	c.state.Submitting = true
	draft := c.state.Draft
	c.changedLocked()
	c.mu.Unlock()

	c.spawn(func() {
		err := c.svc.CreatePost(c.ctx, draft.Title, draft.Body)

		c.mu.Lock()
		c.state.Submitting = false
		if err != nil {
			c.state.Notice = "Could not save the post. Your draft is kept."
			c.changedLocked()
			c.mu.Unlock()
			c.logger.Error("submit post failed", slog.String("error", err.Error()))
			return
		}

		c.state.Draft = Draft{}
		c.state.Mode = ModeViewing
		c.state.Notice = ""
		c.changedLocked()
		c.mu.Unlock()

		c.startReload()
	})

	return true
}

// Reload refreshes the cached posts in the background, e.g. after a post was
// created through another channel.
func (c *Controller) Reload() {
	c.startReload()
}

func (c *Controller) startReload() {
	c.mu.Lock()
	c.reloadSeq++
	seq := c.reloadSeq
	c.mu.Unlock()

	c.spawn(func() { c.reload(seq) })
}

// reload replaces the cached collection wholesale on success.
func (c *Controller) reload(seq uint64) {
	posts, err := c.svc.ListPosts(c.ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.reloadApplied {
		c.logger.Debug("dropping stale reload", slog.Uint64("seq", seq))
		return
	}
	c.reloadApplied = seq

	if err != nil {
		c.state.Notice = "Could not load posts."
		c.changedLocked()
		c.logger.Error("load posts failed", slog.String("error", err.Error()))
		return
	}

	loaded := make([]blog.Post, 0, len(posts))
	for _, p := range posts {
		loaded = append(loaded, *p)
	}
	c.state.Posts = loaded
	c.state.Loaded = true
	c.state.Notice = ""
	c.changedLocked()
}

// Wait blocks until every storage call started so far, and the reloads they
// trigger, has finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

func (c *Controller) spawn(fn func()) {
	c.tasks.Add(1)
	go func() {
		defer c.tasks.Done()
		fn()
	}()
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only ever see the newest state.
func (c *Controller) Subscribe() (string, <-chan State) {
	id := uuid.New().String()
	ch := make(chan State, 1)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers[id] = ch

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (c *Controller) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.subscribers[id]; ok {
		close(ch)
		delete(c.subscribers, id)
	}
}

// changedLocked bumps the version and fans the new state out. c.mu must be held.
func (c *Controller) changedLocked() {
	c.state.Version++
	snapshot := c.state.clone()

	for _, ch := range c.subscribers {
		select {
		case ch <- snapshot:
		default:
			// Drop the stale state the reader has not picked up yet
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
