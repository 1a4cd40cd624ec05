package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soypete/pedroblog/pkg/posts"
	"github.com/soypete/pedroblog/pkg/storage/blog"
)

// fakeService records calls and can block or fail them.
type fakeService struct {
	mu        sync.Mutex
	created   []Draft
	createErr error
	listErr   error
	listCalls int
	posts     []*blog.Post
	release   chan struct{} // when non-nil, CreatePost waits for it
}

func (f *fakeService) CreatePost(ctx context.Context, title, body string) error {
	if f.release != nil {
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, Draft{Title: title, Body: body})
	f.posts = append([]*blog.Post{{ID: int64(len(f.created)), UserID: 1, Title: title, Body: body}}, f.posts...)
	return nil
}

func (f *fakeService) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*blog.Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakeService) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), f.listCalls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(svc PostService) *Controller {
	return NewController(context.Background(), svc, quietLogger())
}

func TestInitialState(t *testing.T) {
	c := newTestController(&fakeService{})
	s := c.Snapshot()

	assert.Equal(t, ModeViewing, s.Mode)
	assert.False(t, s.Submitting)
	assert.False(t, s.Loaded)
	assert.Empty(t, s.Posts)
	assert.Equal(t, Draft{}, s.Draft)
}

func TestMountLoadsOnce(t *testing.T) {
	svc := &fakeService{posts: []*blog.Post{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}}
	c := newTestController(svc)

	c.Mount()
	c.Mount()
	c.Wait()

	s := c.Snapshot()
	assert.True(t, s.Loaded)
	require.Len(t, s.Posts, 2)
	assert.Equal(t, "B", s.Posts[0].Title)

	_, lists := svc.calls()
	assert.Equal(t, 1, lists)
}

func TestToggle(t *testing.T) {
	c := newTestController(&fakeService{})

	assert.Equal(t, ModeComposing, c.Toggle())
	assert.True(t, c.Snapshot().Composing())
	assert.Equal(t, ModeViewing, c.Toggle())
	assert.False(t, c.Snapshot().Composing())
}

func TestToggleKeepsDraft(t *testing.T) {
	c := newTestController(&fakeService{})

	c.Toggle()
	c.SetDraft("Half", "written")
	c.Toggle()
	c.Toggle()

	assert.Equal(t, Draft{Title: "Half", Body: "written"}, c.Snapshot().Draft)
}

func TestSubmitIgnoredWhileViewing(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)

	c.SetDraft("t", "b")
	assert.False(t, c.Submit())
	c.Wait()

	created, _ := svc.calls()
	assert.Zero(t, created)
}

func TestSubmitSuccess(t *testing.T) {
	svc := &fakeService{}
	c := newTestController(svc)
	c.Mount()
	c.Wait()

	c.Toggle()
	c.SetDraft("Hello", "World")
	require.True(t, c.Submit())
	c.Wait()

	s := c.Snapshot()
	assert.Equal(t, ModeViewing, s.Mode)
	assert.Equal(t, Draft{}, s.Draft)
	assert.False(t, s.Submitting)
	assert.Empty(t, s.Notice)
	require.Len(t, s.Posts, 1)
	assert.Equal(t, "Hello", s.Posts[0].Title)

	created, lists := svc.calls()
	assert.Equal(t, 1, created)
	assert.Equal(t, 2, lists, "mount plus the reload after the submit")
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	svc := &fakeService{createErr: posts.ErrPersistenceFailed}
	c := newTestController(svc)

	c.Toggle()
	c.SetDraft("Hello", "World")
	require.True(t, c.Submit())
	c.Wait()

	s := c.Snapshot()
	assert.Equal(t, ModeComposing, s.Mode)
	assert.Equal(t, Draft{Title: "Hello", Body: "World"}, s.Draft)
	assert.False(t, s.Submitting)
	assert.NotEmpty(t, s.Notice)

	_, lists := svc.calls()
	assert.Zero(t, lists, "no reload after a failed submit")
}

func TestSecondSubmitWhileInFlight(t *testing.T) {
	svc := &fakeService{release: make(chan struct{})}
	c := newTestController(svc)

	c.Toggle()
	c.SetDraft("Once", "only")
	require.True(t, c.Submit())
	assert.True(t, c.Snapshot().Submitting)
	assert.Equal(t, "Posting...", c.Snapshot().SubmitLabel())

	assert.False(t, c.Submit(), "a second submit is refused while the first is in flight")

	close(svc.release)
	c.Wait()

	created, _ := svc.calls()
	assert.Equal(t, 1, created)
	assert.Equal(t, "Post", c.Snapshot().SubmitLabel())
}

func TestLoadFailureKeepsPosts(t *testing.T) {
	svc := &fakeService{posts: []*blog.Post{{ID: 1, Title: "kept"}}}
	c := newTestController(svc)
	c.Mount()
	c.Wait()

	svc.mu.Lock()
	svc.listErr = errors.New("disk gone")
	svc.mu.Unlock()

	c.Reload()
	c.Wait()

	s := c.Snapshot()
	require.Len(t, s.Posts, 1)
	assert.Equal(t, "kept", s.Posts[0].Title)
	assert.NotEmpty(t, s.Notice)
}

func TestToggleClearsNotice(t *testing.T) {
	svc := &fakeService{listErr: errors.New("boom")}
	c := newTestController(svc)
	c.Mount()
	c.Wait()
	require.NotEmpty(t, c.Snapshot().Notice)

	c.Toggle()
	assert.Empty(t, c.Snapshot().Notice)
}

func TestSubscribeReceivesLatest(t *testing.T) {
	c := newTestController(&fakeService{})
	id, ch := c.Subscribe()

	c.Toggle()
	c.Toggle()
	c.Toggle()

	select {
	case s := <-ch:
		assert.Equal(t, ModeComposing, s.Mode)
		assert.Equal(t, uint64(3), s.Version)
	case <-time.After(time.Second):
		t.Fatal("no state delivered")
	}

	c.Unsubscribe(id)
	_, open := <-ch
	assert.False(t, open)
}

func TestSnapshotIsACopy(t *testing.T) {
	svc := &fakeService{posts: []*blog.Post{{ID: 1, Title: "original"}}}
	c := newTestController(svc)
	c.Mount()
	c.Wait()

	s := c.Snapshot()
	s.Posts[0].Title = "mutated"

	assert.Equal(t, "original", c.Snapshot().Posts[0].Title)
}

func TestWithPostService(t *testing.T) {
	svc := posts.NewService(blog.NewMemoryStorage(), 1, quietLogger())
	c := newTestController(svc)
	c.Mount()
	c.Wait()
	assert.True(t, c.Snapshot().Loaded)

	for _, title := range []string{"First", "Second"} {
		c.Toggle()
		c.SetDraft(title, "body")
		require.True(t, c.Submit())
		c.Wait()
	}

	s := c.Snapshot()
	require.Len(t, s.Posts, 2)
	assert.Equal(t, "Second", s.Posts[0].Title)
	assert.Equal(t, "First", s.Posts[1].Title)
	assert.Equal(t, int64(1), s.Posts[0].UserID)
}

// gatedLister holds its first ListPosts call until released.
type gatedLister struct {
	fakeService
	first   chan struct{}
	entered chan struct{}
	once    sync.Once
}

func (g *gatedLister) ListPosts(ctx context.Context) ([]*blog.Post, error) {
	g.mu.Lock()
	snapshot := make([]*blog.Post, len(g.posts))
	copy(snapshot, g.posts)
	g.mu.Unlock()

	blocked := false
	g.once.Do(func() { blocked = true })
	if blocked {
		close(g.entered)
		<-g.first
	}
	return snapshot, nil
}

func TestStaleReloadDoesNotOverwrite(t *testing.T) {
	svc := &gatedLister{first: make(chan struct{}), entered: make(chan struct{})}
	c := newTestController(svc)

	c.Mount()
	<-svc.entered // mount has read the empty collection

	c.Toggle()
	c.SetDraft("Fresh", "post")
	require.True(t, c.Submit())

	require.Eventually(t, func() bool {
		s := c.Snapshot()
		return len(s.Posts) == 1
	}, time.Second, 5*time.Millisecond)

	close(svc.first)
	c.Wait()

	s := c.Snapshot()
	require.Len(t, s.Posts, 1, "the older, empty listing is dropped")
	assert.Equal(t, "Fresh", s.Posts[0].Title)
}
