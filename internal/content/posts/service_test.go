package posts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliocms/folio/internal/platform/httpx"
)

type mockPostRepo struct {
	posts  map[int64]Post
	bySlug map[string]int64
	nextID int64
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int64]Post), bySlug: make(map[string]int64), nextID: 1}
}

func (m *mockPostRepo) ListPublished(ctx context.Context) ([]Post, error) {
	var out []Post
	for _, p := range m.posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPostRepo) ListAll(ctx context.Context) ([]Post, error) {
	var out []Post
	for _, p := range m.posts {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPostRepo) GetBySlug(ctx context.Context, slug string) (Post, error) {
	id, ok := m.bySlug[slug]
	if !ok || !m.posts[id].Published {
		return Post{}, httpx.ErrNotFound
	}
	return m.posts[id], nil
}

func (m *mockPostRepo) Get(ctx context.Context, id int64) (Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return Post{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *mockPostRepo) Create(ctx context.Context, p Post) (Post, error) {
	if _, taken := m.bySlug[p.Slug]; taken {
		return Post{}, httpx.ErrDuplicate
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.posts[p.ID] = p
	m.bySlug[p.Slug] = p.ID
	return p, nil
}

func (m *mockPostRepo) Update(ctx context.Context, id int64, p Post) (Post, error) {
	current, ok := m.posts[id]
	if !ok {
		return Post{}, httpx.ErrNotFound
	}
	if owner, taken := m.bySlug[p.Slug]; taken && owner != id {
		return Post{}, httpx.ErrDuplicate
	}
	delete(m.bySlug, current.Slug)
	p.ID = id
	p.CreatedAt = current.CreatedAt
	p.UpdatedAt = time.Now().UTC()
	m.posts[id] = p
	m.bySlug[p.Slug] = id
	return p, nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id int64) error {
	if p, ok := m.posts[id]; ok {
		delete(m.bySlug, p.Slug)
		delete(m.posts, id)
	}
	return nil
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	post, err := svc.Create(context.Background(), Draft{Title: "My First Post", Content: "body"})
	require.NoError(t, err)
	assert.Equal(t, "my-first-post", post.Slug)
	assert.False(t, post.Published)
	assert.Nil(t, post.PublishedAt)
}

func TestCreateRetriesOnSlugCollision(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	first, err := svc.Create(context.Background(), Draft{Title: "Same Title", Content: "a"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), Draft{Title: "Same Title", Content: "b"})
	require.NoError(t, err)

	assert.Equal(t, "same-title", first.Slug)
	assert.Equal(t, "same-title-2", second.Slug)
}

func TestCreatePublishedSetsTimestamp(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	post, err := svc.Create(context.Background(), Draft{Title: "Launch", Content: "go", Published: true})
	require.NoError(t, err)
	require.NotNil(t, post.PublishedAt)
	assert.WithinDuration(t, time.Now().UTC(), *post.PublishedAt, time.Minute)
}

func TestUpdatePreservesOriginalPublishDate(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	post, err := svc.Create(context.Background(), Draft{Title: "Launch", Content: "v1", Published: true})
	require.NoError(t, err)
	originalPublished := *post.PublishedAt

	time.Sleep(5 * time.Millisecond)
	updated, err := svc.Update(context.Background(), post.ID, Draft{Title: "Launch", Content: "v2", Published: true})
	require.NoError(t, err)
	require.NotNil(t, updated.PublishedAt)
	assert.Equal(t, originalPublished, *updated.PublishedAt)
}

func TestUpdateKeepsSlugOnCollision(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), Draft{Title: "Taken", Content: "a"})
	require.NoError(t, err)
	post, err := svc.Create(context.Background(), Draft{Title: "Original", Content: "b"})
	require.NoError(t, err)

	// Renaming into a taken slug falls back to the current slug.
	updated, err := svc.Update(context.Background(), post.ID, Draft{Title: "Taken", Content: "b2"})
	require.NoError(t, err)
	assert.Equal(t, "original", updated.Slug)
	assert.Equal(t, "Taken", updated.Title)
}

func TestUpdateMissingPostReturnsNotFound(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 999, Draft{Title: "Nope", Content: "x"})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestGetBySlugHidesDrafts(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	draft, err := svc.Create(context.Background(), Draft{Title: "Secret Draft", Content: "wip"})
	require.NoError(t, err)

	_, err = svc.GetBySlug(context.Background(), draft.Slug)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestDeleteMissingPostSucceeds(t *testing.T) {
	repo := newMockPostRepo()
	svc := NewService(repo)

	assert.NoError(t, svc.Delete(context.Background(), 12345))
}
