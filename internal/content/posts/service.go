package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Service derives slugs and owns the publish transition.
type Service struct {
	repo Repository
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Draft carries post input before slug derivation.
type Draft struct {
	Title     string
	Excerpt   string
	Content   string
	Published bool
}

const slugRetries = 5

// Create derives the slug from the title, retrying with a numeric suffix when
// the slug is already taken.
func (s *Service) Create(ctx context.Context, draft Draft) (Post, error) {
	post := s.fromDraft(draft)
	base := Slugify(draft.Title)
	if base == "" {
		base = "post"
	}
	for i := 0; i <= slugRetries; i++ {
		post.Slug = base
		if i > 0 {
			post.Slug = fmt.Sprintf("%s-%d", base, i+1)
		}
		created, err := s.repo.Create(ctx, post)
		if errors.Is(err, httpx.ErrDuplicate) {
			continue
		}
		return created, err
	}
	return Post{}, httpx.ErrDuplicate
}

// Update replaces the post body. The slug follows the new title unless that
// slug already belongs to another post.
func (s *Service) Update(ctx context.Context, id int64, draft Draft) (Post, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Post{}, err
	}
	post := s.fromDraft(draft)
	post.Slug = Slugify(draft.Title)
	if post.Slug == "" {
		post.Slug = current.Slug
	}
	if draft.Published && current.PublishedAt != nil {
		post.PublishedAt = current.PublishedAt
	}
	updated, err := s.repo.Update(ctx, id, post)
	if errors.Is(err, httpx.ErrDuplicate) && post.Slug != current.Slug {
		post.Slug = current.Slug
		return s.repo.Update(ctx, id, post)
	}
	return updated, err
}

func (s *Service) fromDraft(draft Draft) Post {
	post := Post{
		Title:     draft.Title,
		Excerpt:   draft.Excerpt,
		Content:   draft.Content,
		Published: draft.Published,
	}
	if draft.Published {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}
	return post
}

// ListPublished returns public posts.
func (s *Service) ListPublished(ctx context.Context) ([]Post, error) {
	return s.repo.ListPublished(ctx)
}

// ListAll returns every post, drafts included.
func (s *Service) ListAll(ctx context.Context) ([]Post, error) {
	return s.repo.ListAll(ctx)
}

// GetBySlug returns a published post by slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Post, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Delete removes a post; deleting a missing post succeeds.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
