// Package site assembles the public portfolio payload served as one
// document, cached in Redis with concurrent builds collapsed.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/foliocms/folio/internal/content/achievements"
	"github.com/foliocms/folio/internal/content/posts"
	"github.com/foliocms/folio/internal/content/profile"
	"github.com/foliocms/folio/internal/content/projects"
	"github.com/foliocms/folio/internal/content/skills"
	"github.com/foliocms/folio/internal/content/testimonials"
	"github.com/foliocms/folio/internal/platform/httpx"
)

const cacheKey = "site:portfolio"

// Portfolio is the aggregate served to the public landing page.
type Portfolio struct {
	Profile      *profile.Profile           `json:"profile,omitempty"`
	Skills       []skills.Skill             `json:"skills"`
	Projects     []projects.Project         `json:"projects"`
	Posts        []posts.Post               `json:"posts"`
	Achievements []achievements.Achievement `json:"achievements"`
	Testimonials []testimonials.Testimonial `json:"testimonials"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// Service builds and caches the aggregate.
type Service struct {
	profiles     profile.Repository
	skills       skills.Repository
	projects     projects.Repository
	posts        posts.Repository
	achievements achievements.Repository
	testimonials testimonials.Repository

	cache *redis.Client
	ttl   time.Duration
	group singleflight.Group
}

// NewService constructs a Service. A nil cache client disables caching.
func NewService(
	profiles profile.Repository,
	sk skills.Repository,
	pr projects.Repository,
	po posts.Repository,
	ach achievements.Repository,
	te testimonials.Repository,
	cache *redis.Client,
	ttl time.Duration,
) *Service {
	return &Service{
		profiles:     profiles,
		skills:       sk,
		projects:     pr,
		posts:        po,
		achievements: ach,
		testimonials: te,
		cache:        cache,
		ttl:          ttl,
	}
}

// Portfolio returns the aggregate, serving from cache when possible.
// Concurrent cache misses share a single build.
func (s *Service) Portfolio(ctx context.Context) (Portfolio, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached Portfolio
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err, _ := s.group.Do(cacheKey, func() (any, error) {
		built, err := s.build(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if data, err := json.Marshal(built); err == nil {
				_ = s.cache.Set(ctx, cacheKey, data, s.ttl).Err()
			}
		}
		return built, nil
	})
	if err != nil {
		return Portfolio{}, err
	}
	return result.(Portfolio), nil
}

// Invalidate drops the cached aggregate after an admin write.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	err := s.cache.Del(ctx, cacheKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (s *Service) build(ctx context.Context) (Portfolio, error) {
	out := Portfolio{GeneratedAt: time.Now().UTC()}

	p, err := s.profiles.Get(ctx)
	switch {
	case err == nil:
		out.Profile = &p
	case errors.Is(err, httpx.ErrNotFound):
		// Site not configured yet; serve the rest.
	default:
		return Portfolio{}, err
	}

	if out.Skills, err = s.skills.List(ctx); err != nil {
		return Portfolio{}, err
	}
	if out.Projects, err = s.projects.List(ctx); err != nil {
		return Portfolio{}, err
	}
	if out.Posts, err = s.posts.ListPublished(ctx); err != nil {
		return Portfolio{}, err
	}
	if out.Achievements, err = s.achievements.List(ctx); err != nil {
		return Portfolio{}, err
	}
	if out.Testimonials, err = s.testimonials.ListApproved(ctx); err != nil {
		return Portfolio{}, err
	}

	if out.Skills == nil {
		out.Skills = []skills.Skill{}
	}
	if out.Projects == nil {
		out.Projects = []projects.Project{}
	}
	if out.Posts == nil {
		out.Posts = []posts.Post{}
	}
	if out.Achievements == nil {
		out.Achievements = []achievements.Achievement{}
	}
	if out.Testimonials == nil {
		out.Testimonials = []testimonials.Testimonial{}
	}
	return out, nil
}
