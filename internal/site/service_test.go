package site

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliocms/folio/internal/content/achievements"
	"github.com/foliocms/folio/internal/content/posts"
	"github.com/foliocms/folio/internal/content/profile"
	"github.com/foliocms/folio/internal/content/projects"
	"github.com/foliocms/folio/internal/content/skills"
	"github.com/foliocms/folio/internal/content/testimonials"
	"github.com/foliocms/folio/internal/platform/httpx"
)

type stubProfiles struct {
	profile profile.Profile
	err     error
	calls   int
}

func (s *stubProfiles) Get(ctx context.Context) (profile.Profile, error) {
	s.calls++
	return s.profile, s.err
}

func (s *stubProfiles) Upsert(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	return p, nil
}

type stubSkills struct{ items []skills.Skill }

func (s *stubSkills) List(ctx context.Context) ([]skills.Skill, error) { return s.items, nil }
func (s *stubSkills) Create(ctx context.Context, sk skills.Skill) (skills.Skill, error) {
	return sk, nil
}
func (s *stubSkills) Update(ctx context.Context, id int64, sk skills.Skill) (skills.Skill, error) {
	return sk, nil
}
func (s *stubSkills) Delete(ctx context.Context, id int64) error { return nil }

type stubProjects struct{}

func (stubProjects) List(ctx context.Context) ([]projects.Project, error) { return nil, nil }
func (stubProjects) Get(ctx context.Context, id int64) (projects.Project, error) {
	return projects.Project{}, httpx.ErrNotFound
}
func (stubProjects) Create(ctx context.Context, p projects.Project) (projects.Project, error) {
	return p, nil
}
func (stubProjects) Update(ctx context.Context, id int64, p projects.Project) (projects.Project, error) {
	return p, nil
}
func (stubProjects) Delete(ctx context.Context, id int64) error { return nil }

type stubPosts struct{ published []posts.Post }

func (s *stubPosts) ListPublished(ctx context.Context) ([]posts.Post, error) {
	return s.published, nil
}
func (s *stubPosts) ListAll(ctx context.Context) ([]posts.Post, error) { return s.published, nil }
func (s *stubPosts) GetBySlug(ctx context.Context, slug string) (posts.Post, error) {
	return posts.Post{}, httpx.ErrNotFound
}
func (s *stubPosts) Get(ctx context.Context, id int64) (posts.Post, error) {
	return posts.Post{}, httpx.ErrNotFound
}
func (s *stubPosts) Create(ctx context.Context, p posts.Post) (posts.Post, error) { return p, nil }
func (s *stubPosts) Update(ctx context.Context, id int64, p posts.Post) (posts.Post, error) {
	return p, nil
}
func (s *stubPosts) Delete(ctx context.Context, id int64) error { return nil }

type stubAchievements struct{}

func (stubAchievements) List(ctx context.Context) ([]achievements.Achievement, error) {
	return nil, nil
}
func (stubAchievements) Create(ctx context.Context, a achievements.Achievement) (achievements.Achievement, error) {
	return a, nil
}
func (stubAchievements) Update(ctx context.Context, id int64, a achievements.Achievement) (achievements.Achievement, error) {
	return a, nil
}
func (stubAchievements) Delete(ctx context.Context, id int64) error { return nil }

type stubTestimonials struct{}

func (stubTestimonials) ListApproved(ctx context.Context) ([]testimonials.Testimonial, error) {
	return nil, nil
}
func (stubTestimonials) ListAll(ctx context.Context) ([]testimonials.Testimonial, error) {
	return nil, nil
}
func (stubTestimonials) Create(ctx context.Context, t testimonials.Testimonial) (testimonials.Testimonial, error) {
	return t, nil
}
func (stubTestimonials) Update(ctx context.Context, id int64, t testimonials.Testimonial) (testimonials.Testimonial, error) {
	return t, nil
}
func (stubTestimonials) SetApproved(ctx context.Context, id int64, approved bool) (testimonials.Testimonial, error) {
	return testimonials.Testimonial{}, httpx.ErrNotFound
}
func (stubTestimonials) Delete(ctx context.Context, id int64) error { return nil }

func newSiteService(t *testing.T, profiles *stubProfiles, cached bool) *Service {
	t.Helper()
	var client *redis.Client
	if cached {
		mr := miniredis.RunT(t)
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	return NewService(
		profiles,
		&stubSkills{items: []skills.Skill{{ID: 1, Name: "Go", Category: "backend", Level: 5}}},
		stubProjects{},
		&stubPosts{},
		stubAchievements{},
		stubTestimonials{},
		client,
		time.Minute,
	)
}

func TestPortfolioAggregatesContent(t *testing.T) {
	profiles := &stubProfiles{profile: profile.Profile{FullName: "Noah"}}
	svc := newSiteService(t, profiles, false)

	got, err := svc.Portfolio(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Noah", got.Profile.FullName)
	assert.Len(t, got.Skills, 1)

	// Empty sections serialize as [] rather than null.
	assert.NotNil(t, got.Projects)
	assert.NotNil(t, got.Posts)
	assert.NotNil(t, got.Achievements)
	assert.NotNil(t, got.Testimonials)
}

func TestPortfolioToleratesMissingProfile(t *testing.T) {
	profiles := &stubProfiles{err: httpx.ErrNotFound}
	svc := newSiteService(t, profiles, false)

	got, err := svc.Portfolio(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got.Profile)
	assert.Len(t, got.Skills, 1)
}

func TestPortfolioServesFromCache(t *testing.T) {
	profiles := &stubProfiles{profile: profile.Profile{FullName: "Noah"}}
	svc := newSiteService(t, profiles, true)

	_, err := svc.Portfolio(context.Background())
	require.NoError(t, err)
	_, err = svc.Portfolio(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, profiles.calls, "second read must hit the cache")
}

func TestInvalidateForcesRebuild(t *testing.T) {
	profiles := &stubProfiles{profile: profile.Profile{FullName: "Noah"}}
	svc := newSiteService(t, profiles, true)

	_, err := svc.Portfolio(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.Portfolio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, profiles.calls, "invalidate must force a rebuild")
}
