package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for the profile row.
type Repository interface {
	Get(ctx context.Context) (Profile, error)
	Upsert(ctx context.Context, p Profile) (Profile, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const profileColumns = `full_name, title, hero_tagline, bio, avatar_url, email, phone, location, github_url, linkedin_url, updated_at`

func (r *repository) Get(ctx context.Context) (Profile, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profile WHERE id = 1`)
	var p Profile
	err := row.Scan(&p.FullName, &p.Title, &p.HeroTagline, &p.Bio, &p.AvatarURL, &p.Email, &p.Phone, &p.Location, &p.GithubURL, &p.LinkedinURL, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, httpx.ErrNotFound
		}
		return Profile{}, err
	}
	return p, nil
}

func (r *repository) Upsert(ctx context.Context, p Profile) (Profile, error) {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO profile (id, `+profileColumns+`)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   title = EXCLUDED.title,
		   hero_tagline = EXCLUDED.hero_tagline,
		   bio = EXCLUDED.bio,
		   avatar_url = EXCLUDED.avatar_url,
		   email = EXCLUDED.email,
		   phone = EXCLUDED.phone,
		   location = EXCLUDED.location,
		   github_url = EXCLUDED.github_url,
		   linkedin_url = EXCLUDED.linkedin_url,
		   updated_at = EXCLUDED.updated_at`,
		p.FullName, p.Title, p.HeroTagline, p.Bio, p.AvatarURL, p.Email, p.Phone, p.Location, p.GithubURL, p.LinkedinURL, p.UpdatedAt,
	)
	if err != nil {
		return Profile{}, err
	}
	return p, nil
}
