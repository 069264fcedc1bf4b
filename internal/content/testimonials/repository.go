package testimonials

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for testimonials.
type Repository interface {
	ListApproved(ctx context.Context) ([]Testimonial, error)
	ListAll(ctx context.Context) ([]Testimonial, error)
	Create(ctx context.Context, t Testimonial) (Testimonial, error)
	Update(ctx context.Context, id int64, t Testimonial) (Testimonial, error)
	SetApproved(ctx context.Context, id int64, approved bool) (Testimonial, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const testimonialColumns = `id, author_name, author_title, company, quote, avatar_url, approved, created_at`

func (r *repository) ListApproved(ctx context.Context) ([]Testimonial, error) {
	return r.queryList(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE approved ORDER BY created_at DESC`)
}

func (r *repository) ListAll(ctx context.Context) ([]Testimonial, error) {
	return r.queryList(ctx, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`)
}

func (r *repository) queryList(ctx context.Context, query string) ([]Testimonial, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Testimonial
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, t Testimonial) (Testimonial, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (author_name, author_title, company, quote, avatar_url, approved)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+testimonialColumns,
		t.AuthorName, t.AuthorTitle, t.Company, t.Quote, t.AvatarURL, t.Approved,
	)
	return scanTestimonial(row)
}

func (r *repository) Update(ctx context.Context, id int64, t Testimonial) (Testimonial, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE testimonials SET author_name = $1, author_title = $2, company = $3, quote = $4, avatar_url = $5, approved = $6
		 WHERE id = $7
		 RETURNING `+testimonialColumns,
		t.AuthorName, t.AuthorTitle, t.Company, t.Quote, t.AvatarURL, t.Approved, id,
	)
	return scanTestimonial(row)
}

func (r *repository) SetApproved(ctx context.Context, id int64, approved bool) (Testimonial, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE testimonials SET approved = $1 WHERE id = $2 RETURNING `+testimonialColumns,
		approved, id,
	)
	return scanTestimonial(row)
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTestimonial(row rowScanner) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(&t.ID, &t.AuthorName, &t.AuthorTitle, &t.Company, &t.Quote, &t.AvatarURL, &t.Approved, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, httpx.ErrNotFound
		}
		return Testimonial{}, err
	}
	return t, nil
}
