package posts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for posts.
type Repository interface {
	ListPublished(ctx context.Context) ([]Post, error)
	ListAll(ctx context.Context) ([]Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	Get(ctx context.Context, id int64) (Post, error)
	Create(ctx context.Context, p Post) (Post, error)
	Update(ctx context.Context, id int64, p Post) (Post, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const postColumns = `id, title, slug, excerpt, content, published, published_at, created_at, updated_at`

func (r *repository) ListPublished(ctx context.Context) ([]Post, error) {
	return r.queryList(ctx, `SELECT `+postColumns+` FROM posts WHERE published ORDER BY published_at DESC`)
}

func (r *repository) ListAll(ctx context.Context) ([]Post, error) {
	return r.queryList(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
}

func (r *repository) queryList(ctx context.Context, query string) ([]Post, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1 AND published`, slug)
	return scanPost(row)
}

func (r *repository) Get(ctx context.Context, id int64) (Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	return scanPost(row)
}

func (r *repository) Create(ctx context.Context, p Post) (Post, error) {
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, slug, excerpt, content, published, published_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+postColumns,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Published, p.PublishedAt, now,
	)
	created, err := scanPost(row)
	if err != nil {
		return Post{}, mapDuplicate(err)
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id int64, p Post) (Post, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE posts SET title = $1, slug = $2, excerpt = $3, content = $4, published = $5, published_at = $6, updated_at = $7
		 WHERE id = $8
		 RETURNING `+postColumns,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Published, p.PublishedAt, time.Now().UTC(), id,
	)
	updated, err := scanPost(row)
	if err != nil {
		return Post{}, mapDuplicate(err)
	}
	return updated, nil
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return httpx.ErrDuplicate
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, httpx.ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}
