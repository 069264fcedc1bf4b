package achievements

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for achievements.
type Repository interface {
	List(ctx context.Context) ([]Achievement, error)
	Create(ctx context.Context, a Achievement) (Achievement, error)
	Update(ctx context.Context, id int64, a Achievement) (Achievement, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const achievementColumns = `id, title, issuer, description, credential_url, awarded_on`

func (r *repository) List(ctx context.Context) ([]Achievement, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+achievementColumns+` FROM achievements ORDER BY awarded_on DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Achievement
	for rows.Next() {
		var a Achievement
		if err := rows.Scan(&a.ID, &a.Title, &a.Issuer, &a.Description, &a.CredentialURL, &a.AwardedOn); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, a Achievement) (Achievement, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO achievements (title, issuer, description, credential_url, awarded_on)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.Title, a.Issuer, a.Description, a.CredentialURL, a.AwardedOn,
	).Scan(&a.ID)
	return a, err
}

func (r *repository) Update(ctx context.Context, id int64, a Achievement) (Achievement, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE achievements SET title = $1, issuer = $2, description = $3, credential_url = $4, awarded_on = $5 WHERE id = $6`,
		a.Title, a.Issuer, a.Description, a.CredentialURL, a.AwardedOn, id,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Achievement{}, httpx.ErrNotFound
		}
		return Achievement{}, err
	}
	if tag.RowsAffected() == 0 {
		return Achievement{}, httpx.ErrNotFound
	}
	a.ID = id
	return a, nil
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM achievements WHERE id = $1`, id)
	return err
}
