package skills

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for skills.
type Repository interface {
	List(ctx context.Context) ([]Skill, error)
	Create(ctx context.Context, s Skill) (Skill, error)
	Update(ctx context.Context, id int64, s Skill) (Skill, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Skill, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, category, level, sort_order FROM skills ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Skill
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, s Skill) (Skill, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO skills (name, category, level, sort_order) VALUES ($1, $2, $3, $4) RETURNING id`,
		s.Name, s.Category, s.Level, s.SortOrder,
	).Scan(&s.ID)
	return s, err
}

func (r *repository) Update(ctx context.Context, id int64, s Skill) (Skill, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE skills SET name = $1, category = $2, level = $3, sort_order = $4 WHERE id = $5`,
		s.Name, s.Category, s.Level, s.SortOrder, id,
	)
	if err != nil {
		return Skill{}, err
	}
	if tag.RowsAffected() == 0 {
		return Skill{}, httpx.ErrNotFound
	}
	s.ID = id
	return s, nil
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}
