package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for projects.
type Repository interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id int64) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	Update(ctx context.Context, id int64, p Project) (Project, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const projectColumns = `id, title, description, tech_stack, repo_url, live_url, image_url, featured, sort_order, created_at`

func (r *repository) List(ctx context.Context) ([]Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY featured DESC, sort_order, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Project, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (r *repository) Create(ctx context.Context, p Project) (Project, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (title, description, tech_stack, repo_url, live_url, image_url, featured, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+projectColumns,
		p.Title, p.Description, p.TechStack, p.RepoURL, p.LiveURL, p.ImageURL, p.Featured, p.SortOrder,
	)
	return scanProject(row)
}

func (r *repository) Update(ctx context.Context, id int64, p Project) (Project, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE projects SET title = $1, description = $2, tech_stack = $3, repo_url = $4, live_url = $5, image_url = $6, featured = $7, sort_order = $8
		 WHERE id = $9
		 RETURNING `+projectColumns,
		p.Title, p.Description, p.TechStack, p.RepoURL, p.LiveURL, p.ImageURL, p.Featured, p.SortOrder, id,
	)
	return scanProject(row)
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &p.RepoURL, &p.LiveURL, &p.ImageURL, &p.Featured, &p.SortOrder, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Project{}, httpx.ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}
