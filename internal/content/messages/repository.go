package messages

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foliocms/folio/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for contact messages.
type Repository interface {
	List(ctx context.Context) ([]Message, error)
	Create(ctx context.Context, m Message) (Message, error)
	MarkRead(ctx context.Context, id int64) (Message, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const messageColumns = `id, name, email, subject, body, read, created_at`

func (r *repository) List(ctx context.Context) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, m Message) (Message, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO messages (name, email, subject, body) VALUES ($1, $2, $3, $4) RETURNING `+messageColumns,
		m.Name, m.Email, m.Subject, m.Body,
	)
	return scanMessage(row)
}

func (r *repository) MarkRead(ctx context.Context, id int64) (Message, error) {
	row := r.pool.QueryRow(ctx, `UPDATE messages SET read = TRUE WHERE id = $1 RETURNING `+messageColumns, id)
	return scanMessage(row)
}

// Delete is idempotent: removing a missing row is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Body, &m.Read, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Message{}, httpx.ErrNotFound
		}
		return Message{}, err
	}
	return m, nil
}
