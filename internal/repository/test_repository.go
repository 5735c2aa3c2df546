package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// TestRepository handles test data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

// Create inserts a new test.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (owner_id, title)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		t.OwnerID, t.Title,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a test by id.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	var t model.Test
	err := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, title, created_at, updated_at
		 FROM tests WHERE id = $1`, id,
	).Scan(&t.ID, &t.OwnerID, &t.Title, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, wrapNoRows(err)
	}
	return &t, nil
}

// ListByOwner retrieves all tests of one user, newest first.
func (r *TestRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Test, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, title, created_at, updated_at
		 FROM tests WHERE owner_id = $1
		 ORDER BY created_at DESC`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// UpdateTitle renames a test.
func (r *TestRepository) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET title = $1, updated_at = NOW() WHERE id = $2`, title, id)
	return err
}

// Touch bumps updated_at after a question-level change.
func (r *TestRepository) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET updated_at = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes a test; questions cascade.
func (r *TestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	return err
}
