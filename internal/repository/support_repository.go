package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// SupportRepository handles support ticket data access.
type SupportRepository struct {
	pool *pgxpool.Pool
}

// NewSupportRepository creates a new SupportRepository.
func NewSupportRepository(pool *pgxpool.Pool) *SupportRepository {
	return &SupportRepository{pool: pool}
}

// Create inserts a new ticket in the "new" state.
func (r *SupportRepository) Create(ctx context.Context, t *model.SupportTicket) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO support_tickets (user_id, email, category, subject, message, status)
		 VALUES ($1, $2, $3, $4, $5, 'new')
		 RETURNING id, status, created_at`,
		t.UserID, t.Email, t.Category, t.Subject, t.Message,
	).Scan(&t.ID, &t.Status, &t.CreatedAt)
}
