package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inquizitor/inquizitor-backend/internal/model"
)

// NotificationRepository handles system-wide announcements and their
// per-user read flags.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// ListForUser retrieves all notifications with the caller's read flag.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.SystemNotification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.title, n.body, n.created_at,
		        (rn.notification_id IS NOT NULL) AS read
		 FROM system_notifications n
		 LEFT JOIN user_read_notifications rn
		   ON rn.notification_id = n.id AND rn.user_id = $1
		 ORDER BY n.created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.SystemNotification
	for rows.Next() {
		var n model.SystemNotification
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.CreatedAt, &n.Read); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead flags one notification as read for the caller. Re-marking is
// a no-op.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_read_notifications (user_id, notification_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userID, notificationID)
	return err
}

// Create inserts a new announcement.
func (r *NotificationRepository) Create(ctx context.Context, n *model.SystemNotification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO system_notifications (title, body)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		n.Title, n.Body,
	).Scan(&n.ID, &n.CreatedAt)
}
