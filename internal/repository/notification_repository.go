package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vasitha1/lebailleur-app/internal/models"
)

const notificationColumns = `
	id, kind, recipients, subject, message, sent_by, status, sent_at, created_at
`

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	n := &models.Notification{}
	err := row.Scan(
		&n.ID,
		&n.Kind,
		&n.Recipients,
		&n.Subject,
		&n.Message,
		&n.SentBy,
		&n.Status,
		&n.SentAt,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a queued notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (kind, recipients, subject, message, sent_by, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + notificationColumns

	created, err := scanNotification(r.pool.QueryRow(ctx, query,
		n.Kind, n.Recipients, n.Subject, n.Message, n.SentBy, n.Status))
	if err != nil {
		return nil, classify(err, "failed to create notification")
	}
	return created, nil
}

// GetByID loads one notification, used by the delivery worker
func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, classify(err, "failed to get notification")
	}
	return n, nil
}

// MarkStatus advances a notification's delivery status, stamping sent_at
func (r *NotificationRepository) MarkStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notifications SET status = $2, sent_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return classify(err, "failed to update notification")
	}
	if tag.RowsAffected() == 0 {
		return classify(pgx.ErrNoRows, "failed to update notification")
	}
	return nil
}

// ListBySender returns a sender's notification history, newest first
func (r *NotificationRepository) ListBySender(ctx context.Context, senderID uuid.UUID) ([]models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE sent_by = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, senderID)
	if err != nil {
		return nil, classify(err, "failed to list notifications")
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, classify(err, "failed to list notifications")
		}
		notifications = append(notifications, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "failed to list notifications")
	}
	return notifications, nil
}
