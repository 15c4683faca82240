package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tooltrack-backend/internal/domain"
	"tooltrack-backend/internal/logger"
	"tooltrack-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Add(ctx context.Context, n *domain.Notification) error {
	logger.DatabaseCall("INSERT", "notifications", "recipient", n.RecipientUserID)
	query := `INSERT INTO notifications (message, recipient_user_id, is_read, created_at)
	          VALUES ($1, $2, FALSE, NOW()) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, n.Message, n.RecipientUserID).Scan(&n.ID, &n.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "notification_id", n.ID)
	return err
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID int32) ([]domain.Notification, error) {
	query := `SELECT id, message, recipient_user_id, is_read, created_at
	          FROM notifications WHERE recipient_user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Message, &n.RecipientUserID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND recipient_user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int32) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE recipient_user_id = $1 AND is_read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
