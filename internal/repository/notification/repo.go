package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wb-go/wbf/dbpg"

	"github.com/aliskhannn/banking-notifier/internal/model"
)

var (
	ErrNotificationNotFound  = errors.New("notification not found")
	ErrStaleRecord           = errors.New("notification was modified concurrently")
	ErrDuplicateNotification = errors.New("notification already exists")
)

const uniqueViolation = "23505"

const columns = `notification_id, recipient_id, recipient_email, recipient_phone, notification_type, priority,
		trigger_event, subject, message, status, scheduled_at, retry_count, max_retries,
		failure_reason, failed_at, created_at, sent_at, delivered_at, version`

const (
	insertQuery = `
		INSERT INTO notifications (` + columns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, 1);
    `

	updateQuery = `
		UPDATE notifications
		SET recipient_email = $2, recipient_phone = $3, subject = $4, message = $5, status = $6,
		    retry_count = $7, failure_reason = $8, failed_at = $9, sent_at = $10, delivered_at = $11,
		    version = version + 1
		WHERE notification_id = $1 AND version = $12;
    `

	existsQuery = `
		SELECT EXISTS (SELECT 1 FROM notifications WHERE notification_id = $1);
    `

	findByIDQuery = `
		SELECT ` + columns + `
		FROM notifications
		WHERE notification_id = $1;
    `

	findByRecipientQuery = `
		SELECT ` + columns + `
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC;
    `

	findCreatedBeforeQuery = `
		SELECT ` + columns + `
		FROM notifications
		WHERE created_at < $1;
    `

	deleteCreatedBeforeQuery = `
		DELETE FROM notifications
		WHERE created_at < $1;
    `

	findAllQuery = `
		SELECT ` + columns + `
		FROM notifications
		ORDER BY created_at DESC;
    `
)

// Repository provides methods to interact with notifications table.
type Repository struct {
	db *dbpg.DB
}

// NewRepository creates a new notification repository.
func NewRepository(db *dbpg.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a new notification (Version == 0) or updates an existing one
// if its stored version still matches n.Version. On success n.Version is advanced.
func (r *Repository) Save(ctx context.Context, n *model.Notification) error {
	if n.Version == 0 {
		return r.insert(ctx, n)
	}

	res, err := r.db.ExecContext(
		ctx, updateQuery,
		n.NotificationID, n.RecipientEmail, n.RecipientPhone, n.Subject, n.Message, n.Status,
		n.RetryCount, n.FailureReason, n.FailedAt, n.SentAt, n.DeliveredAt, n.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 1 {
		n.Version++
		return nil
	}

	var exists bool
	if err := r.db.Master.QueryRowContext(ctx, existsQuery, n.NotificationID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if !exists {
		return ErrNotificationNotFound
	}

	return ErrStaleRecord
}

func (r *Repository) insert(ctx context.Context, n *model.Notification) error {
	_, err := r.db.ExecContext(
		ctx, insertQuery,
		n.NotificationID, n.RecipientID, n.RecipientEmail, n.RecipientPhone, n.NotificationType, n.Priority,
		n.TriggerEvent, n.Subject, n.Message, n.Status, n.ScheduledAt, n.RetryCount, n.MaxRetries,
		n.FailureReason, n.FailedAt, n.CreatedAt, n.SentAt, n.DeliveredAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateNotification
		}
		return fmt.Errorf("failed to create notification: %w", err)
	}

	n.Version = 1
	return nil
}

// FindByID retrieves a notification by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := scanNotification(r.db.Master.QueryRowContext(ctx, findByIDQuery, id), &n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotificationNotFound
		}

		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return &n, nil
}

// FindByRecipient retrieves the recipient's notifications, newest first.
// It reads from the master so a recipient sees their own latest writes.
func (r *Repository) FindByRecipient(ctx context.Context, recipientID int64) ([]model.Notification, error) {
	return r.list(ctx, r.db.Master, findByRecipientQuery, recipientID)
}

// FindCreatedBefore retrieves notifications created strictly before cutoff.
// It reads from the master, the same node DeleteCreatedBefore writes to.
func (r *Repository) FindCreatedBefore(ctx context.Context, cutoff time.Time) ([]model.Notification, error) {
	return r.list(ctx, r.db.Master, findCreatedBeforeQuery, cutoff)
}

// FindAll retrieves all notifications ordered by creation time descending.
func (r *Repository) FindAll(ctx context.Context) ([]model.Notification, error) {
	return r.list(ctx, r.db, findAllQuery)
}

// DeleteCreatedBefore removes notifications created strictly before cutoff and returns how many were removed.
func (r *Repository) DeleteCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteCreatedBeforeQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted notifications: %w", err)
	}

	return rows, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *Repository) list(ctx context.Context, q querier, query string, args ...interface{}) ([]model.Notification, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNotification(s scanner, n *model.Notification) error {
	return s.Scan(
		&n.NotificationID, &n.RecipientID, &n.RecipientEmail, &n.RecipientPhone, &n.NotificationType, &n.Priority,
		&n.TriggerEvent, &n.Subject, &n.Message, &n.Status, &n.ScheduledAt, &n.RetryCount, &n.MaxRetries,
		&n.FailureReason, &n.FailedAt, &n.CreatedAt, &n.SentAt, &n.DeliveredAt, &n.Version,
	)
}
