// internal/notification/repository.go

package notifications

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// Notifications CRUD
	CreateNotification(ctx context.Context, notification *Notification) error
	GetNotification(ctx context.Context, notificationID int64) (*Notification, error)
	GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error)
	GetUserNotificationCount(ctx context.Context, userID int64, unreadOnly bool) (int, error)
	MarkAsRead(ctx context.Context, notificationID int64, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	DeleteNotification(ctx context.Context, notificationID int64, userID int64) error
	DeleteOldNotifications(ctx context.Context, before time.Time) error

	// Push tokens
	SavePushToken(ctx context.Context, token *PushToken) error
	GetUserPushTokens(ctx context.Context, userID int64) ([]*PushToken, error)
	DeletePushToken(ctx context.Context, token string) error
	DeactivatePushToken(ctx context.Context, token string) error

	// Preferences
	GetUserPreferences(ctx context.Context, userID int64) (*NotificationPreferences, error)
	UpdateUserPreferences(ctx context.Context, userID int64, updates map[string]interface{}) error

	// Scheduled notifications
	CreateScheduledNotification(ctx context.Context, scheduled *ScheduledNotification) error
	GetScheduledNotification(ctx context.Context, id int64) (*ScheduledNotification, error)
	GetPendingScheduledNotifications(ctx context.Context, before time.Time) ([]*ScheduledNotification, error)
	ClaimScheduledNotification(ctx context.Context, id int64) (bool, error)
	UpdateScheduledNotificationStatus(ctx context.Context, id int64, status string, sentAt *time.Time) error
	CancelScheduledNotification(ctx context.Context, id int64) error

	// Contact lookup for email/SMS channels
	GetUserContact(ctx context.Context, userID int64) (email string, phone string, err error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateNotification creates a new notification
func (r *postgresRepository) CreateNotification(ctx context.Context, notification *Notification) error {
	query := `
        INSERT INTO notifications (user_id, type, title, message, data, is_read)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	dataJSON, err := json.Marshal(notification.Data)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, query,
		notification.UserID,
		notification.Type,
		notification.Title,
		notification.Message,
		dataJSON,
		notification.IsRead,
	).Scan(&notification.ID, &notification.CreatedAt)

	return err
}

// GetNotification retrieves a notification by ID
func (r *postgresRepository) GetNotification(ctx context.Context, notificationID int64) (*Notification, error) {
	var notification Notification
	query := `
        SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
        FROM notifications
        WHERE id = $1`

	err := r.db.GetContext(ctx, &notification, query, notificationID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &notification, err
}

// GetUserNotifications retrieves notifications for a user
func (r *postgresRepository) GetUserNotifications(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
	query := `
        SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
        FROM notifications
        WHERE user_id = $1`

	if unreadOnly {
		query += " AND is_read = false"
	}

	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	var notifications []*Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset)
	return notifications, err
}

// GetUserNotificationCount gets notification count for a user
func (r *postgresRepository) GetUserNotificationCount(ctx context.Context, userID int64, unreadOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`

	if unreadOnly {
		query += " AND is_read = false"
	}

	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// MarkAsRead marks a notification as read
func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID int64, userID int64) error {
	query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, notificationID, userID)
	return err
}

// MarkAllAsRead marks all notifications as read for a user
func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE user_id = $1 AND is_read = false`

	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// DeleteNotification deletes a notification
func (r *postgresRepository) DeleteNotification(ctx context.Context, notificationID int64, userID int64) error {
	query := `DELETE FROM notifications WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, notificationID, userID)
	return err
}

// DeleteOldNotifications deletes read notifications older than the cutoff
func (r *postgresRepository) DeleteOldNotifications(ctx context.Context, before time.Time) error {
	query := `DELETE FROM notifications WHERE created_at < $1 AND is_read = true`
	_, err := r.db.ExecContext(ctx, query, before)
	return err
}

// SavePushToken saves or updates a push token
func (r *postgresRepository) SavePushToken(ctx context.Context, token *PushToken) error {
	query := `
        INSERT INTO push_tokens (user_id, platform, token, device_id, is_active)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id, device_id)
        DO UPDATE SET token = $3, platform = $2, is_active = $5, updated_at = NOW()
        RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		token.UserID, token.Platform, token.Token, token.DeviceID, true,
	).Scan(&token.ID, &token.CreatedAt, &token.UpdatedAt)

	return err
}

// GetUserPushTokens retrieves active push tokens for a user
func (r *postgresRepository) GetUserPushTokens(ctx context.Context, userID int64) ([]*PushToken, error) {
	query := `
        SELECT id, user_id, platform, token, device_id, is_active, created_at, updated_at
        FROM push_tokens
        WHERE user_id = $1 AND is_active = true`

	var tokens []*PushToken
	err := r.db.SelectContext(ctx, &tokens, query, userID)
	return tokens, err
}

// DeletePushToken deletes a push token
func (r *postgresRepository) DeletePushToken(ctx context.Context, token string) error {
	query := `DELETE FROM push_tokens WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

// DeactivatePushToken deactivates a push token
func (r *postgresRepository) DeactivatePushToken(ctx context.Context, token string) error {
	query := `UPDATE push_tokens SET is_active = false WHERE token = $1`
	_, err := r.db.ExecContext(ctx, query, token)
	return err
}

// GetUserPreferences retrieves user notification preferences
func (r *postgresRepository) GetUserPreferences(ctx context.Context, userID int64) (*NotificationPreferences, error) {
	var prefs NotificationPreferences
	query := `
        SELECT * FROM notification_preferences
        WHERE user_id = $1`

	err := r.db.GetContext(ctx, &prefs, query, userID)
	if err == sql.ErrNoRows {
		// Return default preferences if not found
		return &NotificationPreferences{
			UserID:       userID,
			PushEnabled:  true,
			EmailEnabled: true,
			SMSEnabled:   false,
			CheckIns:     true,
			Celebrations: true,
			Reminders:    true,
			Suggestions:  true,
		}, nil
	}
	return &prefs, err
}

// allowed preference columns; updates with other keys are rejected
var preferenceColumns = map[string]bool{
	"push_enabled":  true,
	"email_enabled": true,
	"sms_enabled":   true,
	"check_ins":     true,
	"celebrations":  true,
	"reminders":     true,
	"suggestions":   true,
}

// UpdateUserPreferences updates specific user preferences, creating the row
// with defaults first if it does not exist.
func (r *postgresRepository) UpdateUserPreferences(ctx context.Context, userID int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	ensure := `
        INSERT INTO notification_preferences (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, ensure, userID); err != nil {
		return err
	}

	query := "UPDATE notification_preferences SET updated_at = NOW()"
	args := []interface{}{userID}

	for key, value := range updates {
		if !preferenceColumns[key] {
			return fmt.Errorf("unknown preference field: %s", key)
		}
		args = append(args, value)
		query += fmt.Sprintf(", %s = $%d", key, len(args))
	}

	query += " WHERE user_id = $1"

	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// CreateScheduledNotification creates a scheduled notification
func (r *postgresRepository) CreateScheduledNotification(ctx context.Context, scheduled *ScheduledNotification) error {
	query := `
        INSERT INTO scheduled_notifications
        (user_id, type, title, message, data, channels, timing, priority, scheduled_for, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at`

	dataJSON, err := json.Marshal(scheduled.Data)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, query,
		scheduled.UserID, scheduled.Type, scheduled.Title, scheduled.Message,
		dataJSON, scheduled.Channels, scheduled.Timing, scheduled.Priority,
		scheduled.ScheduledFor, "pending",
	).Scan(&scheduled.ID, &scheduled.CreatedAt)

	return err
}

// GetScheduledNotification retrieves a scheduled notification by ID
func (r *postgresRepository) GetScheduledNotification(ctx context.Context, id int64) (*ScheduledNotification, error) {
	var scheduled ScheduledNotification
	query := `SELECT * FROM scheduled_notifications WHERE id = $1`

	err := r.db.GetContext(ctx, &scheduled, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &scheduled, err
}

// GetPendingScheduledNotifications gets pending scheduled notifications
func (r *postgresRepository) GetPendingScheduledNotifications(ctx context.Context, before time.Time) ([]*ScheduledNotification, error) {
	query := `
        SELECT * FROM scheduled_notifications
        WHERE status = 'pending' AND scheduled_for <= $1
        ORDER BY scheduled_for ASC`

	var notifications []*ScheduledNotification
	err := r.db.SelectContext(ctx, &notifications, query, before)
	return notifications, err
}

// ClaimScheduledNotification moves a pending row to 'sending' and reports
// whether this caller won the claim. A row that is no longer pending
// (already claimed, sent, or cancelled) is not claimable.
func (r *postgresRepository) ClaimScheduledNotification(ctx context.Context, id int64) (bool, error) {
	query := `
        UPDATE scheduled_notifications
        SET status = 'sending'
        WHERE id = $1 AND status = 'pending'`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// UpdateScheduledNotificationStatus updates scheduled notification status
func (r *postgresRepository) UpdateScheduledNotificationStatus(ctx context.Context, id int64, status string, sentAt *time.Time) error {
	query := `
        UPDATE scheduled_notifications
        SET status = $2, sent_at = $3
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, status, sentAt)
	return err
}

// CancelScheduledNotification cancels a scheduled notification that has not
// been sent yet.
func (r *postgresRepository) CancelScheduledNotification(ctx context.Context, id int64) error {
	query := `
        UPDATE scheduled_notifications
        SET status = 'cancelled'
        WHERE id = $1 AND status = 'pending'`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// GetUserContact looks up the delivery addresses for the email and SMS channels
func (r *postgresRepository) GetUserContact(ctx context.Context, userID int64) (string, string, error) {
	var contact struct {
		Email string         `db:"email"`
		Phone sql.NullString `db:"phone_number"`
	}
	query := `SELECT email, phone_number FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &contact, query, userID)
	if err != nil {
		return "", "", err
	}
	return contact.Email, contact.Phone.String, nil
}
