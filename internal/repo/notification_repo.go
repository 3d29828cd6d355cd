// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for notifications.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
)

// CreateNotification inserts n. A missing ID or CreatedAt is generated; ids
// are time-ordered so equal timestamps still list in insertion order.
func CreateNotification(ctx context.Context, db *gorm.DB, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = NewTweetID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(n).Error
}

// ListNotifications returns up to limit notifications of recipientID, newest
// first.
func ListNotifications(ctx context.Context, db *gorm.DB, recipientID string, limit int) ([]domain.Notification, error) {
	var out []domain.Notification
	err := db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order(newestFirst).
		Limit(limit).
		Find(&out).Error
	if out == nil {
		out = []domain.Notification{}
	}
	return out, err
}

// CountUnreadNotifications counts the unread notifications of recipientID.
func CountUnreadNotifications(ctx context.Context, db *gorm.DB, recipientID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkAllNotificationsRead marks every unread notification of recipientID as
// read and returns how many changed.
func MarkAllNotificationsRead(ctx context.Context, db *gorm.DB, recipientID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// MarkNotificationRead marks one notification as read. It returns ErrNotFound
// when id does not exist or belongs to another recipient. Marking an already
// read notification succeeds.
func MarkNotificationRead(ctx context.Context, db *gorm.DB, id, recipientID string) error {
	var n domain.Notification
	err := db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		First(&n).Error
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}
