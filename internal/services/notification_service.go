package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-feed/internal/domain"
	"github.com/tbourn/go-social-feed/internal/repo"
)

// NotificationService reads and acknowledges a user's notifications. They
// are written by InteractionService.
type NotificationService struct {
	DB *gorm.DB
	// Limit is the number of notifications List returns.
	Limit int
}

// NewNotificationService returns a service listing the newest 50
// notifications.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db, Limit: 50}
}

func (s *NotificationService) span(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return otel.Tracer("services/NotificationService").Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", userID)))
}

// List returns userID's newest notifications, read or not.
func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	ctx, span := s.span(ctx, "List", userID)
	defer span.End()

	limit := s.Limit
	if limit <= 0 {
		limit = 50
	}
	return repo.ListNotifications(ctx, s.DB, userID, limit)
}

// UnreadCount counts userID's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	ctx, span := s.span(ctx, "UnreadCount", userID)
	defer span.End()

	return repo.CountUnreadNotifications(ctx, s.DB, userID)
}

// MarkAllRead marks every notification of userID as read and returns how
// many were unread.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	ctx, span := s.span(ctx, "MarkAllRead", userID)
	defer span.End()

	n, err := repo.MarkAllNotificationsRead(ctx, s.DB, userID)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("notifications.marked", n))
	zerolog.Ctx(ctx).Debug().Str("user_id", userID).Int64("marked", n).Msg("notifications read")
	return n, nil
}

// MarkRead marks one of userID's notifications as read. Notifications of
// other users are reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ctx, span := s.span(ctx, "MarkRead", userID)
	defer span.End()
	span.SetAttributes(attribute.String("notification.id", id))

	err := repo.MarkNotificationRead(ctx, s.DB, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
