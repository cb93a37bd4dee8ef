package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/campus-works/internal/models"
	"github.com/yukikurage/campus-works/internal/notify"
	"github.com/yukikurage/campus-works/internal/repository"
	"github.com/yukikurage/campus-works/internal/utils"
	"gorm.io/gorm"
)

// Notifier delivers lifecycle events after a transition has been committed.
// Implementations must not block and must not fail the caller.
type Notifier interface {
	Notify(userID string, event notify.Event)
	Broadcast(event notify.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, notify.Event) {}
func (nopNotifier) Broadcast(notify.Event)      {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// NotificationService exposes a user's notification inbox
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListNotifications lists the user's notifications, newest first
func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, params utils.PaginationParams) ([]models.Notification, int64, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, unreadOnly, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkNotificationRead marks one of the user's notifications read
func (s *NotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notificationRepo.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
