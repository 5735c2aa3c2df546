package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/inquizitor/inquizitor-backend/internal/model"
	"github.com/inquizitor/inquizitor-backend/internal/repository"
)

// NotificationService exposes system announcements with per-user read state.
type NotificationService struct {
	notifications *repository.NotificationRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns every announcement with the caller's read flag, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]model.SystemNotification, error) {
	return s.notifications.ListForUser(ctx, userID)
}

// MarkRead flags one announcement as read for the caller.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.notifications.MarkRead(ctx, userID, notificationID)
}
