package repository

import (
	"context"

	"timetrack-be/internal/model"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
