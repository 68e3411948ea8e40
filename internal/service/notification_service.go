package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/repository"
	"timetrack-be/pkg/events"
	pktNats "timetrack-be/pkg/nats"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type NotificationService struct {
	repo       repository.NotificationRepository
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(repo repository.NotificationRepository, sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		repo:       repo,
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

// Notify records a notification and then pushes it to the recipient's live
// channel if one is open. The durable write is the source of truth: if it
// fails, nothing is pushed and the error is returned. A push failure, on the
// other hand, is logged and swallowed; the recipient reads the record on
// their next fetch.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, message string, metadata map[string]interface{}) (*model.Notification, error) {
	notif := model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	if metadata != nil {
		metaJSON, err := json.Marshal(metadata)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unserializable metadata: %v", err))
		}
		notif.Metadata = datatypes.JSON(metaJSON)
	}

	if err := s.repo.Create(ctx, &notif); err != nil {
		return nil, apperrors.NewStorageError("create notification", err)
	}

	if s.delivery != nil {
		s.delivery.Send(userID, notif)
	}
	return &notif, nil
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	s.logger.Info("NotificationService", fmt.Sprintf("Processing event: %s", typeCode), map[string]interface{}{"type": typeCode})

	payload := event.Payload()
	uidStr, ok := payload["user_id"].(string)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no user_id, skipping", typeCode), nil)
		return nil
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Event carries malformed user_id", map[string]interface{}{"user_id": uidStr})
		return nil
	}

	kind, message := s.render(typeCode, payload)
	if kind == "" {
		// Unknown event type. Ack so the bus does not redeliver forever.
		return nil
	}

	// Returning the storage error makes NATS redeliver; delivery failures are
	// already absorbed inside Notify.
	if _, err := s.Notify(ctx, userID, kind, message, payload); err != nil {
		s.logger.Error("NotificationService", fmt.Sprintf("Failed to record notification for event %s", typeCode), map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}

func (s *NotificationService) render(typeCode string, payload map[string]interface{}) (kind, message string) {
	projectName, _ := payload["project_name"].(string)
	teamName, _ := payload["team_name"].(string)
	managerName, _ := payload["manager_name"].(string)

	switch typeCode {
	case events.TypeEntryApproved:
		return model.NotificationApproval, fmt.Sprintf("Your time entry for %s was approved", projectName)
	case events.TypeEntryRejected:
		return model.NotificationRejection, fmt.Sprintf("Your time entry for %s was rejected", projectName)
	case events.TypeTeamInvite:
		return model.NotificationTeamInvite, fmt.Sprintf("%s added you to the team %s", managerName, teamName)
	default:
		return "", ""
	}
}

// GetNotifications fetches notifications for a user, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// GetUnreadCount fetches unread count.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read.
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, id uuid.UUID) (*model.Notification, error) {
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllAsRead marks all notifications as read for a user.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
