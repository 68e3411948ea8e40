package service

import (
	"context"
	"encoding/json"
	"time"

	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/repository"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// auditRecord is the wire shape on the audit topic.
type auditRecord struct {
	Action  string                 `json:"action"`
	ActorId *uuid.UUID             `json:"actor_id,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type IAuditService interface {
	// Record enqueues an audit row. Fire and forget: the request path never
	// waits on the database write.
	Record(ctx context.Context, action string, actorID uuid.UUID, details map[string]interface{})
	Consume(ctx context.Context) error
}

type auditService struct {
	publisher IPublisherService
	pubSub    *gochannel.GoChannel
	topicName string
	logRepo   repository.SystemLogRepository
	logger    logger.ILogger
}

func NewAuditService(publisher IPublisherService, pubSub *gochannel.GoChannel, topicName string, logRepo repository.SystemLogRepository, log logger.ILogger) IAuditService {
	return &auditService{
		publisher: publisher,
		pubSub:    pubSub,
		topicName: topicName,
		logRepo:   logRepo,
		logger:    log,
	}
}

func (s *auditService) Record(ctx context.Context, action string, actorID uuid.UUID, details map[string]interface{}) {
	rec := auditRecord{Action: action, Details: details}
	if actorID != uuid.Nil {
		rec.ActorId = &actorID
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error("AuditService", "Failed to serialize audit record", map[string]interface{}{"action": action, "error": err.Error()})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Error("AuditService", "Failed to enqueue audit record", map[string]interface{}{"action": action, "error": err.Error()})
	}
}

// Consume drains the audit topic into system_logs.
func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(msg *message.Message) {
	var rec auditRecord
	if err := json.Unmarshal(msg.Payload, &rec); err != nil {
		s.logger.Error("AuditService", "Failed to unmarshal audit record", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed, never retriable
		return
	}

	entry := &model.SystemLog{
		Id:        uuid.New(),
		Action:    rec.Action,
		ActorId:   rec.ActorId,
		CreatedAt: time.Now(),
	}
	if rec.Details != nil {
		detailsJSON, _ := json.Marshal(rec.Details)
		entry.Details = datatypes.JSON(detailsJSON)
	}

	if err := s.logRepo.Create(context.Background(), entry); err != nil {
		s.logger.Error("AuditService", "Failed to persist audit record", map[string]interface{}{"action": rec.Action, "error": err.Error()})
		msg.Nack()
		return
	}
	msg.Ack()
}
