package service

import (
	"context"
	"time"

	"timetrack-be/internal/dto"
	"timetrack-be/internal/model"
	"timetrack-be/internal/pkg/apperrors"
	"timetrack-be/internal/pkg/logger"
	"timetrack-be/internal/repository"
	"timetrack-be/pkg/events"
	pktNats "timetrack-be/pkg/nats"

	"github.com/google/uuid"
)

type ITimeEntryService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTimeEntryRequest) (*model.TimeEntry, error)
	List(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.TimeEntry, error)
	Approve(ctx context.Context, approverID, entryID uuid.UUID) error
	Reject(ctx context.Context, approverID, entryID uuid.UUID) error
}

type timeEntryService struct {
	entryRepo      repository.TimeEntryRepository
	projectRepo    repository.ProjectRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewTimeEntryService(entryRepo repository.TimeEntryRepository, projectRepo repository.ProjectRepository, eventPublisher *pktNats.Publisher, log logger.ILogger) ITimeEntryService {
	return &timeEntryService{
		entryRepo:      entryRepo,
		projectRepo:    projectRepo,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Create records a manual time entry, for hours tracked outside the timer.
func (s *timeEntryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTimeEntryRequest) (*model.TimeEntry, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewValidationError("end time must be after start time")
	}
	if _, err := s.projectRepo.FindByID(ctx, req.ProjectId); err != nil {
		return nil, err
	}

	end := req.EndTime
	entry := &model.TimeEntry{
		Id:          uuid.New(),
		UserId:      userID,
		ProjectId:   req.ProjectId,
		StartTime:   req.StartTime,
		EndTime:     &end,
		Description: req.Description,
	}
	if err := s.entryRepo.Create(ctx, entry); err != nil {
		return nil, apperrors.NewStorageError("create time entry", err)
	}
	return entry, nil
}

func (s *timeEntryService) List(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]model.TimeEntry, error) {
	return s.entryRepo.ListByUserInRange(ctx, userID, start, end)
}

func (s *timeEntryService) Approve(ctx context.Context, approverID, entryID uuid.UUID) error {
	return s.setApproval(ctx, approverID, entryID, true)
}

func (s *timeEntryService) Reject(ctx context.Context, approverID, entryID uuid.UUID) error {
	return s.setApproval(ctx, approverID, entryID, false)
}

func (s *timeEntryService) setApproval(ctx context.Context, approverID, entryID uuid.UUID, approved bool) error {
	entry, err := s.entryRepo.FindByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.UserId == approverID {
		return apperrors.NewValidationError("cannot review your own time entry")
	}

	now := time.Now()
	if err := s.entryRepo.SetApproval(ctx, entryID, approved, approverID, now); err != nil {
		return apperrors.NewStorageError("set approval", err)
	}

	projectName := ""
	if project, err := s.projectRepo.FindByID(ctx, entry.ProjectId); err == nil {
		projectName = project.Name
	}

	eventType := events.TypeEntryApproved
	if !approved {
		eventType = events.TypeEntryRejected
	}
	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"user_id":      entry.UserId.String(),
			"entry_id":     entry.Id.String(),
			"project_id":   entry.ProjectId.String(),
			"project_name": projectName,
			"actor_id":     approverID.String(),
		},
		OccurredAt: now,
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		// The approval is durable; the owner finds out on their next fetch.
		s.logger.Error("TimeEntryService", "Failed to publish approval event", map[string]interface{}{"error": err.Error(), "entry_id": entryID})
	}
	return nil
}
